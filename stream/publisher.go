package stream

import (
	"context"
	"fmt"

	"github.com/eclipse/paho.mqtt.golang"

	"github.com/matt-g-everett/bubbletx/indicator"
)

// A Publisher delivers payloads to a topic.
type Publisher interface {
	Publish(topic string, payload []byte, retained bool) error
}

// MQTTPublisher publishes through an MQTT client and waits for delivery.
type MQTTPublisher struct {
	client mqtt.Client
	qos    byte
}

func NewMQTTPublisher(client mqtt.Client, qos byte) *MQTTPublisher {
	p := new(MQTTPublisher)
	p.client = client
	p.qos = qos
	return p
}

func (p *MQTTPublisher) Publish(topic string, payload []byte, retained bool) error {
	token := p.client.Publish(topic, p.qos, retained, payload)
	token.Wait()
	return token.Error()
}

// ImageTopic is the topic the baked image of ind is retained on.
func ImageTopic(base string, ind *indicator.Indicator) string {
	return base + "/" + ind.CacheKey()
}

// PublishImage bakes (or fetches from the cache) the animated GIF of ind and
// publishes it retained, so a surface subscribing later still receives it.
func PublishImage(ctx context.Context, publisher Publisher, provider *indicator.Provider,
	ind *indicator.Indicator, frameRate float64, base string) (string, error) {

	data, _, err := provider.AnimatedGIF(ctx, ind, frameRate)
	if err != nil {
		return "", err
	}

	topic := ImageTopic(base, ind)
	if err := publisher.Publish(topic, data, true); err != nil {
		return "", fmt.Errorf("publish image to %s: %w", topic, err)
	}
	return topic, nil
}
