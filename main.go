package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eclipse/paho.mqtt.golang"
	"github.com/joho/godotenv"

	"github.com/matt-g-everett/bubbletx/api"
	"github.com/matt-g-everett/bubbletx/config"
	"github.com/matt-g-everett/bubbletx/indicator"
	"github.com/matt-g-everett/bubbletx/storage"
	"github.com/matt-g-everett/bubbletx/stream"
)

type app struct {
	Config    config.Config
	Indicator *indicator.Indicator
	Provider  *indicator.Provider
	Client    mqtt.Client
	Streamer  *stream.Streamer
	ctx       context.Context
}

func newApp(ctx context.Context) *app {
	a := new(app)
	a.ctx = ctx
	return a
}

func (a *app) readConfig(configPath string) error {
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	a.Config = c
	return nil
}

// applyFlags lets the flags set on the command line override the config
// file. Flags left out keep the configured values.
func (a *app) applyFlags(flags *flag.FlagSet, colour, style, out string, radius, fps float64) error {
	var err error
	flags.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "color":
			a.Config.Indicator.Color, err = indicator.ParseColor(colour)
		case "style":
			a.Config.Indicator.Style, err = indicator.ParseStyle(style)
		case "radius":
			a.Config.Indicator.BubbleRadius = radius
		case "fps":
			a.Config.FrameRate = fps
		case "out":
			a.Config.Output = out
		}
	})
	return err
}

func (a *app) setupCache() error {
	var cache indicator.ImageCache
	if a.Config.Cache.RedisURL != "" {
		client, err := storage.NewRedisClient(a.ctx, storage.RedisConfig{URL: a.Config.Cache.RedisURL})
		if err != nil {
			return err
		}
		cache = storage.NewRedisCache(client, a.Config.CacheTTL())
		log.Println("Caching images in redis")
	} else {
		cache = storage.NewMemoryCache(a.Config.Cache.MemoryImages, a.Config.CacheTTL())
		log.Printf("Caching up to %d images in memory", a.Config.Cache.MemoryImages)
	}

	a.Indicator = indicator.New(a.Config.Indicator)
	a.Provider = indicator.NewProvider(cache, a.Config.Background.Color)
	return nil
}

func (a *app) render() error {
	data, key, err := a.Provider.AnimatedGIF(a.ctx, a.Indicator, a.Config.FrameRate)
	if err != nil {
		return err
	}
	if err := os.WriteFile(a.Config.Output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", a.Config.Output, err)
	}
	log.Printf("Wrote %s (%s, %d bytes)", a.Config.Output, key, len(data))
	return nil
}

func (a *app) serve() error {
	return api.NewApi(a.Provider, a.Config.Indicator, a.Config.FrameRate).Serve(a.ctx, a.Config.Http.Addr)
}

func (a *app) handleOnConnect(client mqtt.Client) {
	log.Println("Connected")
	topic, err := stream.PublishImage(a.ctx, stream.NewMQTTPublisher(client, 1), a.Provider,
		a.Indicator, a.Config.FrameRate, a.Config.Stream.Mqtt.Topics.Image)
	if err != nil {
		log.Printf("Failed to publish image: %v", err)
		return
	}
	log.Printf("Published image to %s", topic)
}

func (a *app) streamFrames() error {
	m := a.Config.Stream.Mqtt
	options := mqtt.NewClientOptions().
		AddBroker(m.URL).
		SetClientID(m.ClientID).
		SetUsername(m.Username).
		SetPassword(m.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetOnConnectHandler(a.handleOnConnect)
	a.Client = mqtt.NewClient(options)

	if token := a.Client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connect to %s: %w", m.URL, token.Error())
	}
	defer a.Client.Disconnect(250)

	a.Streamer = stream.NewStreamer(stream.NewMQTTPublisher(a.Client, 0), m.Topics.Frames,
		a.Config.FrameRate, a.Config.Stream.TransitionSecs, a.Indicator)
	a.Streamer.Start()
	log.Printf("Streaming %s to %s", a.Indicator.CacheKey(), m.Topics.Frames)

	<-a.ctx.Done()
	return a.Streamer.Stop()
}

func main() {
	// mqtt.DEBUG = log.New(os.Stdout, "", 0)
	mqtt.ERROR = log.New(os.Stdout, "", 0)

	// Parse command line parameters
	configPath := flag.String("config", "", "YAML config file.")
	mode := flag.String("mode", "render", "What to do: render, serve or stream.")
	colour := flag.String("color", "", "Bubble colour as #rrggbb or #rrggbbaa.")
	style := flag.String("style", "", "Indicator style: modern or beta.")
	radius := flag.Float64("radius", 0, "Bubble radius, 0 for the default.")
	fps := flag.Float64("fps", 0, "Frame rate of the animated image.")
	out := flag.String("out", "", "File the animated image is written to.")
	flag.Parse()

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp(ctx)
	if err := a.readConfig(*configPath); err != nil {
		log.Fatalf("Config: %v", err)
	}
	if err := a.applyFlags(flag.CommandLine, *colour, *style, *out, *radius, *fps); err != nil {
		log.Fatalf("Flags: %v", err)
	}
	if err := a.setupCache(); err != nil {
		log.Fatalf("Cache: %v", err)
	}

	var err error
	switch *mode {
	case "render":
		err = a.render()
	case "serve":
		err = a.serve()
	case "stream":
		err = a.streamFrames()
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		log.Fatalf("%s: %v", *mode, err)
	}
}
