package indicator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/sync/singleflight"
)

// ErrTooLarge is returned for animated images of more than MaxImagePixels.
var ErrTooLarge = errors.New("animated image too large")

// ImageCache stores encoded animated images by key.
type ImageCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, image []byte) error
}

// A Provider hands out encoded animated images, rendering each key at most
// once per cache lifetime.
type Provider struct {
	cache      ImageCache
	background colorful.Color
	group      singleflight.Group
}

// NewProvider creates a Provider that flattens images onto background.
func NewProvider(cache ImageCache, background colorful.Color) *Provider {
	p := new(Provider)
	p.cache = cache
	p.background = background
	return p
}

// AnimatedGIF returns the GIF for ind at frameRate along with its cache key.
// It is served from the cache when present, otherwise it is rendered and
// stored first. If it cannot be stored no image is returned. The returned
// bytes are shared and must not be modified.
func (p *Provider) AnimatedGIF(ctx context.Context, ind *Indicator, frameRate float64) ([]byte, string, error) {
	key := ind.ImageKey(frameRate, p.background)
	if n := ind.ImagePixels(frameRate); n > MaxImagePixels {
		return nil, key, fmt.Errorf("%w: %s needs %d pixels, at most %d", ErrTooLarge, key, n, MaxImagePixels)
	}

	data, ok, err := p.cache.Get(ctx, key)
	if err != nil {
		return nil, key, fmt.Errorf("get %s from image cache: %w", key, err)
	}
	if ok {
		return data, key, nil
	}

	// Concurrent misses for one key wait for a single render, which must not
	// fail because the caller that started it went away.
	shared := context.WithoutCancel(ctx)
	v, err, _ := p.group.Do(key, func() (interface{}, error) {
		start := time.Now()
		img := ind.AnimatedImageForFrameRate(frameRate)

		var buf bytes.Buffer
		if err := img.EncodeGIF(&buf, p.background); err != nil {
			return nil, fmt.Errorf("render %s: %w", key, err)
		}
		if err := p.cache.Put(shared, key, buf.Bytes()); err != nil {
			return nil, fmt.Errorf("put %s into image cache: %w", key, err)
		}

		log.Printf("Rendered %s: %d frames (%.2fs), %d bytes in %v",
			key, len(img.Frames), img.Duration(), buf.Len(), time.Since(start))
		return buf.Bytes(), nil
	})
	if err != nil {
		return nil, key, err
	}

	return v.([]byte), key, nil
}
