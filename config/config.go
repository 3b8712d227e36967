// Package config reads the YAML configuration and applies environment
// overrides on top of it.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v2"

	"github.com/matt-g-everett/bubbletx/indicator"
	"github.com/matt-g-everett/bubbletx/storage"
	"github.com/matt-g-everett/bubbletx/stream"
)

// EnvPrefix prefixes every environment variable that overrides the config.
const EnvPrefix = "BUBBLES_"

type Config struct {
	Indicator  indicator.Config `yaml:"indicator"`
	FrameRate  float64          `yaml:"frameRate"`
	Background indicator.Color  `yaml:"background"`
	Output     string           `yaml:"output" env:"OUTPUT"`

	Http struct {
		Addr string `yaml:"addr" env:"ADDR"`
	} `yaml:"http" envPrefix:"HTTP_"`

	Cache struct {
		RedisURL     string `yaml:"redisURL" env:"REDIS_URL"`
		TTLSecs      int    `yaml:"ttlSecs" env:"CACHE_TTL_SECS"`
		MemoryImages int    `yaml:"memoryImages" env:"CACHE_MEMORY_IMAGES"`
	} `yaml:"cache"`

	Stream stream.Config `yaml:"stream"`
}

// Default is the configuration used for anything a file does not set.
func Default() Config {
	var c Config
	c.Indicator = indicator.Config{Style: indicator.DefaultStyle, Color: indicator.White}
	c.FrameRate = indicator.DefaultFrameRate
	c.Background = indicator.Color{Alpha: 1}
	c.Output = "indicator.gif"
	c.Http.Addr = ":3000"
	c.Cache.TTLSecs = 24 * 60 * 60
	c.Cache.MemoryImages = storage.DefaultMemoryImages
	c.Stream.TransitionSecs = 1.0
	c.Stream.Mqtt.ClientID = "bubbletx"
	c.Stream.Mqtt.Topics.Frames = "home/watch/indicator/frames"
	c.Stream.Mqtt.Topics.Image = "home/watch/indicator/image"
	return c
}

// Load reads the YAML file at path over the defaults, then applies the
// environment. An empty path skips the file.
func Load(path string) (Config, error) {
	c := Default()

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return c, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
			return c, fmt.Errorf("decode config %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(&c, env.Options{Prefix: EnvPrefix}); err != nil {
		return c, fmt.Errorf("read environment: %w", err)
	}

	return c, nil
}

// CacheTTL is how long a cache keeps an image.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSecs) * time.Second
}
