// Package storage holds the backends rendered images are cached in.
package storage

import (
	"context"
	"log"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultMemoryImages is how many images a MemoryCache holds when no limit
// is given.
const DefaultMemoryImages = 256

// MemoryCache keeps the most recently used images in process memory, each
// for at most a TTL. Images are copied in and out so callers cannot modify
// what is stored.
type MemoryCache struct {
	images *expirable.LRU[string, []byte]
}

// NewMemoryCache creates a MemoryCache of at most maxImages images. A
// maxImages of zero or less means DefaultMemoryImages, a ttl of zero or less
// keeps images until they are evicted.
func NewMemoryCache(maxImages int, ttl time.Duration) *MemoryCache {
	if maxImages <= 0 {
		maxImages = DefaultMemoryImages
	}
	return &MemoryCache{images: expirable.NewLRU[string, []byte](maxImages, nil, ttl)}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	data, ok := c.images.Get(key)
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}

func (c *MemoryCache) Put(_ context.Context, key string, image []byte) error {
	if evicted := c.images.Add(key, append([]byte(nil), image...)); evicted {
		log.Printf("Memory cache full, evicted the least recently used image to store %s", key)
	}
	return nil
}
