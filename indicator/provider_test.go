package indicator

import (
	"bytes"
	"context"
	"errors"
	"image/gif"
	"sync"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

type fakeCache struct {
	mu     sync.Mutex
	images map[string][]byte
	gets   int
	puts   int
	getErr error
	putErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{images: make(map[string][]byte)}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	data, ok := c.images[key]
	return data, ok, nil
}

func (c *fakeCache) Put(_ context.Context, key string, image []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.puts++
	if c.putErr != nil {
		return c.putErr
	}
	c.images[key] = image
	return nil
}

// ctxCache fails to store once the context it is given is done.
type ctxCache struct {
	*fakeCache
}

func (c ctxCache) Put(ctx context.Context, key string, image []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.fakeCache.Put(ctx, key, image)
}

func TestProviderRendersOnceAndCaches(t *testing.T) {
	t.Parallel()

	cache := newFakeCache()
	p := NewProvider(cache, colorful.Color{})
	ind := New(Config{Color: red})
	ctx := context.Background()

	first, key, err := p.AnimatedGIF(ctx, ind, 30)
	if err != nil {
		t.Fatalf("AnimatedGIF() error = %v", err)
	}
	if key != ind.ImageKey(30, colorful.Color{}) {
		t.Errorf("key = %q, want %q", key, ind.ImageKey(30, colorful.Color{}))
	}
	if cache.puts != 1 {
		t.Fatalf("puts = %d after a miss, want 1", cache.puts)
	}

	second, _, err := p.AnimatedGIF(ctx, New(Config{Color: red, BubbleRadius: 4}), 30)
	if err != nil {
		t.Fatalf("AnimatedGIF() error = %v", err)
	}
	if cache.puts != 1 {
		t.Errorf("puts = %d after a hit, want 1", cache.puts)
	}
	if !bytes.Equal(first, second) {
		t.Error("cached image differs from the rendered one")
	}

	g, err := gif.DecodeAll(bytes.NewReader(first))
	if err != nil {
		t.Fatalf("DecodeAll() error = %v", err)
	}
	if len(g.Image) != 30 {
		t.Errorf("%d frames, want 30", len(g.Image))
	}
}

func TestProviderRendersAreIdentical(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ind := New(Config{Style: Beta, Color: RGBA255(10, 200, 90, 1), BubbleRadius: 3})

	a, _, err := NewProvider(newFakeCache(), colorful.Color{}).AnimatedGIF(ctx, ind, 24)
	if err != nil {
		t.Fatalf("AnimatedGIF() error = %v", err)
	}
	b, _, err := NewProvider(newFakeCache(), colorful.Color{}).AnimatedGIF(ctx, ind, 24)
	if err != nil {
		t.Fatalf("AnimatedGIF() error = %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("two renders of one config produced different bytes")
	}
}

func TestProviderPutFailureIsFatal(t *testing.T) {
	t.Parallel()

	errFull := errors.New("cache full")
	cache := newFakeCache()
	cache.putErr = errFull

	data, _, err := NewProvider(cache, colorful.Color{}).AnimatedGIF(context.Background(), New(Config{Color: red}), 30)
	if !errors.Is(err, errFull) {
		t.Fatalf("AnimatedGIF() error = %v, want %v", err, errFull)
	}
	if data != nil {
		t.Errorf("AnimatedGIF() returned %d bytes alongside an error", len(data))
	}
}

func TestProviderGetFailure(t *testing.T) {
	t.Parallel()

	errDown := errors.New("cache down")
	cache := newFakeCache()
	cache.getErr = errDown

	_, _, err := NewProvider(cache, colorful.Color{}).AnimatedGIF(context.Background(), New(Config{Color: red}), 30)
	if !errors.Is(err, errDown) {
		t.Fatalf("AnimatedGIF() error = %v, want %v", err, errDown)
	}
	if cache.puts != 0 {
		t.Errorf("puts = %d, want 0", cache.puts)
	}
}

func TestProviderConcurrentCallers(t *testing.T) {
	t.Parallel()

	p := NewProvider(newFakeCache(), colorful.Color{})
	ind := New(Config{Color: red})

	const callers = 8
	results := make([][]byte, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _, errs[i] = p.AnimatedGIF(context.Background(), ind, 15)
		}(i)
	}
	wg.Wait()

	for i := range results {
		if errs[i] != nil {
			t.Fatalf("caller %d: %v", i, errs[i])
		}
		if !bytes.Equal(results[i], results[0]) {
			t.Errorf("caller %d got a different image", i)
		}
	}
}

func TestProviderStoresAfterCallerGoesAway(t *testing.T) {
	t.Parallel()

	cache := ctxCache{newFakeCache()}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	data, key, err := NewProvider(cache, colorful.Color{}).AnimatedGIF(ctx, New(Config{Color: red}), 10)
	if err != nil {
		t.Fatalf("AnimatedGIF() error = %v", err)
	}
	if len(data) == 0 {
		t.Fatal("AnimatedGIF() returned no image")
	}
	if _, ok := cache.images[key]; !ok {
		t.Errorf("%s was not stored", key)
	}
}

func TestProviderRejectsOversizedImages(t *testing.T) {
	t.Parallel()

	cache := newFakeCache()
	p := NewProvider(cache, colorful.Color{})
	ind := New(Config{Style: Beta, Color: red, BubbleRadius: MaxBubbleRadius, Scale: MaxScale})

	if n := ind.ImagePixels(MaxFrameRate); n <= MaxImagePixels {
		t.Fatalf("ImagePixels() = %d, want more than %d", n, MaxImagePixels)
	}
	data, _, err := p.AnimatedGIF(context.Background(), ind, MaxFrameRate)
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("AnimatedGIF() error = %v, want %v", err, ErrTooLarge)
	}
	if data != nil {
		t.Error("AnimatedGIF() returned an image along with the error")
	}
	if cache.gets != 0 || cache.puts != 0 {
		t.Errorf("cache was used: %d gets, %d puts", cache.gets, cache.puts)
	}
}
