package texture

import (
	"context"
	"fmt"
	"image"
	"sync"
)

// Resolver loads a card image reference.
type Resolver interface {
	Resolve(ctx context.Context, ref string) (*image.NRGBA, error)
}

// Cache is a concurrency-safe Resolver that remembers successful loads.
// Failures are not cached so an explicit retry can succeed.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*image.NRGBA
	index *Index
}

// NewCache creates a cache; index resolves content references and may be nil.
func NewCache(index *Index) *Cache {
	return &Cache{
		items: make(map[string]*image.NRGBA),
		index: index,
	}
}

// Resolve returns the decoded image for ref.
func (c *Cache) Resolve(ctx context.Context, ref string) (*image.NRGBA, error) {
	kind := Classify(ref)
	if err := errFor(kind); err != nil {
		return nil, err
	}

	// Fast path: read lock
	c.mu.RLock()
	if img, ok := c.items[ref]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	// Slow path: load
	img, err := c.load(ctx, kind, ref)
	if err != nil {
		return nil, err
	}

	// Write lock with double-check
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.items[ref]; ok {
		return existing, nil
	}
	c.items[ref] = img
	return img, nil
}

// Forget drops ref from the cache.
func (c *Cache) Forget(ref string) {
	c.mu.Lock()
	delete(c.items, ref)
	c.mu.Unlock()
}

func (c *Cache) load(ctx context.Context, kind RefKind, ref string) (*image.NRGBA, error) {
	switch kind {
	case RefURL:
		return Fetch(ctx, ref)
	case RefFile:
		return LoadFile(filePath(ref))
	case RefData:
		return DecodeDataURI(ref)
	case RefContent:
		path, ok := c.index.ResolvePath(ref)
		if !ok {
			return nil, fmt.Errorf("texture: %s: %w", ref, ErrNotFound)
		}
		return LoadFile(path)
	}
	return nil, ErrMalformed
}
