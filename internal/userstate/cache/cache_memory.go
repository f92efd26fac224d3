package cache

import (
	"context"
	"sync"

	"ethos/pkg/platform/sentinel"
)

// InMemoryCache implements Cache for unit tests and cache-less development
// runs.
type InMemoryCache struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemory creates an empty in-memory cache.
func NewMemory() *InMemoryCache {
	return &InMemoryCache{entries: make(map[string][]byte)}
}

func (c *InMemoryCache) Get(ctx context.Context, email string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, ok := c.entries[Key(email)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (c *InMemoryCache) Set(ctx context.Context, email string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	c.entries[Key(email)] = stored
	return nil
}

func (c *InMemoryCache) Delete(ctx context.Context, email string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, Key(email))
	return nil
}
