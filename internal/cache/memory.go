package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store for tests. The services always run on
// Redis, since an unreachable cache at startup is fatal.
type MemoryStore struct {
	mu  sync.RWMutex
	now func() time.Time
	m   map[string]entry
}

type entry struct {
	val []byte
	exp time.Time
}

// NewMemoryStore uses now as its clock; nil means time.Now.
func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}

	return &MemoryStore{
		now: now,
		m:   make(map[string]entry),
	}
}

func (c *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	now := c.now()
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return nil, ErrMiss
	}

	if !now.Before(e.exp) {
		c.mu.Lock()
		// re-check: a concurrent Set may have refreshed the entry
		if cur, ok := c.m[key]; ok && !now.Before(cur.exp) {
			delete(c.m, key)
		}
		c.mu.Unlock()
		return nil, ErrMiss
	}

	out := make([]byte, len(e.val))
	copy(out, e.val)
	return out, nil
}

func (c *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	buf := make([]byte, len(value))
	copy(buf, value)

	c.mu.Lock()
	c.m[key] = entry{val: buf, exp: c.now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

func (c *MemoryStore) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.m, key)
	c.mu.Unlock()
	return nil
}

func (c *MemoryStore) Ping(context.Context) error {
	return nil
}
