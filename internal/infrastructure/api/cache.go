package api

import (
	"context"
	"sync"
	"time"
)

const (
	// DefaultCacheTTL matches the backend's dashboard refresh cadence.
	DefaultCacheTTL = 5 * time.Minute
	// DefaultCacheSize bounds memory for cached idempotent reads.
	DefaultCacheSize = 100
)

type cacheEntry struct {
	payload    any
	insertedAt time.Time
}

// Cache is a size-bounded TTL cache for idempotent reads. An entry older
// than the TTL is treated as absent. When capacity is exceeded the
// oldest-inserted entry is evicted first; access order does not matter.
type Cache struct {
	mu       sync.Mutex
	ttl      time.Duration
	capacity int
	entries  map[string]cacheEntry
	order    []string // insertion order, oldest first

	now func() time.Time // injectable for tests
}

// NewCache builds a cache with the given capacity and TTL; non-positive
// values fall back to the defaults.
func NewCache(capacity int, ttl time.Duration) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{
		ttl:      ttl,
		capacity: capacity,
		entries:  make(map[string]cacheEntry),
		now:      time.Now,
	}
}

// Get returns the cached payload if present and not expired. Expired entries
// are dropped on access.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.insertedAt) > c.ttl {
		c.remove(key)
		return nil, false
	}
	return entry.payload, true
}

// Set stores payload under key with the current timestamp. Re-setting an
// existing key counts as a fresh insertion for eviction ordering.
func (c *Cache) Set(key string, payload any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		c.remove(key)
	}
	if len(c.entries) >= c.capacity {
		c.remove(c.order[0])
	}
	c.entries[key] = cacheEntry{payload: payload, insertedAt: c.now()}
	c.order = append(c.order, key)
}

// Delete drops one key.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remove(key)
}

// Clear drops everything.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
	c.order = c.order[:0]
}

// Len reports the number of live entries (expired ones included until
// touched).
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// remove must be called with the lock held.
func (c *Cache) remove(key string) {
	if _, ok := c.entries[key]; !ok {
		return
	}
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Cached returns the cached payload for key when useCache is true and the
// entry is fresh; otherwise it invokes producer, stores the result under key
// and returns it. Producer failures are returned as-is and never cached.
func Cached[T any](ctx context.Context, c *Cache, key string, useCache bool, producer func(context.Context) (T, error)) (T, error) {
	if useCache {
		if payload, ok := c.Get(key); ok {
			if typed, ok := payload.(T); ok {
				CacheTotal.WithLabelValues("hit").Inc()
				return typed, nil
			}
			// type changed under the same key; treat as a miss
			c.Delete(key)
		}
		CacheTotal.WithLabelValues("miss").Inc()
	}

	result, err := producer(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	if useCache {
		c.Set(key, result)
	}
	return result, nil
}
