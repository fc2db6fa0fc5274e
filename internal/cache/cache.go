// Package cache provides the in-process TTL store every derived-metric
// component sits behind. A cache is never "wrong", only "absent": Get reports
// a miss for anything expired and evicts it on the way out.
package cache

import (
	"sync"
	"time"
)

type entry[T any] struct {
	value    T
	storedAt time.Time
	ttl      time.Duration
}

// Cache is a thread-safe key→value store with per-entry TTL expiration.
// Expired entries are evicted lazily on Get; SweepExpired can run on any
// schedule for proactive cleanup.
type Cache[T any] struct {
	mu    sync.RWMutex
	items map[string]entry[T]
	now   func() time.Time
}

// New creates an empty cache using wall-clock time.
func New[T any]() *Cache[T] {
	return NewWithClock[T](time.Now)
}

// NewWithClock creates a cache with an injected clock so tests control time.
func NewWithClock[T any](now func() time.Time) *Cache[T] {
	return &Cache[T]{
		items: make(map[string]entry[T]),
		now:   now,
	}
}

// Get returns the value for key if present and within its TTL. An expired
// entry is evicted and reported as a miss, never served stale.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()

	var zero T
	if !ok {
		return zero, false
	}

	if c.now().Sub(e.storedAt) >= e.ttl {
		c.mu.Lock()
		// Re-check under the write lock: a concurrent Set may have refreshed it.
		if cur, ok := c.items[key]; ok && c.now().Sub(cur.storedAt) >= cur.ttl {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return zero, false
	}

	return e.value, true
}

// Set stores value under key with the given TTL, overwriting any prior entry.
func (c *Cache[T]) Set(key string, value T, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = entry[T]{
		value:    value,
		storedAt: c.now(),
		ttl:      ttl,
	}
}

// Delete removes key if present.
func (c *Cache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
}

// SweepExpired proactively evicts all expired entries and returns the number
// removed. Safe to call on any schedule since Get already self-evicts.
func (c *Cache[T]) SweepExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, e := range c.items {
		if now.Sub(e.storedAt) >= e.ttl {
			delete(c.items, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of entries currently stored, expired or not.
func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.items)
}
