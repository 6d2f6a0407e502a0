// Package cache holds short-lived values keyed by string.
package cache

import (
	"sync"
	"time"
)

type entry[T any] struct {
	value   T
	expires time.Time
}

// Cache is a thread-safe TTL cache. A zero or negative TTL disables it:
// Put stores nothing and Get always misses.
type Cache[T any] struct {
	mu   sync.RWMutex
	data map[string]entry[T]
	ttl  time.Duration
	now  func() time.Time
}

func New[T any](ttl time.Duration) *Cache[T] {
	return &Cache[T]{
		data: make(map[string]entry[T]),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Get returns the value for key if present and not expired.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	e, ok := c.data[key]
	c.mu.RUnlock()
	if ok && c.now().Before(e.expires) {
		return e.value, true
	}
	if ok {
		c.Delete(key)
	}
	var zero T
	return zero, false
}

// Put stores value under key for the cache TTL.
func (c *Cache[T]) Put(key string, value T) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = entry[T]{value: value, expires: c.now().Add(c.ttl)}
}

func (c *Cache[T]) Delete(key string) {
	c.mu.Lock()
	delete(c.data, key)
	c.mu.Unlock()
}

// Purge drops every entry.
func (c *Cache[T]) Purge() {
	c.mu.Lock()
	c.data = make(map[string]entry[T])
	c.mu.Unlock()
}

func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// StartCleaner removes expired entries every interval until stop is closed.
func (c *Cache[T]) StartCleaner(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-stop:
			return
		}
	}
}

func (c *Cache[T]) removeExpired() {
	now := c.now()
	c.mu.Lock()
	for k, e := range c.data {
		if !now.Before(e.expires) {
			delete(c.data, k)
		}
	}
	c.mu.Unlock()
}
