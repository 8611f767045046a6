package cache

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/m-mizutani/goerr/v2"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time // zero means no expiry
}

// Cache is a bounded LRU with optional per-cache TTL. Expired entries are
// dropped lazily on Get and in bulk by Sweep. A TTL of zero disables
// expiry and the cache is bounded by capacity alone.
type Cache[K comparable, V any] struct {
	lru *lru.Cache[K, entry[V]]
	ttl time.Duration
	now func() time.Time
}

// Option configures a Cache.
type Option[K comparable, V any] func(*Cache[K, V])

// WithClock replaces the time source. Tests use this to step through TTL
// boundaries without sleeping.
func WithClock[K comparable, V any](now func() time.Time) Option[K, V] {
	return func(c *Cache[K, V]) {
		c.now = now
	}
}

// New creates a cache holding at most capacity entries.
func New[K comparable, V any](capacity int, ttl time.Duration, opts ...Option[K, V]) (*Cache[K, V], error) {
	inner, err := lru.New[K, entry[V]](capacity)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create LRU cache", goerr.V("capacity", capacity))
	}

	c := &Cache[K, V]{
		lru: inner,
		ttl: ttl,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get returns the cached value. An entry past its TTL is removed and
// reported as a miss.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	var zero V
	e, ok := c.lru.Get(key)
	if !ok {
		return zero, false
	}
	if !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt) {
		c.lru.Remove(key)
		return zero, false
	}
	return e.value, true
}

// Set stores the value, evicting the least recently used entry when full.
// Storing an existing key replaces the value and restarts its TTL.
func (c *Cache[K, V]) Set(key K, value V) {
	e := entry[V]{value: value}
	if c.ttl > 0 {
		e.expiresAt = c.now().Add(c.ttl)
	}
	c.lru.Add(key, e)
}

// Sweep removes all expired entries and returns how many were dropped.
// Safe to call concurrently with Get and Set.
func (c *Cache[K, V]) Sweep() int {
	if c.ttl <= 0 {
		return 0
	}

	now := c.now()
	var dropped int
	for _, key := range c.lru.Keys() {
		e, ok := c.lru.Peek(key)
		if !ok {
			continue
		}
		if !e.expiresAt.IsZero() && !now.Before(e.expiresAt) {
			c.lru.Remove(key)
			dropped++
		}
	}
	return dropped
}

// Len returns the number of entries currently held, expired or not.
func (c *Cache[K, V]) Len() int {
	return c.lru.Len()
}

// Purge empties the cache.
func (c *Cache[K, V]) Purge() {
	c.lru.Purge()
}
