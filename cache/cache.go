// Package cache provides the in-memory result cache used for scored
// recommendation lists.
package cache

import (
	"sync"
	"time"
)

// DefaultTTL is how long an entry lives when no TTL is given.
const DefaultTTL = 5 * time.Minute

// Observer receives cache events, typically to feed metrics.
type Observer interface {
	Hit()
	Miss()
	Evicted(n int)
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits      int64     `json:"hits"`
	Misses    int64     `json:"misses"`
	Evictions int64     `json:"evictions"`
	Keys      int       `json:"keys"`
	LastSweep time.Time `json:"last_sweep"`
}

// Cache is a TTL keyed store. Entries are never updated in place: Set
// replaces them and expiry or invalidation deletes them.
type Cache[V any] struct {
	mu       sync.RWMutex
	entries  map[string]entry[V]
	ttl      time.Duration
	now      func() time.Time
	observer Observer
	stats    Stats
}

// Option configures a Cache.
type Option func(*options)

type options struct {
	ttl      time.Duration
	now      func() time.Time
	observer Observer
}

// WithTTL sets the default TTL used by Set.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithObserver registers an event observer.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		o.observer = obs
	}
}

// New creates an empty cache. Expired entries are removed on read or by
// Sweep; the cache itself starts no goroutines.
func New[V any](opts ...Option) *Cache[V] {
	o := options{ttl: DefaultTTL, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Cache[V]{
		entries:  make(map[string]entry[V]),
		ttl:      o.ttl,
		now:      o.now,
		observer: o.observer,
	}
}

// TTL returns the default entry lifetime.
func (c *Cache[V]) TTL() time.Duration {
	return c.ttl
}

// Get returns the value stored under key. A missing or expired entry
// reports false; an expired one is deleted on the way out.
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		c.miss()
		return zero, false
	}

	if c.now().After(e.expiresAt) {
		c.mu.Lock()
		// another writer may have replaced it since the read lock was released
		if cur, still := c.entries[key]; still && cur.expiresAt.Equal(e.expiresAt) {
			delete(c.entries, key)
			c.stats.Evictions++
			c.mu.Unlock()
			c.evicted(1)
		} else {
			c.mu.Unlock()
		}
		c.miss()
		return zero, false
	}

	c.mu.Lock()
	c.stats.Hits++
	c.mu.Unlock()
	if c.observer != nil {
		c.observer.Hit()
	}
	return e.value, true
}

// Set stores value under key with the default TTL.
func (c *Cache[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores value under key, replacing any existing entry.
func (c *Cache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = entry[V]{value: value, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
}

// InvalidateAll drops every entry regardless of expiry and returns how
// many were removed.
func (c *Cache[V]) InvalidateAll() int {
	c.mu.Lock()
	n := len(c.entries)
	c.entries = make(map[string]entry[V])
	c.stats.Evictions += int64(n)
	c.mu.Unlock()

	c.evicted(n)
	return n
}

// Sweep deletes all expired entries and returns how many were removed.
func (c *Cache[V]) Sweep() int {
	now := c.now()

	c.mu.Lock()
	n := 0
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
			n++
		}
	}
	c.stats.Evictions += int64(n)
	c.stats.LastSweep = now
	c.mu.Unlock()

	c.evicted(n)
	return n
}

// Len reports the number of stored entries, expired or not.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns a copy of the current counters.
func (c *Cache[V]) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := c.stats
	s.Keys = len(c.entries)
	return s
}

func (c *Cache[V]) miss() {
	c.mu.Lock()
	c.stats.Misses++
	c.mu.Unlock()
	if c.observer != nil {
		c.observer.Miss()
	}
}

func (c *Cache[V]) evicted(n int) {
	if n > 0 && c.observer != nil {
		c.observer.Evicted(n)
	}
}
