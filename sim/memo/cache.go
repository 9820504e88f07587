// Package memo provides the memoization cache shared by the posterior model and
// the power analyzer. Entries are never evicted; growth is bounded by an admission
// policy decided per key and an optional hard capacity.
package memo

import "sync"

// AdmitFunc decides whether a computed value for key may be stored.
type AdmitFunc[K comparable] func(key K) bool

// AdmitAll stores every key.
func AdmitAll[K comparable](K) bool { return true }

// Cache is a mutex-guarded memo table. The zero value is not usable; call New.
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	entries  map[K]V
	admit    AdmitFunc[K]
	capacity int // 0 = unlimited

	hits, misses, skipped int
}

// New creates a Cache. A nil admit stores every key. capacity <= 0 means unlimited.
func New[K comparable, V any](admit AdmitFunc[K], capacity int) *Cache[K, V] {
	if admit == nil {
		admit = AdmitAll[K]
	}
	return &Cache[K, V]{
		entries:  make(map[K]V),
		admit:    admit,
		capacity: capacity,
	}
}

// Get returns the cached value for key, if any.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return v, ok
}

// Put stores value for key when the admission policy accepts it and the cache has
// room. Returns whether the value was stored.
func (c *Cache[K, V]) Put(key K, value V) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; ok {
		c.entries[key] = value
		return true
	}
	if !c.admit(key) || (c.capacity > 0 && len(c.entries) >= c.capacity) {
		c.skipped++
		return false
	}
	c.entries[key] = value
	return true
}

// GetOrCompute returns the cached value for key or computes, stores and returns it.
// compute runs without the lock held; concurrent misses on the same key may both
// compute, and the results must be identical. Errors are never cached.
func (c *Cache[K, V]) GetOrCompute(key K, compute func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := compute()
	if err != nil {
		return v, err
	}
	c.Put(key, v)
	return v, nil
}

// Len returns the number of stored entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats reports lookups that hit, lookups that missed, and values refused by
// the admission policy or capacity.
type Stats struct {
	Hits, Misses, Skipped, Entries int
}

// Stats returns a snapshot of the cache counters.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Hits: c.hits, Misses: c.misses, Skipped: c.skipped, Entries: len(c.entries)}
}
