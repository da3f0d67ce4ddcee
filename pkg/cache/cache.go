// Package cache provides a bounded in-memory key/value store with
// per-entry TTL, used to deduplicate repeated vendor reads.
package cache

import (
	"sync"
	"time"
)

type entry struct {
	value      []byte
	insertedAt time.Time
	ttl        time.Duration
}

func (e entry) expired(now time.Time) bool {
	return now.Sub(e.insertedAt) > e.ttl
}

// Cache is safe for concurrent use. Entries expire a fixed TTL after
// insertion; when the store exceeds capacity the least-recently-inserted
// entry is evicted first. Entries are never mutated in place — a refresh
// overwrites the whole entry.
type Cache struct {
	mu       sync.RWMutex
	entries  map[string]entry
	order    []string // insertion order, oldest first
	capacity int

	hits   int64
	misses int64
}

// New creates a cache bounded to capacity entries. A capacity of zero
// or less disables the bound.
func New(capacity int) *Cache {
	return &Cache{
		entries:  make(map[string]entry),
		capacity: capacity,
	}
}

// Get returns the stored value and true, or nil and false when the key
// is absent or its TTL has elapsed.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		c.miss()
		return nil, false
	}
	if e.expired(time.Now()) {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have
		// refreshed the entry.
		if cur, ok := c.entries[key]; ok && cur.expired(time.Now()) {
			c.remove(key)
		}
		c.mu.Unlock()
		c.miss()
		return nil, false
	}
	c.hit()
	return e.value, true
}

// Set stores value under key with the given TTL, overwriting any
// previous entry wholesale.
func (c *Cache) Set(key string, value []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		c.remove(key)
	}

	for c.capacity > 0 && len(c.order) >= c.capacity {
		c.remove(c.order[0])
	}

	c.entries[key] = entry{value: value, insertedAt: time.Now(), ttl: ttl}
	c.order = append(c.order, key)
}

// Delete removes key if present.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remove(key)
}

// Len returns the number of stored entries, including any not yet
// swept expired ones.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Flush discards every entry.
func (c *Cache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
	c.order = c.order[:0]
}

// Stats reports hit and miss counts since construction.
func (c *Cache) Stats() (hits, misses int64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

// remove must be called with the write lock held.
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

func (c *Cache) hit() {
	c.mu.Lock()
	c.hits++
	c.mu.Unlock()
}

func (c *Cache) miss() {
	c.mu.Lock()
	c.misses++
	c.mu.Unlock()
}
