// Package cache provides the process-scoped TTL cache shared by the fetch
// layer and the dashboard assembler.
package cache

import (
	"strings"
	"sync"
	"time"

	"github.com/benitoschiffler/nba-props-lab/pkg/metrics"
)

// entry is a stored value and the time it was written.
type entry struct {
	value    any
	storedAt time.Time
}

// Cache is a key/value store whose freshness is decided at read time.
// There is no eviction and no size bound; expired entries are shadowed
// until overwritten or cleared.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// New creates an empty cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the value for key if it was stored less than ttl ago.
func (c *Cache) Get(key string, ttl time.Duration) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	fresh := ok && c.now().Sub(e.storedAt) < ttl
	metrics.RecordCacheLookup(Class(key), fresh)
	if !fresh {
		return nil, false
	}
	return e.value, true
}

// Set stores value under key, resetting its age.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	c.entries[key] = entry{value: value, storedAt: c.now()}
	n := len(c.entries)
	c.mu.Unlock()
	metrics.UpdateCacheEntries(n)
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
	metrics.UpdateCacheEntries(0)
}

// Len returns the number of stored entries, stale ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Lookup is a typed Get. A value of another type counts as a miss.
func Lookup[T any](c *Cache, key string, ttl time.Duration) (T, bool) {
	var zero T
	v, ok := c.Get(key, ttl)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		return zero, false
	}
	return t, true
}

// Class returns the data class of a key: the part before the first ':'.
func Class(key string) string {
	if i := strings.IndexByte(key, ':'); i >= 0 {
		return key[:i]
	}
	return key
}
