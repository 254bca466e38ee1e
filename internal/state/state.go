package state

import (
	"sync"
	"time"

	"survey-dashboard/internal/models"
)

// Entry is a loaded table and the time it was fetched
type Entry struct {
	Table     *models.Table
	FetchedAt time.Time
}

// Cache holds loaded tables keyed by source locator for a fixed TTL.
// Tables are immutable, so entries are shared between readers as-is.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]Entry
}

// NewCache creates a cache; a ttl <= 0 never serves a cached table
func NewCache(ttl time.Duration) *Cache {
	return NewCacheWithClock(ttl, time.Now)
}

// NewCacheWithClock creates a cache reading time from now
func NewCacheWithClock(ttl time.Duration, now func() time.Time) *Cache {
	return &Cache{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]Entry),
	}
}

// Get returns the table for key if it was fetched within the TTL
func (c *Cache) Get(key string) (*models.Table, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || c.ttl <= 0 || c.now().Sub(e.FetchedAt) >= c.ttl {
		return nil, false
	}
	return e.Table, true
}

// Put stores a freshly fetched table
func (c *Cache) Put(key string, table *models.Table) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = Entry{Table: table, FetchedAt: c.now()}
}

// Peek returns the last stored entry regardless of age
func (c *Cache) Peek(key string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	return e, ok
}

// Invalidate drops the entry for key
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

// TTL returns the configured lifetime
func (c *Cache) TTL() time.Duration {
	return c.ttl
}
