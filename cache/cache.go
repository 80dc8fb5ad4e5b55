package cache

import (
	"sync"
	"time"

	"nexus-server/repositories"
)

type tovEntry struct {
	value    repositories.LatestTOV
	cachedAt time.Time
}

// TOVCache keeps the newest TOV reading per oracle index so the query
// path does not hit the store for every poll. A resync invalidates the
// index it rewrote.
type TOVCache struct {
	mu      sync.RWMutex
	entries map[string]tovEntry
	ttl     time.Duration
}

// NewTOVCache builds a cache with the given entry lifetime; ttl <= 0
// means entries only leave via Invalidate.
func NewTOVCache(ttl time.Duration) *TOVCache {
	return &TOVCache{
		entries: make(map[string]tovEntry),
		ttl:     ttl,
	}
}

func (c *TOVCache) Get(oracleIndex string) (repositories.LatestTOV, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[oracleIndex]
	if !ok {
		return repositories.LatestTOV{}, false
	}
	if c.ttl > 0 && time.Since(entry.cachedAt) > c.ttl {
		return repositories.LatestTOV{}, false
	}
	return entry.value, true
}

func (c *TOVCache) Set(oracleIndex string, value repositories.LatestTOV) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[oracleIndex] = tovEntry{value: value, cachedAt: time.Now()}
}

// Invalidate drops the cached reading after a resync rewrites the index.
func (c *TOVCache) Invalidate(oracleIndex string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, oracleIndex)
}

// Stats reports cache occupancy for the health endpoint.
func (c *TOVCache) Stats() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return map[string]interface{}{
		"cached_indexes": len(c.entries),
		"ttl_seconds":    c.ttl.Seconds(),
	}
}
