package buildstatus

import (
	"sync"
	"time"
)

type cacheEntry struct {
	builds  []Build
	fetched time.Time
}

// cache keeps the last fetched builds per buildType|branch key so repeated
// UI queries inside the TTL window skip the network.
type cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time
}

func newCache(ttl time.Duration) *cache {
	return &cache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

func cacheKey(buildType, branch string) string {
	return buildType + "|" + branch
}

func (c *cache) get(key string) ([]Build, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.fetched) > c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return entry.builds, true
}

func (c *cache) put(key string, builds []Build) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{builds: builds, fetched: c.now()}
}

func (c *cache) invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}
