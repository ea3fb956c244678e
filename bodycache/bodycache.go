// Package bodycache caches fetched and parsed post bodies by URL for
// the lifetime of one batch run. PubPlat publishers routinely cross-post
// or cite the same article, so the same URL can surface under more than
// one publisher's enumeration window; caching its parsed body avoids
// fetching and parsing it twice in the same run.
package bodycache

import (
	"sync"
	"time"
)

type entry struct {
	body      string
	createdAt time.Time
}

// Cache is a small in-memory, TTL-bounded body cache. Safe for
// concurrent use: pipelines for different publishers share one Cache
// and fetch bodies concurrently.
type Cache struct {
	mu         sync.RWMutex
	store      map[string]entry
	maxEntries int
	ttl        time.Duration
}

// New creates a Cache holding at most maxEntries bodies, each valid
// for ttl before it is treated as a miss.
func New(maxEntries int, ttl time.Duration) *Cache {
	return &Cache{
		store:      make(map[string]entry),
		maxEntries: maxEntries,
		ttl:        ttl,
	}
}

// Get returns the cached body for url, if present and not expired.
func (c *Cache) Get(url string) (string, bool) {
	c.mu.RLock()
	e, ok := c.store[url]
	c.mu.RUnlock()

	if !ok || time.Since(e.createdAt) > c.ttl {
		return "", false
	}
	return e.body, true
}

// Set stores body under url. If the cache is at capacity, one
// arbitrary entry is evicted first (Go map iteration order is
// unspecified, which is enough to avoid always evicting the same
// bucket).
func (c *Cache) Set(url, body string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.store[url]; !exists && len(c.store) >= c.maxEntries {
		for k := range c.store {
			delete(c.store, k)
			break
		}
	}
	c.store[url] = entry{body: body, createdAt: time.Now()}
}
