package catalog

import (
	"sync"
	"time"

	"cinemind/models"
)

// DefaultCacheTTL is the fixed validity window for a cached candidate list.
const DefaultCacheTTL = 10 * time.Minute

type cacheKey struct {
	mediaType string
	query     string
}

type cacheEntry struct {
	items     []models.Candidate
	createdAt time.Time
}

// Cache stores suggestion candidate lists per tenant, keyed by (media type,
// normalized query). Entries expire after a fixed TTL and are evicted lazily
// on the read that finds them stale; there is no capacity bound or LRU, only
// the TTL. State is volatile and process-scoped.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	tenants map[string]map[cacheKey]cacheEntry
}

func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{
		ttl:     ttl,
		now:     time.Now,
		tenants: make(map[string]map[cacheKey]cacheEntry),
	}
}

// Get returns the cached candidate list for (tenantID, mediaType, query), or
// false when no entry exists or the entry has outlived the TTL. A stale entry
// is removed as a side effect so it is never served again.
func (c *Cache) Get(tenantID, mediaType, query string) ([]models.Candidate, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	partition, ok := c.tenants[tenantID]
	if !ok {
		return nil, false
	}
	key := cacheKey{mediaType: mediaType, query: query}
	entry, ok := partition[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.createdAt) >= c.ttl {
		delete(partition, key)
		if len(partition) == 0 {
			delete(c.tenants, tenantID)
		}
		return nil, false
	}
	return entry.items, true
}

// Put inserts or overwrites the candidate list for the key with a fresh
// timestamp. Concurrent writers for the same key are allowed; the later write
// wins, which is fine because both hold equivalent successful resolutions.
func (c *Cache) Put(tenantID, mediaType, query string, items []models.Candidate) {
	c.mu.Lock()
	defer c.mu.Unlock()

	partition, ok := c.tenants[tenantID]
	if !ok {
		partition = make(map[cacheKey]cacheEntry)
		c.tenants[tenantID] = partition
	}
	partition[cacheKey{mediaType: mediaType, query: query}] = cacheEntry{
		items:     items,
		createdAt: c.now(),
	}
}
