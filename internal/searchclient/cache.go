// Package searchclient implements the client side of unified search: a
// bounded result cache, a debounced search box state machine and an HTTP
// fetcher for the search endpoint.
package searchclient

import (
	"strings"
	"time"

	"studyhub_backend/internal/search/transport"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ResultSet is the grouped search response.
type ResultSet = transport.SearchResponse

// Item is one flattened search result.
type Item = transport.SearchResultItem

const (
	DefaultCacheCapacity = 50
	DefaultCacheTTL      = 5 * time.Minute
)

type cacheEntry struct {
	data     ResultSet
	storedAt time.Time
}

// Cache keeps recent result sets keyed by normalized query. Eviction is
// first-in-first-out plus a TTL sweep: a lookup never refreshes an entry's
// position. A Cache is not safe for concurrent use; its owner serializes access.
type Cache struct {
	entries  *orderedmap.OrderedMap[string, cacheEntry]
	capacity int
	ttl      time.Duration
	now      func() time.Time
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) { c.now = now }
}

// WithCapacity overrides DefaultCacheCapacity.
func WithCapacity(n int) CacheOption {
	return func(c *Cache) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// WithTTL overrides DefaultCacheTTL.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

func NewCache(opts ...CacheOption) *Cache {
	c := &Cache{
		entries:  orderedmap.New[string, cacheEntry](),
		capacity: DefaultCacheCapacity,
		ttl:      DefaultCacheTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NormalizeQuery is the cache key for query.
func NormalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// Lookup returns the cached result for query if it is younger than the TTL.
// Stale entries are left in place for the next Store sweep.
func (c *Cache) Lookup(query string) (ResultSet, bool) {
	entry, ok := c.entries.Get(NormalizeQuery(query))
	if !ok || c.now().Sub(entry.storedAt) >= c.ttl {
		return ResultSet{}, false
	}
	return entry.data, true
}

// Store sweeps expired entries, evicts the oldest insertion when full, then
// records data for query. A full cache evicts even when query is already
// stored; an overwritten key that survives keeps its original position.
func (c *Cache) Store(query string, data ResultSet) {
	key := NormalizeQuery(query)
	now := c.now()

	var expired []string
	for pair := c.entries.Oldest(); pair != nil; pair = pair.Next() {
		if now.Sub(pair.Value.storedAt) > c.ttl {
			expired = append(expired, pair.Key)
		}
	}
	for _, k := range expired {
		c.entries.Delete(k)
	}

	if c.entries.Len() >= c.capacity {
		if oldest := c.entries.Oldest(); oldest != nil {
			c.entries.Delete(oldest.Key)
		}
	}

	c.entries.Set(key, cacheEntry{data: data, storedAt: now})
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.entries = orderedmap.New[string, cacheEntry]()
}

// Len reports the number of stored entries, stale ones included.
func (c *Cache) Len() int {
	return c.entries.Len()
}

// Keys lists stored keys oldest first.
func (c *Cache) Keys() []string {
	keys := make([]string, 0, c.entries.Len())
	for pair := c.entries.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}
