package feed

import (
	"sync"

	"github.com/timmy/memeboard/internal/domain"
)

// QueryCache holds fetched pages per query session so a revisited view
// repaints without refetching. It is an explicitly constructed dependency,
// one per application instance (and one per test), never ambient global
// state.
type QueryCache struct {
	mu      sync.Mutex
	entries map[string][]domain.PageResult
}

// NewQueryCache creates an empty cache.
func NewQueryCache() *QueryCache {
	return &QueryCache{
		entries: make(map[string][]domain.PageResult),
	}
}

// Get returns the cached pages for a key, or nil.
func (c *QueryCache) Get(key domain.QueryKey) []domain.PageResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[key.String()]
}

// Put stores the pages for a key, replacing any previous entry.
func (c *QueryCache) Put(key domain.QueryKey, pages []domain.PageResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key.String()] = pages
}

// Invalidate removes one key's pages.
func (c *QueryCache) Invalidate(key domain.QueryKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key.String())
}

// InvalidateScope removes every session belonging to a feed scope.
// Used when a generation job completes so the new meme appears on the
// next fetch.
func (c *QueryCache) InvalidateScope(scope domain.FeedScope) {
	prefix := string(scope) + "\x00"
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			delete(c.entries, k)
		}
	}
}

// Clear drops everything.
func (c *QueryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string][]domain.PageResult)
}
