package news

import (
	"sync"
	"time"
)

type cacheEntry struct {
	batch     Batch
	query     Query
	fetchedAt time.Time
}

// ResultCache holds merged batches keyed by the query signature. An
// in-flight fetch for superseded parameters lands under its own key and
// is never confused with the current request.
type ResultCache struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

func NewResultCache(ttl time.Duration) *ResultCache {
	return &ResultCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

func (c *ResultCache) Get(q Query) (Batch, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[q.Signature()]
	if !ok {
		return Batch{}, false
	}
	if time.Since(entry.fetchedAt) > c.ttl {
		return Batch{}, false
	}
	return entry.batch, true
}

func (c *ResultCache) Set(q Query, batch Batch) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[q.Signature()] = cacheEntry{
		batch:     batch,
		query:     q,
		fetchedAt: time.Now(),
	}
}

// StaleQueries returns the queries whose entries are older than the
// given age, for background refresh.
func (c *ResultCache) StaleQueries(olderThan time.Duration) []Query {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var stale []Query
	for _, entry := range c.entries {
		if time.Since(entry.fetchedAt) > olderThan {
			stale = append(stale, entry.query)
		}
	}
	return stale
}

// Purge drops entries that expired more than the TTL ago.
func (c *ResultCache) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for sig, entry := range c.entries {
		if time.Since(entry.fetchedAt) > 2*c.ttl {
			delete(c.entries, sig)
			removed++
		}
	}
	return removed
}

func (c *ResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
