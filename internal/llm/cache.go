package llm

import (
	"sync"
	"time"

	"github.com/launchpad-edu/launchpad/internal/model"
)

// cacheEntry represents a cached recommendation batch. The raw provider
// reply rides along so a cache hit can still record a session turn.
type cacheEntry struct {
	expiry time.Time
	raw    string
	recs   []model.Recommendation
}

// recommendationCache provides thread-safe caching for recommendation
// batches, keyed by prompt.
type recommendationCache struct {
	entries map[string]cacheEntry
	stopCh  chan struct{}
	ttl     time.Duration
	mu      sync.RWMutex
}

// newRecommendationCache creates a new cache with the specified TTL.
func newRecommendationCache(ttl time.Duration) *recommendationCache {
	if ttl == 0 {
		ttl = 15 * time.Minute
	}

	cache := &recommendationCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		stopCh:  make(chan struct{}),
	}

	go cache.cleanup()

	return cache
}

// get retrieves a batch from the cache if it exists and hasn't expired.
// The returned slice is a copy: callers filter and annotate batches in
// place, and a shared backing array would let one request corrupt the
// cached entry for the next.
func (c *recommendationCache) get(key string) ([]model.Recommendation, string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[key]
	if !exists {
		return nil, "", false
	}

	if time.Now().After(entry.expiry) {
		return nil, "", false
	}

	return cloneRecommendations(entry.recs), entry.raw, true
}

// set stores a batch in the cache, copying it so later caller mutations
// can't reach the stored entry.
func (c *recommendationCache) set(key string, recs []model.Recommendation, raw string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		recs:   cloneRecommendations(recs),
		raw:    raw,
		expiry: time.Now().Add(c.ttl),
	}
}

func cloneRecommendations(recs []model.Recommendation) []model.Recommendation {
	out := make([]model.Recommendation, len(recs))
	copy(out, recs)
	return out
}

// cleanup periodically removes expired entries.
func (c *recommendationCache) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for key, entry := range c.entries {
				if now.After(entry.expiry) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		}
	}
}

// stop terminates the cleanup goroutine.
func (c *recommendationCache) stop() {
	close(c.stopCh)
}
