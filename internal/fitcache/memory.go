package fitcache

import (
	"context"
	"sync"

	"github.com/launchpad-edu/launchpad/internal/model"
)

// MemoryCache is an in-process service.FitCache used when no Redis address
// is configured, and as a test double.
type MemoryCache struct {
	entries map[string]*model.FitAnalysis
	mu      sync.RWMutex
}

// NewMemoryCache creates an empty in-process cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]*model.FitAnalysis)}
}

// Get returns a cached analysis.
func (c *MemoryCache) Get(_ context.Context, profileID, universityID string) (*model.FitAnalysis, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	analysis, ok := c.entries[Key(profileID, universityID)]
	return analysis, ok
}

// Set stores an analysis.
func (c *MemoryCache) Set(_ context.Context, profileID string, analysis *model.FitAnalysis) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[Key(profileID, analysis.UniversityID)] = analysis
	return nil
}

// Len reports the number of cached entries.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
