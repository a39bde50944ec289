package fitcache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launchpad-edu/launchpad/internal/model"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "fit:p1:duke", Key("p1", "duke"))
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	_, ok := cache.Get(ctx, "p1", "duke")
	assert.False(t, ok)

	analysis := &model.FitAnalysis{
		UniversityID:    "duke",
		FitCategory:     model.FitReach,
		MatchPercentage: 62,
	}
	require.NoError(t, cache.Set(ctx, "p1", analysis))

	got, ok := cache.Get(ctx, "p1", "duke")
	require.True(t, ok)
	assert.Equal(t, model.FitReach, got.FitCategory)

	// Different profile is a separate entry.
	_, ok = cache.Get(ctx, "p2", "duke")
	assert.False(t, ok)
	assert.Equal(t, 1, cache.Len())
}
