// Package fitcache caches computed fit analyses in Redis so repeated list
// loads don't re-read every analysis from the database.
package fitcache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/launchpad-edu/launchpad/internal/model"
)

// DefaultTTL bounds how stale a cached analysis may get.
const DefaultTTL = 6 * time.Hour

// RedisCache implements service.FitCache over a Redis instance.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to Redis at addr. TTL of zero uses DefaultTTL.
func NewRedisCache(addr string, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
	}
}

// Ping verifies the connection.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Get returns a cached analysis, reporting a miss on any error. Cache
// failures are never fatal; the caller falls back to storage.
func (c *RedisCache) Get(ctx context.Context, profileID, universityID string) (*model.FitAnalysis, bool) {
	payload, err := c.client.Get(ctx, Key(profileID, universityID)).Result()
	if err != nil {
		if err != redis.Nil {
			slog.Debug("fit cache read failed", "error", err)
		}
		return nil, false
	}

	var analysis model.FitAnalysis
	if err := json.Unmarshal([]byte(payload), &analysis); err != nil {
		slog.Warn("discarding corrupt fit cache entry", "key", Key(profileID, universityID), "error", err)
		return nil, false
	}
	return &analysis, true
}

// Set stores an analysis with the configured TTL.
func (c *RedisCache) Set(ctx context.Context, profileID string, analysis *model.FitAnalysis) error {
	payload, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("failed to marshal fit analysis: %w", err)
	}
	return c.client.Set(ctx, Key(profileID, analysis.UniversityID), payload, c.ttl).Err()
}

// Close releases the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Key builds the cache key for one profile/university pair.
func Key(profileID, universityID string) string {
	return fmt.Sprintf("fit:%s:%s", profileID, universityID)
}
