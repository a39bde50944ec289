package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/launchpad-edu/launchpad/internal/config"
	"github.com/launchpad-edu/launchpad/internal/engine"
	"github.com/launchpad-edu/launchpad/internal/fitcache"
	"github.com/launchpad-edu/launchpad/internal/llm"
	"github.com/launchpad-edu/launchpad/internal/service"
	"github.com/launchpad-edu/launchpad/internal/storage"
)

// openStorage opens the SQLite database and runs pending migrations.
func openStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath()
	} else {
		dbPath = config.ExpandPath(dbPath)
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return store, nil
}

// newFitCache builds the fit cache: Redis when an address is configured,
// in-process memory otherwise.
func newFitCache(ctx context.Context) service.FitCache {
	addr := viper.GetString("redis.addr")
	if addr == "" {
		return fitcache.NewMemoryCache()
	}

	cache := fitcache.NewRedisCache(addr, viper.GetDuration("redis.fit_ttl"))
	if err := cache.Ping(ctx); err != nil {
		slog.Warn("redis unreachable, falling back to in-memory fit cache", "addr", addr, "error", err)
		return fitcache.NewMemoryCache()
	}
	return cache
}

// createRecommender builds the LLM recommender from configuration.
// Shared by every command that talks to a provider.
func createRecommender() (service.Recommender, error) {
	provider := viper.GetString("llm.provider")
	if provider == "" {
		provider = "anthropic"
	}

	cfg := llm.Config{
		Provider:    provider,
		Model:       viper.GetString("llm.model"),
		Temperature: viper.GetFloat64("llm.temperature"),
		MaxTokens:   viper.GetInt("llm.max_tokens"),
		MaxRetries:  viper.GetInt("llm.max_retries"),
		RetryDelay:  viper.GetDuration("llm.retry_delay"),
		CacheTTL:    viper.GetDuration("llm.cache_ttl"),
		RateLimit:   viper.GetInt("llm.rate_limit"),
	}

	switch provider {
	case "anthropic":
		apiKey := viper.GetString("llm.anthropic_api_key")
		if apiKey == "" {
			apiKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("anthropic API key not found in config or ANTHROPIC_API_KEY environment variable")
		}
		cfg.APIKey = apiKey
	case "openai":
		apiKey := viper.GetString("llm.openai_api_key")
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("OpenAI API key not found in config or OPENAI_API_KEY environment variable")
		}
		cfg.APIKey = apiKey
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}

	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = time.Hour
	}

	return llm.NewRecommender(cfg, slog.Default())
}

// newEngine wires storage, recommender, and cache. Commands that never call
// the LLM pass needsLLM=false so a missing API key doesn't block them.
func newEngine(ctx context.Context, needsLLM bool) (*engine.Engine, *storage.SQLiteStorage, error) {
	store, err := openStorage(ctx)
	if err != nil {
		return nil, nil, err
	}

	var recommender service.Recommender
	if needsLLM {
		recommender, err = createRecommender()
		if err != nil {
			_ = store.Close()
			return nil, nil, err
		}
	}

	cfg := engine.DefaultConfig()
	if limit := viper.GetInt("list.limit"); limit > 0 {
		cfg.ListLimit = limit
	}
	if per := viper.GetInt("list.balanced_per_category"); per > 0 {
		cfg.BalancedPerCategory = per
	}

	return engine.NewWithConfig(store, recommender, newFitCache(ctx), cfg), store, nil
}

// requireProfileID resolves the student profile flag or config value.
func requireProfileID() (string, error) {
	id := viper.GetString("profile.id")
	if id == "" {
		return "", fmt.Errorf("no profile selected: pass --profile or set profile.id in config")
	}
	return id, nil
}
