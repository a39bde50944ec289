package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/launchpad-edu/launchpad/internal/common"
	"github.com/launchpad-edu/launchpad/internal/model"
	"github.com/launchpad-edu/launchpad/internal/service"
)

// Recommender implements service.Recommender over a raw LLM client, adding
// rate limiting, retry, response parsing, and prompt-keyed caching.
type Recommender struct {
	client      Client
	cache       *recommendationCache
	logger      *slog.Logger
	rateLimiter *rateLimiter
	retryOpts   service.RetryOptions
}

// NewRecommender creates an LLM-backed recommender from provider config.
func NewRecommender(cfg Config, logger *slog.Logger) (*Recommender, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return NewRecommenderWithClient(client, cfg, logger), nil
}

// NewRecommenderWithClient wires a recommender around an existing client.
// Used directly by tests and anywhere a custom client is injected.
func NewRecommenderWithClient(client Client, cfg Config, logger *slog.Logger) *Recommender {
	retryOpts := service.RetryOptions{
		MaxAttempts:  cfg.MaxRetries,
		InitialDelay: cfg.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
	if retryOpts.MaxAttempts == 0 {
		retryOpts.MaxAttempts = 3
	}
	if retryOpts.InitialDelay == 0 {
		retryOpts.InitialDelay = time.Second
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Recommender{
		client:      client,
		cache:       newRecommendationCache(cfg.CacheTTL),
		logger:      logger,
		retryOpts:   retryOpts,
		rateLimiter: newRateLimiter(cfg.RateLimit),
	}
}

// Recommend runs one recommendation exchange: build the prompt, call the
// provider with retry, parse the reply. The raw response text is returned
// alongside the records so callers can persist the session turn.
//
// A reply that parses to zero records is reported as common.ErrUnparseable;
// transport failures surface as-is after retries are exhausted.
func (r *Recommender) Recommend(ctx context.Context, req service.RecommendRequest) ([]model.Recommendation, string, error) {
	prompt := BuildRecommendationPrompt(req.UserEmail, req.Current, req.Count)

	if recs, raw, found := r.cache.get(prompt); found {
		r.logger.Debug("recommendation cache hit", "user", req.UserEmail, "count", len(recs))
		return recs, raw, nil
	}

	if err := r.rateLimiter.wait(ctx); err != nil {
		return nil, "", err
	}

	var response CompletionResponse
	err := common.WithRetry(ctx, func() error {
		var callErr error
		response, callErr = r.client.Complete(ctx, CompletionRequest{
			SystemPrompt: systemPrompt,
			Prompt:       prompt,
		})
		return callErr
	}, r.retryOpts)
	if err != nil {
		return nil, "", fmt.Errorf("recommendation request failed: %w", err)
	}

	recs := ParseRecommendations(response.Text)
	if len(recs) == 0 {
		r.logger.Warn("unparseable recommendation response",
			"user", req.UserEmail,
			"response_len", len(response.Text))
		return nil, response.Text, common.ErrUnparseable
	}

	now := time.Now().UTC()
	for i := range recs {
		recs[i].ID = uuid.NewString()
		recs[i].CreatedAt = now
	}

	r.cache.set(prompt, recs, response.Text)

	r.logger.Info("recommendations parsed",
		"user", req.UserEmail,
		"requested", req.Count,
		"parsed", len(recs),
		"model", response.Model)

	return recs, response.Text, nil
}

// Close releases the recommender's background goroutines.
func (r *Recommender) Close() {
	r.cache.stop()
	r.rateLimiter.stop()
}
