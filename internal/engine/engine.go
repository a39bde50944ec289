// Package engine orchestrates the guidance workflows: list loading with fit
// merging, recommendation sessions, fit computation, and balanced-list
// selection.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/launchpad-edu/launchpad/internal/common"
	"github.com/launchpad-edu/launchpad/internal/fit"
	"github.com/launchpad-edu/launchpad/internal/model"
	"github.com/launchpad-edu/launchpad/internal/service"
)

// Engine coordinates storage, the LLM recommender, and the fit scorer.
type Engine struct {
	storage     service.Storage
	recommender service.Recommender
	fitCache    service.FitCache
	listLimit   int
	balancedPer int
}

// Config holds configuration options for the engine.
type Config struct {
	// ListLimit caps how many schools a list may hold. Zero means
	// unlimited.
	ListLimit int
	// BalancedPerCategory is how many schools per category a balanced
	// list targets.
	BalancedPerCategory int
}

// DefaultConfig returns the default configuration: the free-tier list cap
// and three schools per category.
func DefaultConfig() Config {
	return Config{
		ListLimit:           20,
		BalancedPerCategory: 3,
	}
}

// New creates an engine with the default configuration.
func New(storage service.Storage, recommender service.Recommender, fitCache service.FitCache) *Engine {
	return NewWithConfig(storage, recommender, fitCache, DefaultConfig())
}

// NewWithConfig creates an engine with custom configuration.
func NewWithConfig(storage service.Storage, recommender service.Recommender, fitCache service.FitCache, cfg Config) *Engine {
	balancedPer := cfg.BalancedPerCategory
	if balancedPer <= 0 {
		balancedPer = 3
	}
	return &Engine{
		storage:     storage,
		recommender: recommender,
		fitCache:    fitCache,
		listLimit:   cfg.ListLimit,
		balancedPer: balancedPer,
	}
}

// LoadList fetches a profile's college list and its precomputed fit analyses
// concurrently, then merges the analyses into the entries. Neither fetch
// depends on the other; both must resolve before the merge.
func (e *Engine) LoadList(ctx context.Context, profileID string) ([]model.CollegeEntry, error) {
	var (
		entries  []model.CollegeEntry
		analyses map[string]*model.FitAnalysis
		listErr  error
		fitsErr  error
		wg       sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		entries, listErr = e.storage.GetCollegeList(ctx, profileID)
	}()
	go func() {
		defer wg.Done()
		analyses, fitsErr = e.storage.GetFitAnalyses(ctx, profileID)
	}()
	wg.Wait()

	if listErr != nil {
		return nil, fmt.Errorf("failed to load college list: %w", listErr)
	}
	if fitsErr != nil {
		return nil, fmt.Errorf("failed to load fit analyses: %w", fitsErr)
	}

	for i := range entries {
		if analysis, ok := analyses[entries[i].UniversityID]; ok {
			entries[i].FitAnalysis = analysis
		}
	}

	return entries, nil
}

// AddCollege puts a school on the list, enforcing the list cap, and kicks
// off fit computation in the background. The background result only updates
// the entry's compute status and stored analysis; nothing waits on it.
func (e *Engine) AddCollege(ctx context.Context, profileID string, entry model.CollegeEntry) error {
	if e.listLimit > 0 {
		current, err := e.storage.GetCollegeList(ctx, profileID)
		if err != nil {
			return fmt.Errorf("failed to check list size: %w", err)
		}
		if len(current) >= e.listLimit {
			return fmt.Errorf("%w (%d)", common.ErrListLimit, e.listLimit)
		}
	}

	if err := e.storage.AddCollege(ctx, profileID, entry); err != nil {
		return err
	}

	go e.computeFitBackground(profileID, entry.UniversityID)

	return nil
}

// computeFitBackground is the fire-and-forget path after an add. It runs on
// its own context so an already-finished request doesn't cancel it.
func (e *Engine) computeFitBackground(profileID, universityID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := e.storage.UpdateComputeStatus(ctx, profileID, universityID, model.FitComputing); err != nil {
		slog.Error("failed to mark fit computing", "university_id", universityID, "error", err)
		return
	}

	if _, err := e.ComputeFit(ctx, profileID, universityID); err != nil {
		slog.Warn("background fit computation failed",
			"profile_id", profileID,
			"university_id", universityID,
			"error", err)
		_ = e.storage.UpdateComputeStatus(ctx, profileID, universityID, model.FitFailed)
		return
	}

	_ = e.storage.UpdateComputeStatus(ctx, profileID, universityID, model.FitReady)
}

// ComputeFit returns the fit analysis for one profile/university pair,
// reading through the cache and computing from stats on a full miss.
func (e *Engine) ComputeFit(ctx context.Context, profileID, universityID string) (*model.FitAnalysis, error) {
	if e.fitCache != nil {
		if analysis, ok := e.fitCache.Get(ctx, profileID, universityID); ok {
			return analysis, nil
		}
	}

	analysis, err := e.storage.GetFitAnalysis(ctx, profileID, universityID)
	if err == nil {
		e.cacheFit(ctx, profileID, analysis)
		return analysis, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	profile, err := e.storage.GetProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	stats, err := e.storage.GetUniversityStats(ctx, universityID)
	if err != nil {
		return nil, err
	}

	analysis = fit.Analyze(*profile, *stats)
	if err := e.storage.SaveFitAnalysis(ctx, profileID, analysis); err != nil {
		return nil, fmt.Errorf("failed to persist fit analysis: %w", err)
	}
	e.cacheFit(ctx, profileID, analysis)

	return analysis, nil
}

func (e *Engine) cacheFit(ctx context.Context, profileID string, analysis *model.FitAnalysis) {
	if e.fitCache == nil {
		return
	}
	if err := e.fitCache.Set(ctx, profileID, analysis); err != nil {
		slog.Debug("failed to cache fit analysis", "error", err)
	}
}

// RecommendResult is the outcome of one recommendation session run.
type RecommendResult struct {
	SessionID       string
	Recommendations []model.Recommendation
}

// Recommend runs a recommendation session for a profile: load the current
// list, ask the recommender for additions, drop anything already listed,
// attach match scores where university stats are known, and record the
// session. The session row is written even when parsing fails so the raw
// reply is auditable.
func (e *Engine) Recommend(ctx context.Context, profileID string, count int) (*RecommendResult, error) {
	profile, err := e.storage.GetProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	current, err := e.LoadList(ctx, profileID)
	if err != nil {
		return nil, err
	}

	session := &model.Session{
		ID:        uuid.NewString(),
		UserEmail: profile.Email,
		StartedAt: time.Now().UTC(),
		Status:    model.SessionActive,
	}
	if err := e.storage.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	recs, raw, err := e.recommender.Recommend(ctx, service.RecommendRequest{
		UserEmail: profile.Email,
		Current:   current,
		Count:     count,
		SessionID: session.ID,
	})

	turn := model.SessionTurn{
		Prompt:   fmt.Sprintf("recommend %d schools", count),
		Response: raw,
		Parsed:   len(recs),
	}
	if raw != "" || err == nil {
		if turnErr := e.storage.AppendSessionTurn(ctx, session.ID, turn); turnErr != nil {
			slog.Error("failed to record session turn", "session_id", session.ID, "error", turnErr)
		}
	}

	if err != nil {
		_ = e.storage.UpdateSessionStatus(ctx, session.ID, model.SessionFailed)
		return nil, err
	}

	recs = e.filterListed(current, recs)
	if len(recs) == 0 {
		_ = e.storage.UpdateSessionStatus(ctx, session.ID, model.SessionFailed)
		return nil, common.ErrNoRecommendations
	}

	e.attachMatchScores(ctx, *profile, recs)

	if err := e.storage.UpdateSessionStatus(ctx, session.ID, model.SessionComplete); err != nil {
		slog.Error("failed to complete session", "session_id", session.ID, "error", err)
	}

	return &RecommendResult{
		SessionID:       session.ID,
		Recommendations: recs,
	}, nil
}

// filterListed drops recommendations whose name matches a school already on
// the list, comparing case- and whitespace-insensitively. The input slice
// may be shared with the recommender's cache, so the result is a fresh
// allocation rather than an in-place compaction.
func (e *Engine) filterListed(current []model.CollegeEntry, recs []model.Recommendation) []model.Recommendation {
	listed := make(map[string]struct{}, len(current))
	for _, entry := range current {
		listed[normalizeName(entry.UniversityName)] = struct{}{}
	}

	out := make([]model.Recommendation, 0, len(recs))
	for _, rec := range recs {
		if _, dup := listed[normalizeName(rec.Name)]; dup {
			continue
		}
		out = append(out, rec)
	}
	return out
}

var spaceCollapser = strings.NewReplacer("\t", " ", "\n", " ")

func normalizeName(name string) string {
	return strings.Join(strings.Fields(spaceCollapser.Replace(strings.ToLower(name))), " ")
}

// attachMatchScores fills in match scores for recommendations whose
// university stats are on file. Unknown schools keep a zero score.
func (e *Engine) attachMatchScores(ctx context.Context, profile model.StudentProfile, recs []model.Recommendation) {
	for i := range recs {
		stats, err := e.statsByName(ctx, recs[i].Name)
		if err != nil {
			continue
		}
		result := fit.Score(profile, *stats, fit.ModeFair)
		recs[i].MatchScore = result.Percent
	}
}

// statsByName looks up stats by a slug of the school name. Recommendation
// text carries names, not IDs; the slug is the best join key available.
func (e *Engine) statsByName(ctx context.Context, name string) (*model.UniversityStats, error) {
	return e.storage.GetUniversityStats(ctx, Slug(name))
}

// Slug normalizes a university name into the ID form used by the
// universities table.
func Slug(name string) string {
	return strings.ReplaceAll(normalizeName(name), " ", "-")
}

// BalancedList picks up to the configured number of schools per category
// from the student's list, ordered safety first, best match first within a
// category.
func (e *Engine) BalancedList(ctx context.Context, profileID string) ([]model.CollegeEntry, error) {
	return e.BalancedListN(ctx, profileID, e.balancedPer)
}

// BalancedListN is BalancedList with a per-call category size.
func (e *Engine) BalancedListN(ctx context.Context, profileID string, perCategory int) ([]model.CollegeEntry, error) {
	if perCategory <= 0 {
		perCategory = e.balancedPer
	}

	entries, err := e.LoadList(ctx, profileID)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[model.FitCategory][]model.CollegeEntry)
	for _, entry := range entries {
		category := entry.EffectiveCategory()
		byCategory[category] = append(byCategory[category], entry)
	}

	var balanced []model.CollegeEntry
	for _, category := range model.AllFitCategories {
		group := byCategory[category]
		sortByMatch(group)
		if len(group) > perCategory {
			group = group[:perCategory]
		}
		balanced = append(balanced, group...)
	}
	return balanced, nil
}

func sortByMatch(entries []model.CollegeEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return matchPct(entries[i]) > matchPct(entries[j])
	})
}

func matchPct(entry model.CollegeEntry) float64 {
	if entry.FitAnalysis == nil {
		return 0
	}
	return entry.FitAnalysis.MatchPercentage
}
