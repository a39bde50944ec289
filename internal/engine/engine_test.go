package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launchpad-edu/launchpad/internal/common"
	"github.com/launchpad-edu/launchpad/internal/fitcache"
	"github.com/launchpad-edu/launchpad/internal/llm"
	"github.com/launchpad-edu/launchpad/internal/model"
	"github.com/launchpad-edu/launchpad/internal/service"
	"github.com/launchpad-edu/launchpad/internal/storage"
)

type stubRecommender struct {
	recs []model.Recommendation
	raw  string
	err  error

	lastRequest service.RecommendRequest
}

func (s *stubRecommender) Recommend(_ context.Context, req service.RecommendRequest) ([]model.Recommendation, string, error) {
	s.lastRequest = req
	return s.recs, s.raw, s.err
}

func newTestEngine(t *testing.T, recommender service.Recommender) (*Engine, *storage.MemoryStorage) {
	t.Helper()
	store := storage.NewMemoryStorage()
	eng := NewWithConfig(store, recommender, fitcache.NewMemoryCache(), Config{
		ListLimit:           3,
		BalancedPerCategory: 2,
	})
	return eng, store
}

func seedProfile(t *testing.T, store *storage.MemoryStorage) {
	t.Helper()
	require.NoError(t, store.SaveProfile(context.Background(), &model.StudentProfile{
		ID:        "p1",
		Email:     "student@example.com",
		GPA:       3.9,
		TestScore: 1520,
		APCount:   8,
	}))
}

func TestLoadListMergesAnalyses(t *testing.T) {
	eng, store := newTestEngine(t, &stubRecommender{})
	ctx := context.Background()

	require.NoError(t, store.AddCollege(ctx, "p1", model.CollegeEntry{
		UniversityID:    "duke",
		UniversityName:  "Duke University",
		SoftFitCategory: model.FitSafety,
	}))
	require.NoError(t, store.AddCollege(ctx, "p1", model.CollegeEntry{
		UniversityID:   "rice",
		UniversityName: "Rice University",
	}))
	require.NoError(t, store.SaveFitAnalysis(ctx, "p1", &model.FitAnalysis{
		UniversityID:    "duke",
		FitCategory:     model.FitReach,
		MatchPercentage: 58,
	}))

	entries, err := eng.LoadList(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byID := make(map[string]model.CollegeEntry, len(entries))
	for _, entry := range entries {
		byID[entry.UniversityID] = entry
	}

	// The computed analysis overrides the soft category.
	require.NotNil(t, byID["duke"].FitAnalysis)
	assert.Equal(t, model.FitReach, byID["duke"].EffectiveCategory())

	// No analysis yet falls back to the default.
	assert.Nil(t, byID["rice"].FitAnalysis)
	assert.Equal(t, model.FitTarget, byID["rice"].EffectiveCategory())
}

func TestAddCollegeEnforcesListLimit(t *testing.T) {
	eng, store := newTestEngine(t, &stubRecommender{})
	ctx := context.Background()
	seedProfile(t, store)

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, eng.AddCollege(ctx, "p1", model.CollegeEntry{
			UniversityID:   id,
			UniversityName: id,
		}))
	}

	err := eng.AddCollege(ctx, "p1", model.CollegeEntry{
		UniversityID:   "d",
		UniversityName: "d",
	})
	assert.ErrorIs(t, err, common.ErrListLimit)
}

func TestAddCollegeComputesFitInBackground(t *testing.T) {
	eng, store := newTestEngine(t, &stubRecommender{})
	ctx := context.Background()
	seedProfile(t, store)
	require.NoError(t, store.SaveUniversityStats(ctx, model.UniversityStats{
		UniversityID:   "duke",
		Name:           "Duke University",
		AcceptanceRate: 6,
		GPA75:          4.0,
		SAT75:          1560,
	}))

	require.NoError(t, eng.AddCollege(ctx, "p1", model.CollegeEntry{
		UniversityID:   "duke",
		UniversityName: "Duke University",
	}))

	require.Eventually(t, func() bool {
		entry, err := store.GetCollegeEntry(ctx, "p1", "duke")
		return err == nil && entry.ComputeStatus == model.FitReady
	}, 2*time.Second, 10*time.Millisecond)

	analysis, err := store.GetFitAnalysis(ctx, "p1", "duke")
	require.NoError(t, err)
	assert.True(t, analysis.FitCategory.Valid())
	assert.Greater(t, analysis.MatchPercentage, 0.0)
}

func TestAddCollegeMarksFailedWithoutStats(t *testing.T) {
	eng, store := newTestEngine(t, &stubRecommender{})
	ctx := context.Background()
	seedProfile(t, store)

	require.NoError(t, eng.AddCollege(ctx, "p1", model.CollegeEntry{
		UniversityID:   "unknown-college",
		UniversityName: "Unknown College",
	}))

	require.Eventually(t, func() bool {
		entry, err := store.GetCollegeEntry(ctx, "p1", "unknown-college")
		return err == nil && entry.ComputeStatus == model.FitFailed
	}, 2*time.Second, 10*time.Millisecond)
}

func TestComputeFitReadsThroughCache(t *testing.T) {
	store := storage.NewMemoryStorage()
	cache := fitcache.NewMemoryCache()
	eng := NewWithConfig(store, &stubRecommender{}, cache, DefaultConfig())
	ctx := context.Background()
	seedProfile(t, store)
	require.NoError(t, store.SaveUniversityStats(ctx, model.UniversityStats{
		UniversityID:   "duke",
		AcceptanceRate: 6,
		GPA75:          4.0,
		SAT75:          1560,
	}))

	first, err := eng.ComputeFit(ctx, "p1", "duke")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Len())

	// Stored and cached; a second call returns the same analysis.
	second, err := eng.ComputeFit(ctx, "p1", "duke")
	require.NoError(t, err)
	assert.Equal(t, first.FitCategory, second.FitCategory)
	assert.Equal(t, first.MatchPercentage, second.MatchPercentage)

	persisted, err := store.GetFitAnalysis(ctx, "p1", "duke")
	require.NoError(t, err)
	assert.Equal(t, first.FitCategory, persisted.FitCategory)
}

func TestComputeFitWithoutProfile(t *testing.T) {
	eng, _ := newTestEngine(t, &stubRecommender{})

	_, err := eng.ComputeFit(context.Background(), "missing", "duke")
	assert.ErrorIs(t, err, common.ErrNoProfile)
}

func TestRecommendFiltersAlreadyListed(t *testing.T) {
	recommender := &stubRecommender{
		recs: []model.Recommendation{
			{Name: "Duke  University", FitCategory: model.FitReach},
			{Name: "Rice University", FitCategory: model.FitTarget},
		},
		raw: "SCHOOL: Duke University | ...",
	}
	eng, store := newTestEngine(t, recommender)
	ctx := context.Background()
	seedProfile(t, store)

	require.NoError(t, store.AddCollege(ctx, "p1", model.CollegeEntry{
		UniversityID:   "duke",
		UniversityName: "Duke University",
	}))

	result, err := eng.Recommend(ctx, "p1", 5)
	require.NoError(t, err)
	require.Len(t, result.Recommendations, 1)
	assert.Equal(t, "Rice University", result.Recommendations[0].Name)

	// The session recorded the raw exchange and completed.
	session, err := store.GetSession(ctx, result.SessionID)
	require.NoError(t, err)
	assert.Equal(t, model.SessionComplete, session.Status)
	require.Len(t, session.Turns, 1)
	assert.Equal(t, 2, session.Turns[0].Parsed)

	// The current list was handed to the recommender.
	assert.Equal(t, "student@example.com", recommender.lastRequest.UserEmail)
	require.Len(t, recommender.lastRequest.Current, 1)
	assert.Equal(t, 5, recommender.lastRequest.Count)
}

func TestRecommendAttachesMatchScores(t *testing.T) {
	recommender := &stubRecommender{
		recs: []model.Recommendation{
			{Name: "Rice University", FitCategory: model.FitTarget},
		},
		raw: "reply",
	}
	eng, store := newTestEngine(t, recommender)
	ctx := context.Background()
	seedProfile(t, store)
	require.NoError(t, store.SaveUniversityStats(ctx, model.UniversityStats{
		UniversityID:   "rice-university",
		Name:           "Rice University",
		AcceptanceRate: 9,
		GPA75:          3.96,
		SAT75:          1540,
	}))

	result, err := eng.Recommend(ctx, "p1", 1)
	require.NoError(t, err)
	require.Len(t, result.Recommendations, 1)
	assert.Greater(t, result.Recommendations[0].MatchScore, 0.0)
}

func TestRecommendWithoutProfile(t *testing.T) {
	eng, _ := newTestEngine(t, &stubRecommender{})

	_, err := eng.Recommend(context.Background(), "missing", 5)
	assert.ErrorIs(t, err, common.ErrNoProfile)
}

func TestRecommendAllFilteredOut(t *testing.T) {
	recommender := &stubRecommender{
		recs: []model.Recommendation{{Name: "Duke University"}},
		raw:  "reply",
	}
	eng, store := newTestEngine(t, recommender)
	ctx := context.Background()
	seedProfile(t, store)
	require.NoError(t, store.AddCollege(ctx, "p1", model.CollegeEntry{
		UniversityID:   "duke",
		UniversityName: "duke university",
	}))

	_, err := eng.Recommend(ctx, "p1", 5)
	assert.ErrorIs(t, err, common.ErrNoRecommendations)
}

// cannedClient satisfies llm.Client with a fixed reply.
type cannedClient struct {
	response string
}

func (c *cannedClient) Complete(context.Context, llm.CompletionRequest) (llm.CompletionResponse, error) {
	return llm.CompletionResponse{Text: c.response, Model: "stub"}, nil
}

func TestRecommendRepeatedRunsStayClean(t *testing.T) {
	client := &cannedClient{response: `SCHOOL: Amherst College | LOCATION: Amherst, MA | FIT: REACH | REASON: strong liberal arts
SCHOOL: Rice University | LOCATION: Houston, TX | FIT: TARGET | REASON: solid fit`}
	recommender := llm.NewRecommenderWithClient(client, llm.Config{
		Provider:  "anthropic",
		CacheTTL:  time.Minute,
		RateLimit: 600,
	}, nil)
	defer recommender.Close()

	store := storage.NewMemoryStorage()
	eng := New(store, recommender, fitcache.NewMemoryCache())
	ctx := context.Background()
	seedProfile(t, store)

	require.NoError(t, store.AddCollege(ctx, "p1", model.CollegeEntry{
		UniversityID:   "rice",
		UniversityName: "Rice University",
	}))

	names := func(recs []model.Recommendation) []string {
		out := make([]string, len(recs))
		for i, rec := range recs {
			out[i] = rec.Name
		}
		return out
	}

	first, err := eng.Recommend(ctx, "p1", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Amherst College"}, names(first.Recommendations))

	// The second identical run is served from the recommender's cache and
	// must see the same batch, not one corrupted by the first run's
	// filtering.
	second, err := eng.Recommend(ctx, "p1", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Amherst College"}, names(second.Recommendations))

	// The cached run still records the raw reply on its session turn.
	session, err := store.GetSession(ctx, second.SessionID)
	require.NoError(t, err)
	require.Len(t, session.Turns, 1)
	assert.Contains(t, session.Turns[0].Response, "Amherst College")
}

func TestRecommendPropagatesRecommenderError(t *testing.T) {
	recommender := &stubRecommender{
		raw: "I cannot help with that.",
		err: common.ErrUnparseable,
	}
	eng, store := newTestEngine(t, recommender)
	ctx := context.Background()
	seedProfile(t, store)

	_, err := eng.Recommend(ctx, "p1", 5)
	assert.ErrorIs(t, err, common.ErrUnparseable)
}

func TestBalancedListCapsPerCategory(t *testing.T) {
	eng, store := newTestEngine(t, &stubRecommender{})
	ctx := context.Background()

	add := func(id string, category model.FitCategory, pct float64) {
		require.NoError(t, store.AddCollege(ctx, "p1", model.CollegeEntry{
			UniversityID:   id,
			UniversityName: id,
		}))
		require.NoError(t, store.SaveFitAnalysis(ctx, "p1", &model.FitAnalysis{
			UniversityID:    id,
			FitCategory:     category,
			MatchPercentage: pct,
		}))
	}

	add("s1", model.FitSafety, 90)
	add("s2", model.FitSafety, 95)
	add("s3", model.FitSafety, 80)
	add("t1", model.FitTarget, 75)
	add("r1", model.FitReach, 50)

	balanced, err := eng.BalancedList(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, balanced, 4)

	// Safety first, best match first, capped at two.
	assert.Equal(t, "s2", balanced[0].UniversityID)
	assert.Equal(t, "s1", balanced[1].UniversityID)
	assert.Equal(t, "t1", balanced[2].UniversityID)
	assert.Equal(t, "r1", balanced[3].UniversityID)
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "rice-university", Slug("  Rice   University "))
	assert.Equal(t, "university-of-michigan", Slug("University of Michigan"))
}

func TestLoadListPropagatesStorageErrors(t *testing.T) {
	eng := NewWithConfig(failingStorage{}, &stubRecommender{}, nil, DefaultConfig())

	_, err := eng.LoadList(context.Background(), "p1")
	assert.Error(t, err)
}

type failingStorage struct {
	*storage.MemoryStorage
}

func (failingStorage) GetCollegeList(context.Context, string) ([]model.CollegeEntry, error) {
	return nil, errors.New("boom")
}

func (failingStorage) GetFitAnalyses(context.Context, string) (map[string]*model.FitAnalysis, error) {
	return nil, errors.New("boom")
}
