// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/launchpad-edu/launchpad/internal/model"
)

// Storage defines the contract for our persistence layer.
type Storage interface {
	// College-list operations
	AddCollege(ctx context.Context, profileID string, entry model.CollegeEntry) error
	GetCollegeList(ctx context.Context, profileID string) ([]model.CollegeEntry, error)
	GetCollegeEntry(ctx context.Context, profileID, universityID string) (*model.CollegeEntry, error)
	RemoveCollege(ctx context.Context, profileID, universityID string) error
	BulkRemoveColleges(ctx context.Context, profileID string, universityIDs []string) (int, error)
	UpdateComputeStatus(ctx context.Context, profileID, universityID string, status model.FitComputeStatus) error

	// Fit analysis operations
	SaveFitAnalysis(ctx context.Context, profileID string, analysis *model.FitAnalysis) error
	GetFitAnalysis(ctx context.Context, profileID, universityID string) (*model.FitAnalysis, error)
	GetFitAnalyses(ctx context.Context, profileID string) (map[string]*model.FitAnalysis, error)
	GetFitsByCategory(ctx context.Context, profileID string, category model.FitCategory) ([]model.FitAnalysis, error)

	// Session operations
	CreateSession(ctx context.Context, session *model.Session) error
	AppendSessionTurn(ctx context.Context, sessionID string, turn model.SessionTurn) error
	UpdateSessionStatus(ctx context.Context, sessionID string, status model.SessionStatus) error
	GetSession(ctx context.Context, sessionID string) (*model.Session, error)

	// Profile operations
	SaveProfile(ctx context.Context, profile *model.StudentProfile) error
	GetProfile(ctx context.Context, profileID string) (*model.StudentProfile, error)
	GetProfileByEmail(ctx context.Context, email string) (*model.StudentProfile, error)

	// University stats
	SaveUniversityStats(ctx context.Context, stats model.UniversityStats) error
	GetUniversityStats(ctx context.Context, universityID string) (*model.UniversityStats, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// FitCache caches computed fit analyses keyed by profile and university.
type FitCache interface {
	Get(ctx context.Context, profileID, universityID string) (*model.FitAnalysis, bool)
	Set(ctx context.Context, profileID string, analysis *model.FitAnalysis) error
}

// Recommender produces university recommendations for a student.
type Recommender interface {
	Recommend(ctx context.Context, req RecommendRequest) ([]model.Recommendation, string, error)
}

// RecommendRequest describes one recommendation call.
type RecommendRequest struct {
	UserEmail string
	Current   []model.CollegeEntry
	Count     int
	SessionID string
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
