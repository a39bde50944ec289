package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/launchpad-edu/launchpad/internal/common"
	"github.com/launchpad-edu/launchpad/internal/model"
)

// MemoryStorage is an in-memory service.Storage used by tests and by the
// simulate-only paths that need no database.
type MemoryStorage struct {
	colleges     map[string][]model.CollegeEntry   // profileID -> entries
	analyses     map[string]*model.FitAnalysis     // profileID/universityID -> analysis
	sessions     map[string]*model.Session         // sessionID -> session
	profiles     map[string]*model.StudentProfile  // profileID -> profile
	universities map[string]model.UniversityStats  // universityID -> stats
	mu           sync.RWMutex
}

// NewMemoryStorage creates an empty in-memory store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		colleges:     make(map[string][]model.CollegeEntry),
		analyses:     make(map[string]*model.FitAnalysis),
		sessions:     make(map[string]*model.Session),
		profiles:     make(map[string]*model.StudentProfile),
		universities: make(map[string]model.UniversityStats),
	}
}

func pairKey(profileID, universityID string) string {
	return profileID + "/" + universityID
}

// AddCollege inserts a list entry.
func (m *MemoryStorage) AddCollege(_ context.Context, profileID string, entry model.CollegeEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.colleges[profileID] {
		if existing.UniversityID == entry.UniversityID {
			return fmt.Errorf("%w: %s", common.ErrDuplicateEntry, entry.UniversityID)
		}
	}
	if entry.AddedAt.IsZero() {
		entry.AddedAt = time.Now().UTC()
	}
	if entry.ComputeStatus == "" {
		entry.ComputeStatus = model.FitPending
	}
	entry.FitAnalysis = nil
	m.colleges[profileID] = append(m.colleges[profileID], entry)
	return nil
}

// GetCollegeList returns the bare entries for a profile.
func (m *MemoryStorage) GetCollegeList(_ context.Context, profileID string) ([]model.CollegeEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]model.CollegeEntry, len(m.colleges[profileID]))
	copy(entries, m.colleges[profileID])
	return entries, nil
}

// GetCollegeEntry returns one entry with its analysis attached.
func (m *MemoryStorage) GetCollegeEntry(_ context.Context, profileID, universityID string) (*model.CollegeEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, entry := range m.colleges[profileID] {
		if entry.UniversityID == universityID {
			entry.FitAnalysis = m.analyses[pairKey(profileID, universityID)]
			return &entry, nil
		}
	}
	return nil, fmt.Errorf("%w: college %s", common.ErrNotFound, universityID)
}

// RemoveCollege deletes one entry.
func (m *MemoryStorage) RemoveCollege(_ context.Context, profileID, universityID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removeLocked(profileID, universityID)
}

func (m *MemoryStorage) removeLocked(profileID, universityID string) error {
	entries := m.colleges[profileID]
	for i, entry := range entries {
		if entry.UniversityID == universityID {
			m.colleges[profileID] = append(entries[:i:i], entries[i+1:]...)
			delete(m.analyses, pairKey(profileID, universityID))
			return nil
		}
	}
	return fmt.Errorf("%w: college %s", common.ErrNotFound, universityID)
}

// BulkRemoveColleges deletes a batch, returning the removed count.
func (m *MemoryStorage) BulkRemoveColleges(_ context.Context, profileID string, universityIDs []string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for _, universityID := range universityIDs {
		if err := m.removeLocked(profileID, universityID); err == nil {
			removed++
		}
	}
	return removed, nil
}

// UpdateComputeStatus sets the background computation state.
func (m *MemoryStorage) UpdateComputeStatus(_ context.Context, profileID, universityID string, status model.FitComputeStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := m.colleges[profileID]
	for i := range entries {
		if entries[i].UniversityID == universityID {
			entries[i].ComputeStatus = status
			return nil
		}
	}
	return fmt.Errorf("%w: college %s", common.ErrNotFound, universityID)
}

// SaveFitAnalysis upserts an analysis.
func (m *MemoryStorage) SaveFitAnalysis(_ context.Context, profileID string, analysis *model.FitAnalysis) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	clone := *analysis
	if clone.ComputedAt.IsZero() {
		clone.ComputedAt = time.Now().UTC()
	}
	m.analyses[pairKey(profileID, analysis.UniversityID)] = &clone
	return nil
}

// GetFitAnalysis returns one analysis.
func (m *MemoryStorage) GetFitAnalysis(_ context.Context, profileID, universityID string) (*model.FitAnalysis, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	analysis, ok := m.analyses[pairKey(profileID, universityID)]
	if !ok {
		return nil, fmt.Errorf("%w: fit analysis for %s", common.ErrNotFound, universityID)
	}
	clone := *analysis
	return &clone, nil
}

// GetFitAnalyses returns all analyses for a profile keyed by university.
func (m *MemoryStorage) GetFitAnalyses(_ context.Context, profileID string) (map[string]*model.FitAnalysis, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]*model.FitAnalysis)
	prefix := profileID + "/"
	for key, analysis := range m.analyses {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			clone := *analysis
			out[analysis.UniversityID] = &clone
		}
	}
	return out, nil
}

// GetFitsByCategory returns analyses in a category, best match first.
func (m *MemoryStorage) GetFitsByCategory(_ context.Context, profileID string, category model.FitCategory) ([]model.FitAnalysis, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []model.FitAnalysis
	prefix := profileID + "/"
	for key, analysis := range m.analyses {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix && analysis.FitCategory == category {
			out = append(out, *analysis)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].MatchPercentage > out[j].MatchPercentage
	})
	return out, nil
}

// CreateSession records a session.
func (m *MemoryStorage) CreateSession(_ context.Context, session *model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	clone := *session
	if clone.StartedAt.IsZero() {
		clone.StartedAt = time.Now().UTC()
	}
	if clone.Status == "" {
		clone.Status = model.SessionActive
	}
	m.sessions[session.ID] = &clone
	return nil
}

// AppendSessionTurn records one exchange.
func (m *MemoryStorage) AppendSessionTurn(_ context.Context, sessionID string, turn model.SessionTurn) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[sessionID]
	if !ok {
		return fmt.Errorf("%w: session %s", common.ErrNotFound, sessionID)
	}
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now().UTC()
	}
	session.Turns = append(session.Turns, turn)
	session.UpdatedAt = turn.CreatedAt
	return nil
}

// UpdateSessionStatus moves a session through its lifecycle.
func (m *MemoryStorage) UpdateSessionStatus(_ context.Context, sessionID string, status model.SessionStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[sessionID]
	if !ok {
		return fmt.Errorf("%w: session %s", common.ErrNotFound, sessionID)
	}
	session.Status = status
	session.UpdatedAt = time.Now().UTC()
	return nil
}

// GetSession returns a session with its turns.
func (m *MemoryStorage) GetSession(_ context.Context, sessionID string) (*model.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: session %s", common.ErrNotFound, sessionID)
	}
	clone := *session
	clone.Turns = append([]model.SessionTurn(nil), session.Turns...)
	return &clone, nil
}

// SaveProfile upserts a profile.
func (m *MemoryStorage) SaveProfile(_ context.Context, profile *model.StudentProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	clone := *profile
	if clone.UpdatedAt.IsZero() {
		clone.UpdatedAt = time.Now().UTC()
	}
	m.profiles[profile.ID] = &clone
	return nil
}

// GetProfile returns a profile by ID.
func (m *MemoryStorage) GetProfile(_ context.Context, profileID string) (*model.StudentProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	profile, ok := m.profiles[profileID]
	if !ok {
		return nil, common.ErrNoProfile
	}
	clone := *profile
	return &clone, nil
}

// GetProfileByEmail returns a profile by email.
func (m *MemoryStorage) GetProfileByEmail(_ context.Context, email string) (*model.StudentProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, profile := range m.profiles {
		if profile.Email == email {
			clone := *profile
			return &clone, nil
		}
	}
	return nil, common.ErrNoProfile
}

// SaveUniversityStats upserts institutional stats.
func (m *MemoryStorage) SaveUniversityStats(_ context.Context, stats model.UniversityStats) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.universities[stats.UniversityID] = stats
	return nil
}

// GetUniversityStats returns stats for one university.
func (m *MemoryStorage) GetUniversityStats(_ context.Context, universityID string) (*model.UniversityStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats, ok := m.universities[universityID]
	if !ok {
		return nil, fmt.Errorf("%w: university %s", common.ErrNotFound, universityID)
	}
	return &stats, nil
}

// Migrate is a no-op for the in-memory store.
func (m *MemoryStorage) Migrate(_ context.Context) error { return nil }

// Close is a no-op for the in-memory store.
func (m *MemoryStorage) Close() error { return nil }
