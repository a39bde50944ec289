package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/launchpad-edu/launchpad/internal/common"
	"github.com/launchpad-edu/launchpad/internal/model"
)

// AddCollege inserts a university onto a student's list.
func (s *SQLiteStorage) AddCollege(ctx context.Context, profileID string, entry model.CollegeEntry) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(profileID, "profileID"); err != nil {
		return err
	}
	if err := validateString(entry.UniversityID, "universityID"); err != nil {
		return err
	}
	if err := validateString(entry.UniversityName, "universityName"); err != nil {
		return err
	}

	addedAt := entry.AddedAt
	if addedAt.IsZero() {
		addedAt = time.Now().UTC()
	}
	status := entry.ComputeStatus
	if status == "" {
		status = model.FitPending
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO colleges (profile_id, university_id, university_name, location, soft_fit_category, compute_status, added_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		profileID, entry.UniversityID, entry.UniversityName, entry.Location,
		string(entry.SoftFitCategory), string(status), addedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return fmt.Errorf("%w: %s", common.ErrDuplicateEntry, entry.UniversityID)
		}
		return fmt.Errorf("failed to add college: %w", err)
	}

	slog.Debug("added college", "profile_id", profileID, "university_id", entry.UniversityID)
	return nil
}

// GetCollegeList returns the bare entries on a student's list, ordered by
// when they were added. Fit analyses are fetched separately and merged by
// the engine.
func (s *SQLiteStorage) GetCollegeList(ctx context.Context, profileID string) ([]model.CollegeEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(profileID, "profileID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT university_id, university_name, location, soft_fit_category, compute_status, added_at
		FROM colleges
		WHERE profile_id = ?
		ORDER BY added_at, university_id`, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to query college list: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []model.CollegeEntry
	for rows.Next() {
		var entry model.CollegeEntry
		var location, softCategory, status sql.NullString
		if err := rows.Scan(&entry.UniversityID, &entry.UniversityName, &location,
			&softCategory, &status, &entry.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan college entry: %w", err)
		}
		entry.Location = location.String
		entry.SoftFitCategory = model.FitCategory(softCategory.String)
		entry.ComputeStatus = model.FitComputeStatus(status.String)
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating college list: %w", err)
	}

	return entries, nil
}

// GetCollegeEntry returns a single list entry, or ErrNotFound.
func (s *SQLiteStorage) GetCollegeEntry(ctx context.Context, profileID, universityID string) (*model.CollegeEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(profileID, "profileID"); err != nil {
		return nil, err
	}
	if err := validateString(universityID, "universityID"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT c.university_id, c.university_name, c.location, c.soft_fit_category, c.compute_status, c.added_at,
		       f.fit_category, f.match_percentage, f.explanation, f.factors, f.recommendations, f.computed_at
		FROM colleges c
		LEFT JOIN fit_analyses f
		  ON f.profile_id = c.profile_id AND f.university_id = c.university_id
		WHERE c.profile_id = ? AND c.university_id = ?`, profileID, universityID)

	entry, err := scanCollegeEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: college %s", common.ErrNotFound, universityID)
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// RemoveCollege deletes one entry and its fit analysis.
func (s *SQLiteStorage) RemoveCollege(ctx context.Context, profileID, universityID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(profileID, "profileID"); err != nil {
		return err
	}
	if err := validateString(universityID, "universityID"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM colleges WHERE profile_id = ? AND university_id = ?`,
		profileID, universityID)
	if err != nil {
		return fmt.Errorf("failed to remove college: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check removal: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: college %s", common.ErrNotFound, universityID)
	}

	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM fit_analyses WHERE profile_id = ? AND university_id = ?`,
		profileID, universityID); err != nil {
		return fmt.Errorf("failed to remove fit analysis: %w", err)
	}

	return nil
}

// BulkRemoveColleges deletes a batch of entries in one transaction and
// returns how many were actually removed.
func (s *SQLiteStorage) BulkRemoveColleges(ctx context.Context, profileID string, universityIDs []string) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(profileID, "profileID"); err != nil {
		return 0, err
	}
	if len(universityIDs) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	removed := 0
	for _, universityID := range universityIDs {
		result, err := tx.ExecContext(ctx,
			`DELETE FROM colleges WHERE profile_id = ? AND university_id = ?`,
			profileID, universityID)
		if err != nil {
			return 0, fmt.Errorf("failed to remove college %s: %w", universityID, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to check removal of %s: %w", universityID, err)
		}
		if affected > 0 {
			removed++
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM fit_analyses WHERE profile_id = ? AND university_id = ?`,
				profileID, universityID); err != nil {
				return 0, fmt.Errorf("failed to remove fit analysis for %s: %w", universityID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit bulk removal: %w", err)
	}

	slog.Info("bulk removed colleges", "profile_id", profileID, "requested", len(universityIDs), "removed", removed)
	return removed, nil
}

// UpdateComputeStatus records the background fit-computation state of an entry.
func (s *SQLiteStorage) UpdateComputeStatus(ctx context.Context, profileID, universityID string, status model.FitComputeStatus) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(profileID, "profileID"); err != nil {
		return err
	}
	if err := validateString(universityID, "universityID"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE colleges SET compute_status = ? WHERE profile_id = ? AND university_id = ?`,
		string(status), profileID, universityID)
	if err != nil {
		return fmt.Errorf("failed to update compute status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check status update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: college %s", common.ErrNotFound, universityID)
	}
	return nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCollegeEntry(row rowScanner) (model.CollegeEntry, error) {
	var entry model.CollegeEntry
	var location, softCategory, status sql.NullString
	var fitCategory, explanation, factors, recommendations sql.NullString
	var matchPct sql.NullFloat64
	var computedAt sql.NullTime

	err := row.Scan(
		&entry.UniversityID, &entry.UniversityName, &location, &softCategory, &status, &entry.AddedAt,
		&fitCategory, &matchPct, &explanation, &factors, &recommendations, &computedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entry, err
		}
		return entry, fmt.Errorf("failed to scan college entry: %w", err)
	}

	entry.Location = location.String
	entry.SoftFitCategory = model.FitCategory(softCategory.String)
	entry.ComputeStatus = model.FitComputeStatus(status.String)

	if fitCategory.Valid {
		analysis, err := buildFitAnalysis(entry.UniversityID, fitCategory.String, matchPct.Float64,
			explanation.String, factors.String, recommendations.String, computedAt.Time)
		if err != nil {
			return entry, err
		}
		entry.FitAnalysis = analysis
	}

	return entry, nil
}
