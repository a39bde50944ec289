package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/launchpad-edu/launchpad/internal/common"
	"github.com/launchpad-edu/launchpad/internal/model"
)

// SaveProfile upserts a student profile.
func (s *SQLiteStorage) SaveProfile(ctx context.Context, profile *model.StudentProfile) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if profile == nil {
		return fmt.Errorf("profile cannot be nil")
	}
	if err := validateString(profile.ID, "profileID"); err != nil {
		return err
	}
	if err := validateString(profile.Email, "email"); err != nil {
		return err
	}

	updatedAt := profile.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (id, email, gpa, test_score, ap_count, leadership, test_optional, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email = excluded.email,
			gpa = excluded.gpa,
			test_score = excluded.test_score,
			ap_count = excluded.ap_count,
			leadership = excluded.leadership,
			test_optional = excluded.test_optional,
			updated_at = excluded.updated_at`,
		profile.ID, profile.Email, profile.GPA, profile.TestScore, profile.APCount,
		profile.Leadership, profile.TestOptional, updatedAt)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// GetProfile returns a profile by ID, or ErrNoProfile.
func (s *SQLiteStorage) GetProfile(ctx context.Context, profileID string) (*model.StudentProfile, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(profileID, "profileID"); err != nil {
		return nil, err
	}
	return s.queryProfile(ctx, `WHERE id = ?`, profileID)
}

// GetProfileByEmail returns a profile by email, or ErrNoProfile.
func (s *SQLiteStorage) GetProfileByEmail(ctx context.Context, email string) (*model.StudentProfile, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(email, "email"); err != nil {
		return nil, err
	}
	return s.queryProfile(ctx, `WHERE email = ?`, email)
}

func (s *SQLiteStorage) queryProfile(ctx context.Context, where string, arg any) (*model.StudentProfile, error) {
	var profile model.StudentProfile
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, gpa, test_score, ap_count, leadership, test_optional, updated_at
		FROM profiles `+where, arg).Scan(
		&profile.ID, &profile.Email, &profile.GPA, &profile.TestScore,
		&profile.APCount, &profile.Leadership, &profile.TestOptional, &profile.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNoProfile
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query profile: %w", err)
	}
	return &profile, nil
}

// SaveUniversityStats upserts institutional stats used for fit scoring.
func (s *SQLiteStorage) SaveUniversityStats(ctx context.Context, stats model.UniversityStats) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(stats.UniversityID, "universityID"); err != nil {
		return err
	}
	if err := validateString(stats.Name, "name"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO universities (university_id, name, acceptance_rate, gpa_75, sat_75)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(university_id) DO UPDATE SET
			name = excluded.name,
			acceptance_rate = excluded.acceptance_rate,
			gpa_75 = excluded.gpa_75,
			sat_75 = excluded.sat_75`,
		stats.UniversityID, stats.Name, stats.AcceptanceRate, stats.GPA75, stats.SAT75)
	if err != nil {
		return fmt.Errorf("failed to save university stats: %w", err)
	}
	return nil
}

// GetUniversityStats returns stats for one university, or ErrNotFound.
func (s *SQLiteStorage) GetUniversityStats(ctx context.Context, universityID string) (*model.UniversityStats, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(universityID, "universityID"); err != nil {
		return nil, err
	}

	var stats model.UniversityStats
	err := s.db.QueryRowContext(ctx, `
		SELECT university_id, name, acceptance_rate, gpa_75, sat_75
		FROM universities WHERE university_id = ?`, universityID).Scan(
		&stats.UniversityID, &stats.Name, &stats.AcceptanceRate, &stats.GPA75, &stats.SAT75)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: university %s", common.ErrNotFound, universityID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query university stats: %w", err)
	}
	return &stats, nil
}
