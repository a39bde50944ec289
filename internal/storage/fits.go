package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/launchpad-edu/launchpad/internal/common"
	"github.com/launchpad-edu/launchpad/internal/model"
)

// SaveFitAnalysis upserts the computed analysis for one profile/university pair.
func (s *SQLiteStorage) SaveFitAnalysis(ctx context.Context, profileID string, analysis *model.FitAnalysis) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(profileID, "profileID"); err != nil {
		return err
	}
	if analysis == nil {
		return fmt.Errorf("analysis cannot be nil")
	}
	if err := validateString(analysis.UniversityID, "universityID"); err != nil {
		return err
	}
	if !analysis.FitCategory.Valid() {
		return fmt.Errorf("invalid fit category: %q", analysis.FitCategory)
	}

	factors, err := json.Marshal(analysis.Factors)
	if err != nil {
		return fmt.Errorf("failed to marshal factors: %w", err)
	}
	recommendations, err := json.Marshal(analysis.Recommendations)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	computedAt := analysis.ComputedAt
	if computedAt.IsZero() {
		computedAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO fit_analyses (profile_id, university_id, fit_category, match_percentage, explanation, factors, recommendations, computed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(profile_id, university_id) DO UPDATE SET
			fit_category = excluded.fit_category,
			match_percentage = excluded.match_percentage,
			explanation = excluded.explanation,
			factors = excluded.factors,
			recommendations = excluded.recommendations,
			computed_at = excluded.computed_at`,
		profileID, analysis.UniversityID, string(analysis.FitCategory), analysis.MatchPercentage,
		analysis.Explanation, string(factors), string(recommendations), computedAt)
	if err != nil {
		return fmt.Errorf("failed to save fit analysis: %w", err)
	}
	return nil
}

// GetFitAnalysis returns the analysis for one pair, or ErrNotFound.
func (s *SQLiteStorage) GetFitAnalysis(ctx context.Context, profileID, universityID string) (*model.FitAnalysis, error) {
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
		SELECT university_id, fit_category, match_percentage, explanation, factors, recommendations, computed_at
		FROM fit_analyses
		WHERE profile_id = ? AND university_id = ?`, profileID, universityID)

	analysis, err := scanFitAnalysis(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: fit analysis for %s", common.ErrNotFound, universityID)
	}
	return analysis, err
}

// GetFitAnalyses returns all analyses for a profile keyed by university ID.
func (s *SQLiteStorage) GetFitAnalyses(ctx context.Context, profileID string) (map[string]*model.FitAnalysis, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(profileID, "profileID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT university_id, fit_category, match_percentage, explanation, factors, recommendations, computed_at
		FROM fit_analyses
		WHERE profile_id = ?`, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to query fit analyses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	analyses := make(map[string]*model.FitAnalysis)
	for rows.Next() {
		analysis, err := scanFitAnalysis(rows)
		if err != nil {
			return nil, err
		}
		analyses[analysis.UniversityID] = analysis
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fit analyses: %w", err)
	}
	return analyses, nil
}

// GetFitsByCategory returns a profile's analyses in one category, best match
// first.
func (s *SQLiteStorage) GetFitsByCategory(ctx context.Context, profileID string, category model.FitCategory) ([]model.FitAnalysis, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(profileID, "profileID"); err != nil {
		return nil, err
	}
	if !category.Valid() {
		return nil, fmt.Errorf("invalid fit category: %q", category)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT university_id, fit_category, match_percentage, explanation, factors, recommendations, computed_at
		FROM fit_analyses
		WHERE profile_id = ? AND fit_category = ?
		ORDER BY match_percentage DESC`, profileID, string(category))
	if err != nil {
		return nil, fmt.Errorf("failed to query fits by category: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var analyses []model.FitAnalysis
	for rows.Next() {
		analysis, err := scanFitAnalysis(rows)
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, *analysis)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fits: %w", err)
	}
	return analyses, nil
}

func scanFitAnalysis(row rowScanner) (*model.FitAnalysis, error) {
	var universityID, category string
	var explanation, factors, recommendations sql.NullString
	var matchPct float64
	var computedAt time.Time

	err := row.Scan(&universityID, &category, &matchPct, &explanation, &factors, &recommendations, &computedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan fit analysis: %w", err)
	}

	return buildFitAnalysis(universityID, category, matchPct, explanation.String,
		factors.String, recommendations.String, computedAt)
}

func buildFitAnalysis(universityID, category string, matchPct float64, explanation, factorsJSON, recsJSON string, computedAt time.Time) (*model.FitAnalysis, error) {
	analysis := &model.FitAnalysis{
		UniversityID:    universityID,
		FitCategory:     model.FitCategory(category),
		MatchPercentage: matchPct,
		Explanation:     explanation,
		ComputedAt:      computedAt,
	}

	if factorsJSON != "" {
		if err := json.Unmarshal([]byte(factorsJSON), &analysis.Factors); err != nil {
			return nil, fmt.Errorf("failed to unmarshal factors: %w", err)
		}
	}
	if recsJSON != "" {
		if err := json.Unmarshal([]byte(recsJSON), &analysis.Recommendations); err != nil {
			return nil, fmt.Errorf("failed to unmarshal recommendations: %w", err)
		}
	}
	return analysis, nil
}
