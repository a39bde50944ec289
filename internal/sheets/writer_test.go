package sheets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launchpad-edu/launchpad/internal/model"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "no auth",
			mutate:  func(_ *Config) {},
			wantErr: "no authentication method",
		},
		{
			name: "service account only",
			mutate: func(c *Config) {
				c.ServiceAccountPath = "/etc/launchpad/sa.json"
			},
		},
		{
			name: "oauth only",
			mutate: func(c *Config) {
				c.ClientID = "id"
				c.ClientSecret = "secret"
				c.RefreshToken = "token"
			},
		},
		{
			name: "both auth methods",
			mutate: func(c *Config) {
				c.ServiceAccountPath = "/etc/launchpad/sa.json"
				c.ClientID = "id"
				c.ClientSecret = "secret"
				c.RefreshToken = "token"
			},
			wantErr: "multiple authentication methods",
		},
		{
			name: "bad retry attempts",
			mutate: func(c *Config) {
				c.ServiceAccountPath = "/etc/launchpad/sa.json"
				c.RetryAttempts = 0
			},
			wantErr: "retry attempts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(&config)

			err := config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestBuildRows(t *testing.T) {
	profile := &model.StudentProfile{ID: "p1", Email: "student@example.com"}
	added := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	entries := []model.CollegeEntry{
		{
			UniversityName:  "Duke University",
			Location:        "Durham, NC",
			SoftFitCategory: model.FitSafety,
			ComputeStatus:   model.FitReady,
			AddedAt:         added,
			FitAnalysis: &model.FitAnalysis{
				FitCategory:     model.FitReach,
				MatchPercentage: 62,
			},
		},
		{
			UniversityName: "Rice University",
			Location:       "Houston, TX",
			ComputeStatus:  model.FitPending,
			AddedAt:        added,
		},
	}

	rows := buildRows(profile, entries)
	require.Len(t, rows, 4)

	assert.Equal(t, []any{"College list for student@example.com"}, rows[0])
	assert.Equal(t, "University", rows[1][0])

	// The computed analysis wins over the soft category.
	assert.Equal(t, "Duke University", rows[2][0])
	assert.Equal(t, model.FitReach.DisplayName(), rows[2][2])
	assert.Equal(t, "62%", rows[2][3])
	assert.Equal(t, "2026-03-14", rows[2][5])

	// No analysis yet leaves the match column blank and falls back to the
	// default category.
	assert.Equal(t, model.FitTarget.DisplayName(), rows[3][2])
	assert.Equal(t, "", rows[3][3])
}
