package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/launchpad-edu/launchpad/internal/model"
)

func TestRenderCollegeListEmpty(t *testing.T) {
	out := RenderCollegeList(nil)
	assert.Contains(t, out, "No colleges")
}

func TestRenderCollegeList(t *testing.T) {
	entries := []model.CollegeEntry{
		{
			UniversityName: "Duke University",
			Location:       "Durham, NC",
			ComputeStatus:  model.FitReady,
			FitAnalysis: &model.FitAnalysis{
				FitCategory:     model.FitReach,
				MatchPercentage: 62,
			},
		},
		{
			UniversityName:  "Rice University",
			SoftFitCategory: model.FitTarget,
			ComputeStatus:   model.FitPending,
		},
	}

	out := RenderCollegeList(entries)
	assert.Contains(t, out, "Duke University")
	assert.Contains(t, out, "62%")
	assert.Contains(t, out, "REACH")
	// No analysis yet shows a dash, not a zero.
	assert.Contains(t, out, "Rice University")
	assert.Contains(t, out, "-")
	assert.Contains(t, out, "pending")
}

func TestRenderRecommendations(t *testing.T) {
	recs := []model.Recommendation{
		{
			Name:        "Case Western Reserve University",
			Location:    "Cleveland, OH",
			Reason:      "Strong engineering with accessible admissions",
			FitCategory: model.FitTarget,
			MatchScore:  74,
		},
	}

	out := RenderRecommendations(recs)
	assert.Contains(t, out, "1. Case Western Reserve University")
	assert.Contains(t, out, "Cleveland, OH")
	assert.Contains(t, out, "74% match")
	assert.Contains(t, out, "Strong engineering")
}

func TestRenderFitAnalysis(t *testing.T) {
	analysis := &model.FitAnalysis{
		FitCategory:     model.FitReach,
		MatchPercentage: 58,
		Explanation:     "Competitive but possible",
		Factors: []model.FitFactor{
			{Name: "GPA", Score: 35, Max: 40, Detail: "3.8 vs 4.0 75th percentile"},
		},
		Recommendations: []string{"Consider retaking the SAT"},
	}

	out := RenderFitAnalysis("Duke University", analysis)
	assert.Contains(t, out, "Duke University")
	assert.Contains(t, out, "58% match")
	assert.Contains(t, out, "GPA")
	assert.Contains(t, out, "retaking the SAT")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a very l...", truncate("a very long university name", 11))
}
