package fit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launchpad-edu/launchpad/internal/model"
)

func strongStudent() model.StudentProfile {
	return model.StudentProfile{GPA: 4.0, TestScore: 1600, APCount: 10, Leadership: true}
}

func TestScoreBounds(t *testing.T) {
	students := []model.StudentProfile{
		{},
		{GPA: 2.0, TestScore: 900},
		strongStudent(),
		{GPA: 3.6, TestScore: 1350, APCount: 4, Leadership: true, TestOptional: true},
	}
	universities := []model.UniversityStats{
		{AcceptanceRate: 4, GPA75: 4.0, SAT75: 1570},
		{AcceptanceRate: 25, GPA75: 3.8, SAT75: 1450},
		{AcceptanceRate: 70, GPA75: 3.3, SAT75: 1200},
	}

	for _, student := range students {
		for _, university := range universities {
			for _, mode := range []Mode{ModeFair, ModeStrict} {
				result := Score(student, university, mode)
				assert.GreaterOrEqual(t, result.Score, 0.0)
				assert.LessOrEqual(t, result.Score, result.MaxScore)
				assert.True(t, result.Category.Valid(), "category %q", result.Category)
			}
		}
	}
}

func TestStrictGuardRailForcesSuperReach(t *testing.T) {
	// A perfect applicant against a sub-7% acceptance rate is still a
	// super reach, regardless of raw percentage.
	university := model.UniversityStats{AcceptanceRate: 5, GPA75: 4.0, SAT75: 1550}
	result := Score(strongStudent(), university, ModeStrict)

	require.Equal(t, model.FitSuperReach, result.Category)
	assert.Greater(t, result.Percent, strictTargetPct, "guard rail should fire despite a strong raw score")
}

func TestStrictDemotesSafetyBelowFifteenPercent(t *testing.T) {
	// Strong enough to hit the safety threshold on points, but the school
	// admits fewer than 15% of applicants.
	university := model.UniversityStats{AcceptanceRate: 12, GPA75: 3.5, SAT75: 1300}
	result := Score(strongStudent(), university, ModeStrict)

	assert.Equal(t, model.FitReach, result.Category)
}

func TestStrictSelectivityNonIncreasing(t *testing.T) {
	student := strongStudent()
	rates := []float64{60, 50, 40, 30, 25, 20, 15, 12, 10, 8, 5, 3, 1}

	previous := -1.0
	for i := len(rates) - 1; i >= 0; i-- {
		university := model.UniversityStats{AcceptanceRate: rates[i], GPA75: 3.5, SAT75: 1300}
		result := Score(student, university, ModeStrict)

		var selectivity float64
		for _, factor := range result.Factors {
			if factor.Name == "Selectivity" {
				selectivity = factor.Score
			}
		}
		assert.GreaterOrEqual(t, selectivity, previous,
			"selectivity sub-score must not decrease as acceptance rate rises (rate %.0f)", rates[i])
		previous = selectivity
	}
}

func categoryRank(c model.FitCategory) int {
	switch c {
	case model.FitSafety:
		return 3
	case model.FitTarget:
		return 2
	case model.FitReach:
		return 1
	default:
		return 0
	}
}

func TestFairCeilingRelaxesMonotonically(t *testing.T) {
	student := strongStudent()
	previous := -1

	for rate := 5.0; rate <= 50; rate++ {
		university := model.UniversityStats{AcceptanceRate: rate, GPA75: 3.6, SAT75: 1350}
		result := Score(student, university, ModeFair)
		rank := categoryRank(result.Category)

		assert.GreaterOrEqual(t, rank, previous,
			"achievable category must never worsen as acceptance rate rises (rate %.0f)", rate)
		previous = rank
	}
}

func TestFairTestOptionalInference(t *testing.T) {
	university := model.UniversityStats{AcceptanceRate: 40, GPA75: 3.7, SAT75: 1400}

	tests := []struct {
		name        string
		student     model.StudentProfile
		wantTesting float64
	}{
		{
			name:        "strong gpa infers strong testing",
			student:     model.StudentProfile{GPA: 3.9, TestOptional: true},
			wantTesting: 22,
		},
		{
			name:        "weak gpa infers weak testing",
			student:     model.StudentProfile{GPA: 3.0, TestOptional: true},
			wantTesting: 15,
		},
		{
			name:        "submitted score wins over inference",
			student:     model.StudentProfile{GPA: 3.9, TestScore: 1450},
			wantTesting: 25,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Score(tt.student, university, ModeFair)
			var testing float64
			for _, factor := range result.Factors {
				if factor.Name == "Testing" {
					testing = factor.Score
				}
			}
			assert.Equal(t, tt.wantTesting, testing)
		})
	}
}

func TestStrictTestOptionalCap(t *testing.T) {
	university := model.UniversityStats{AcceptanceRate: 40, GPA75: 3.7, SAT75: 1400}
	student := model.StudentProfile{GPA: 3.9, TestScore: 1600, TestOptional: true}

	result := Score(student, university, ModeStrict)
	for _, factor := range result.Factors {
		if factor.Name == "Testing" {
			assert.Equal(t, 15.0, factor.Score, "test-optional caps testing at 15 in strict mode")
		}
	}
}

func TestFairCeilingCapsCategory(t *testing.T) {
	tests := []struct {
		name string
		rate float64
		want model.FitCategory
	}{
		{name: "below ten caps to reach", rate: 8, want: model.FitReach},
		{name: "below twentyfive caps safety to target", rate: 20, want: model.FitTarget},
		{name: "open admission keeps safety", rate: 60, want: model.FitSafety},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Strong enough to score a safety on points everywhere.
			university := model.UniversityStats{AcceptanceRate: tt.rate, GPA75: 3.2, SAT75: 1200}
			result := Score(strongStudent(), university, ModeFair)
			assert.Equal(t, tt.want, result.Category)
		})
	}
}

func TestAnalyzeProducesStoredAnalysis(t *testing.T) {
	university := model.UniversityStats{
		UniversityID:   "duke",
		Name:           "Duke University",
		AcceptanceRate: 6,
		GPA75:          4.0,
		SAT75:          1560,
	}
	student := model.StudentProfile{GPA: 3.6, TestScore: 1300, APCount: 3}

	analysis := Analyze(student, university)

	require.NotNil(t, analysis)
	assert.Equal(t, "duke", analysis.UniversityID)
	assert.True(t, analysis.FitCategory.Valid())
	assert.GreaterOrEqual(t, analysis.MatchPercentage, 0.0)
	assert.LessOrEqual(t, analysis.MatchPercentage, 100.0)
	assert.NotEmpty(t, analysis.Explanation)
	assert.NotEmpty(t, analysis.Factors)
	assert.NotEmpty(t, analysis.Recommendations, "a weak profile should get improvement suggestions")
}
