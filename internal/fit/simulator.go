// Package fit implements the two-mode fit scorer that maps a student profile
// and university stats to a numeric match score and a four-way category.
//
// The two modes encode different philosophies for folding institutional
// selectivity into a personal-fit score: Strict folds selectivity into the
// numerator as a scored factor, Fair leaves the score alone and applies
// selectivity as a post-hoc ceiling on the achievable category. Fair is the
// mode used on the live fit-computation path; Strict is kept for the
// explorer's side-by-side comparison.
package fit

import (
	"math"

	"github.com/launchpad-edu/launchpad/internal/model"
)

// Mode selects the scoring algorithm.
type Mode string

// Scoring modes.
const (
	ModeFair   Mode = "fair"
	ModeStrict Mode = "strict"
)

// Maximum scores per mode.
const (
	MaxScoreFair   = 100.0
	MaxScoreStrict = 150.0
)

// Category thresholds, in percent of the mode's max score. Product-tuning
// constants, reproduced as shipped; they carry no derivation.
const (
	strictSafetyPct = 60.0
	strictTargetPct = 50.0
	strictReachPct  = 35.0

	fairSafetyPct = 85.0
	fairTargetPct = 70.0
	fairReachPct  = 50.0
)

// Acceptance-rate guard rails, in percent.
const (
	strictForceSuperReachBelow = 7.0
	strictDemoteSafetyBelow    = 15.0

	fairCapToReachBelow  = 10.0
	fairCapToTargetBelow = 25.0
)

// Result is the outcome of one scoring run.
type Result struct {
	Category model.FitCategory
	Factors  []model.FitFactor
	Score    float64
	MaxScore float64
	Percent  float64
}

// Score computes the match score and category for the given mode.
func Score(student model.StudentProfile, university model.UniversityStats, mode Mode) Result {
	if mode == ModeStrict {
		return scoreStrict(student, university)
	}
	return scoreFair(student, university)
}

// gpaTier returns the GPA factor score against a full-credit threshold.
// Tiers step down at the threshold, threshold-0.2, and threshold-0.5.
func gpaTier(gpa, fullAt, gpa75 float64, floor float64) float64 {
	switch {
	case gpa >= fullAt:
		return 40
	case gpa >= gpa75:
		return 35
	case gpa >= gpa75-0.2:
		return 28
	case gpa >= gpa75-0.5:
		return 20
	default:
		return floor
	}
}

// testingLadder scores a test result against the university's 75th
// percentile, max 25.
func testingLadder(testScore, sat75 int) float64 {
	switch {
	case testScore >= sat75:
		return 25
	case testScore >= sat75-50:
		return 20
	case testScore >= sat75-100:
		return 15
	case testScore >= sat75-200:
		return 10
	default:
		return 5
	}
}

// selectivityStep folds acceptance rate into the Strict numerator: the more
// selective the school, the less this factor contributes. Non-decreasing in
// acceptance rate, max 25.
func selectivityStep(acceptanceRate float64) float64 {
	switch {
	case acceptanceRate >= 50:
		return 25
	case acceptanceRate >= 30:
		return 20
	case acceptanceRate >= 20:
		return 15
	case acceptanceRate >= 15:
		return 12
	case acceptanceRate >= 10:
		return 8
	case acceptanceRate >= 5:
		return 5
	default:
		return 2
	}
}

func scoreStrict(student model.StudentProfile, university model.UniversityStats) Result {
	// Full GPA credit requires a 0.1 buffer above the 75th percentile.
	gpa := gpaTier(student.GPA, university.GPA75+0.1, university.GPA75, 10)

	testing := testingLadder(student.TestScore, university.SAT75)
	if student.TestOptional && testing > 15 {
		testing = 15
	}

	selectivity := selectivityStep(university.AcceptanceRate)
	rigor := math.Min(20, float64(student.APCount)*1.2)

	activities := 0.0
	if student.Leadership {
		activities = 15
	}

	// Major fit is assumed perfect pending intended-major data.
	major := 15.0

	factors := []model.FitFactor{
		{Name: "GPA", Score: gpa, Max: 40},
		{Name: "Testing", Score: testing, Max: 25},
		{Name: "Selectivity", Score: selectivity, Max: 25},
		{Name: "Rigor", Score: rigor, Max: 20},
		{Name: "Activities", Score: activities, Max: 15},
		{Name: "Major", Score: major, Max: 15},
	}

	score := gpa + testing + selectivity + rigor + activities + major
	pct := score / MaxScoreStrict * 100

	var category model.FitCategory
	switch {
	case pct >= strictSafetyPct:
		category = model.FitSafety
	case pct >= strictTargetPct:
		category = model.FitTarget
	case pct >= strictReachPct:
		category = model.FitReach
	default:
		category = model.FitSuperReach
	}

	// Guard rails: single-digit acceptance rates are never safeties,
	// and below 7% nothing beats a super reach.
	if university.AcceptanceRate < strictForceSuperReachBelow {
		category = model.FitSuperReach
	} else if university.AcceptanceRate < strictDemoteSafetyBelow && category == model.FitSafety {
		category = model.FitReach
	}

	return Result{
		Score:    score,
		MaxScore: MaxScoreStrict,
		Percent:  pct,
		Category: category,
		Factors:  factors,
	}
}

func scoreFair(student model.StudentProfile, university model.UniversityStats) Result {
	// No buffer: meeting the 75th percentile exactly earns full credit.
	gpa := gpaTier(student.GPA, university.GPA75, university.GPA75, 15)

	var testing float64
	if student.TestOptional {
		// Infer testing strength from GPA rather than punishing the
		// test-optional applicant.
		if gpa >= 35 {
			testing = 22
		} else {
			testing = 15
		}
	} else {
		testing = testingLadder(student.TestScore, university.SAT75)
	}

	rigor := math.Min(15, float64(student.APCount)*2.5)

	activities := 0.0
	if student.Leadership {
		activities = 20
	}

	factors := []model.FitFactor{
		{Name: "GPA", Score: gpa, Max: 40},
		{Name: "Testing", Score: testing, Max: 25},
		{Name: "Rigor", Score: rigor, Max: 15},
		{Name: "Activities", Score: activities, Max: 20},
	}

	score := gpa + testing + rigor + activities
	pct := score / MaxScoreFair * 100

	var category model.FitCategory
	switch {
	case pct >= fairSafetyPct:
		category = model.FitSafety
	case pct >= fairTargetPct:
		category = model.FitTarget
	case pct >= fairReachPct:
		category = model.FitReach
	default:
		category = model.FitSuperReach
	}

	// Selectivity never reduces the score here; it only narrows the
	// achievable category.
	category = applyFairCeiling(category, university.AcceptanceRate)

	return Result{
		Score:    score,
		MaxScore: MaxScoreFair,
		Percent:  pct,
		Category: category,
		Factors:  factors,
	}
}

// applyFairCeiling caps the category for highly selective schools.
func applyFairCeiling(category model.FitCategory, acceptanceRate float64) model.FitCategory {
	if acceptanceRate < fairCapToReachBelow {
		if category == model.FitSafety || category == model.FitTarget {
			return model.FitReach
		}
		return category
	}
	if acceptanceRate < fairCapToTargetBelow && category == model.FitSafety {
		return model.FitTarget
	}
	return category
}
