package model

import "time"

// FitComputeStatus tracks background fit computation for a list entry.
type FitComputeStatus string

// Fit computation status constants.
const (
	FitPending   FitComputeStatus = "PENDING"
	FitComputing FitComputeStatus = "COMPUTING"
	FitReady     FitComputeStatus = "READY"
	FitFailed    FitComputeStatus = "FAILED"
)

// CollegeEntry is one university on a student's list.
//
// SoftFitCategory is the provisional category captured when the school was
// added (usually from the recommendation that produced it). FitAnalysis, once
// computed, is authoritative and overrides it.
type CollegeEntry struct {
	AddedAt         time.Time        `json:"added_at"`
	UniversityID    string           `json:"university_id"`
	UniversityName  string           `json:"university_name"`
	Location        string           `json:"location"`
	SoftFitCategory FitCategory      `json:"soft_fit_category,omitempty"`
	ComputeStatus   FitComputeStatus `json:"compute_status,omitempty"`
	FitAnalysis     *FitAnalysis     `json:"fit_analysis,omitempty"`
}

// EffectiveCategory returns the category a consumer should display:
// the computed analysis when present, the soft category otherwise.
func (e CollegeEntry) EffectiveCategory() FitCategory {
	if e.FitAnalysis != nil {
		return e.FitAnalysis.FitCategory
	}
	if e.SoftFitCategory.Valid() {
		return e.SoftFitCategory
	}
	return FitTarget
}

// FitFactor is one scored dimension of a fit analysis.
type FitFactor struct {
	Name   string  `json:"name"`
	Detail string  `json:"detail"`
	Score  float64 `json:"score"`
	Max    float64 `json:"max"`
}

// FitAnalysis is the computed compatibility breakdown between a student and
// a university.
type FitAnalysis struct {
	ComputedAt      time.Time   `json:"computed_at"`
	UniversityID    string      `json:"university_id"`
	Explanation     string      `json:"explanation"`
	FitCategory     FitCategory `json:"fit_category"`
	Factors         []FitFactor `json:"factors,omitempty"`
	Recommendations []string    `json:"recommendations,omitempty"`
	MatchPercentage float64     `json:"match_percentage"`
}
