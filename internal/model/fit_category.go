// Package model defines the core domain models used throughout the application.
package model

import "strings"

// FitCategory ranks a university's admission difficulty relative to a
// student's profile.
type FitCategory string

// Fit category constants, ordered from easiest to hardest admit.
const (
	FitSafety     FitCategory = "SAFETY"
	FitTarget     FitCategory = "TARGET"
	FitReach      FitCategory = "REACH"
	FitSuperReach FitCategory = "SUPER_REACH"
)

// AllFitCategories lists the valid categories in display order.
var AllFitCategories = []FitCategory{FitSafety, FitTarget, FitReach, FitSuperReach}

// ParseFitCategory normalizes a free-form category string. Unrecognized or
// empty input falls back to TARGET, which is what downstream consumers expect
// when an LLM omits or mangles the category field.
func ParseFitCategory(s string) FitCategory {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	normalized = strings.ReplaceAll(normalized, " ", "_")
	normalized = strings.ReplaceAll(normalized, "-", "_")

	switch FitCategory(normalized) {
	case FitSafety, FitTarget, FitReach, FitSuperReach:
		return FitCategory(normalized)
	default:
		return FitTarget
	}
}

// Valid reports whether the category is one of the four enumerated values.
func (c FitCategory) Valid() bool {
	switch c {
	case FitSafety, FitTarget, FitReach, FitSuperReach:
		return true
	}
	return false
}

// String returns the wire representation of the category.
func (c FitCategory) String() string {
	return string(c)
}

// DisplayName returns a human-readable form ("Super Reach" for SUPER_REACH).
func (c FitCategory) DisplayName() string {
	switch c {
	case FitSafety:
		return "Safety"
	case FitTarget:
		return "Target"
	case FitReach:
		return "Reach"
	case FitSuperReach:
		return "Super Reach"
	default:
		return string(c)
	}
}
