package cli

import (
	"fmt"
	"strings"

	"github.com/launchpad-edu/launchpad/internal/model"
)

// RenderCollegeList formats a student's list as an aligned table, one row
// per school.
func RenderCollegeList(entries []model.CollegeEntry) string {
	if len(entries) == 0 {
		return SubtleStyle.Render("No colleges on the list yet.")
	}

	var b strings.Builder
	b.WriteString(TableHeaderStyle.Render(fmt.Sprintf("%-40s %-22s %-12s %7s  %s",
		"UNIVERSITY", "LOCATION", "CATEGORY", "MATCH", "STATUS")))
	b.WriteString("\n")

	for _, entry := range entries {
		category := entry.EffectiveCategory()
		match := "-"
		if entry.FitAnalysis != nil {
			match = fmt.Sprintf("%.0f%%", entry.FitAnalysis.MatchPercentage)
		}
		b.WriteString(fmt.Sprintf("%-40s %-22s %s %7s  %s\n",
			truncate(entry.UniversityName, 40),
			truncate(entry.Location, 22),
			CategoryStyle(string(category)).Render(fmt.Sprintf("%-12s", category)),
			match,
			strings.ToLower(string(entry.ComputeStatus))))
	}

	return b.String()
}

// RenderRecommendations formats a recommendation batch, grouped in the
// order returned.
func RenderRecommendations(recs []model.Recommendation) string {
	if len(recs) == 0 {
		return SubtleStyle.Render("No recommendations.")
	}

	var b strings.Builder
	for i, rec := range recs {
		header := fmt.Sprintf("%d. %s", i+1, rec.Name)
		if rec.Location != "" {
			header += SubtleStyle.Render(" — " + rec.Location)
		}
		b.WriteString(header)
		b.WriteString("\n")

		line := "   " + CategoryStyle(string(rec.FitCategory)).Render(rec.FitCategory.DisplayName())
		if rec.MatchScore > 0 {
			line += SubtleStyle.Render(fmt.Sprintf(" (%.0f%% match)", rec.MatchScore))
		}
		b.WriteString(line)
		b.WriteString("\n")

		if rec.Reason != "" {
			b.WriteString("   " + rec.Reason + "\n")
		}
	}

	return b.String()
}

// RenderFitAnalysis formats a single computed fit breakdown.
func RenderFitAnalysis(name string, analysis *model.FitAnalysis) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(name))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s  %.0f%% match\n",
		CategoryStyle(string(analysis.FitCategory)).Render(analysis.FitCategory.DisplayName()),
		analysis.MatchPercentage))

	if analysis.Explanation != "" {
		b.WriteString(analysis.Explanation + "\n")
	}

	for _, factor := range analysis.Factors {
		b.WriteString(fmt.Sprintf("  %-14s %5.1f / %.0f", factor.Name, factor.Score, factor.Max))
		if factor.Detail != "" {
			b.WriteString(SubtleStyle.Render("  " + factor.Detail))
		}
		b.WriteString("\n")
	}

	for _, advice := range analysis.Recommendations {
		b.WriteString(WarningStyle.Render("  → " + advice))
		b.WriteString("\n")
	}

	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
