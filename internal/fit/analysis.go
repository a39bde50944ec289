package fit

import (
	"fmt"
	"math"
	"time"

	"github.com/launchpad-edu/launchpad/internal/model"
)

// Analyze runs the live (Fair) scorer and packages the result as a stored
// fit analysis, including per-factor breakdown and improvement suggestions.
func Analyze(student model.StudentProfile, university model.UniversityStats) *model.FitAnalysis {
	result := Score(student, university, ModeFair)

	return &model.FitAnalysis{
		UniversityID:    university.UniversityID,
		FitCategory:     result.Category,
		MatchPercentage: math.Round(result.Percent),
		Explanation:     explain(result, university),
		Factors:         result.Factors,
		Recommendations: advise(result, student),
		ComputedAt:      time.Now().UTC(),
	}
}

func explain(result Result, university model.UniversityStats) string {
	name := university.Name
	if name == "" {
		name = "this school"
	}
	return fmt.Sprintf("Your profile scores %.0f of %.0f (%.0f%%) against %s, which has a %.0f%% acceptance rate. That places it in your %s band.",
		result.Score, result.MaxScore, result.Percent, name,
		university.AcceptanceRate, result.Category.DisplayName())
}

// advise turns weak factors into concrete suggestions.
func advise(result Result, student model.StudentProfile) []string {
	var suggestions []string
	for _, factor := range result.Factors {
		if factor.Max == 0 || factor.Score/factor.Max >= 0.7 {
			continue
		}
		switch factor.Name {
		case "GPA":
			suggestions = append(suggestions, "Your GPA trails this school's admitted-student profile; an upward grade trend in senior year helps.")
		case "Testing":
			if !student.TestOptional {
				suggestions = append(suggestions, "Retaking the SAT/ACT could move your testing score into this school's middle 50%.")
			}
		case "Rigor":
			suggestions = append(suggestions, "Adding AP or other advanced coursework would strengthen your academic rigor.")
		case "Activities":
			suggestions = append(suggestions, "A leadership role in an activity you already do would round out your application.")
		}
	}
	return suggestions
}
