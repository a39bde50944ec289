package llm

import (
	"fmt"
	"strings"

	"github.com/launchpad-edu/launchpad/internal/model"
)

// systemPrompt fixes the assistant's role for recommendation sessions.
const systemPrompt = `You are a college admissions counselor generating university recommendations. Follow the output format instructions exactly. Never ask follow-up questions.`

// BuildRecommendationPrompt assembles the session prompt: the user tag, the
// current list broken down by category, the desired number of additions, and
// the mandated reply format. The parser in this package is written against
// exactly this contract.
func BuildRecommendationPrompt(userEmail string, current []model.CollegeEntry, count int) string {
	if count <= 0 {
		count = 5
	}

	byCategory := make(map[model.FitCategory][]string)
	for _, entry := range current {
		category := entry.EffectiveCategory()
		byCategory[category] = append(byCategory[category], entry.UniversityName)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[USER_EMAIL: %s]\n\n", userEmail)
	b.WriteString("I am building a balanced college list. My current list:\n")

	for _, category := range model.AllFitCategories {
		names := byCategory[category]
		fmt.Fprintf(&b, "- %s (%d): %s\n", category.DisplayName(), len(names), joinOrNone(names))
	}

	fmt.Fprintf(&b, "\nRecommend exactly %d additional universities that are NOT already on my list, chosen to balance it across fit categories.\n\n", count)

	b.WriteString(`Reply with ONLY a JSON array, no surrounding prose. Each element:
{"name": "...", "location": "City, ST", "fit_category": "SAFETY|TARGET|REACH|SUPER_REACH", "reason": "..."}

If you cannot produce JSON, fall back to one line per school in this exact format:
SCHOOL: <name> | LOCATION: <city, state> | FIT: <SAFETY|TARGET|REACH|SUPER_REACH> | REASON: <one sentence>

Do not ask follow-up questions. Do not include any school already on my list.`)

	return b.String()
}

func joinOrNone(names []string) string {
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}
