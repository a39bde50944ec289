package llm

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/launchpad-edu/launchpad/internal/model"
)

// Defaults applied when a pipe-delimited line omits a field.
const (
	defaultLocation = "Unknown"
	defaultReason   = "Recommended for your profile"
)

// Line length bounds for the bare-name heuristic.
const (
	bareNameMinLen = 6
	bareNameMaxLen = 79
)

var (
	schoolFieldRe   = regexp.MustCompile(`(?i)SCHOOL:\s*([^|]+)`)
	locationFieldRe = regexp.MustCompile(`(?i)LOCATION:\s*([^|]+)`)
	fitFieldRe      = regexp.MustCompile(`(?i)FIT:\s*([^|]+)`)
	reasonFieldRe   = regexp.MustCompile(`(?i)REASON:\s*(.+)$`)

	categoryTokenRe = regexp.MustCompile(`(?i)\b(SUPER[ _-]?REACH|REACH|TARGET|SAFETY)\b`)

	// Numbered or bulleted list entry: "1. Duke University — ..." or
	// "- Georgia Institute of Technology (target)".
	listPrefixRe  = regexp.MustCompile(`^\s*(?:\d+[.)]\s*|[-*•]\s+)+`)
	institutionRe = regexp.MustCompile(`^((?:[A-Z][A-Za-z&'.\-]*\s+)*(?:University|College|Institute|School)\b(?:\s+(?:of|at)\s+[A-Z][A-Za-z&'.\-]*(?:\s+[A-Z][A-Za-z&'.\-]*)*)?)`)

	// Well-known schools referred to by proper-noun abbreviation rather
	// than an institution-type keyword.
	knownAbbrevRe = regexp.MustCompile(`\b(MIT|UCLA|USC|Caltech|Stanford|Princeton|Harvard|Yale)\b`)

	// Lines that read as sentence fragments, not school names.
	sentenceStartRe = regexp.MustCompile(`(?i)^(?:is|are|has|the|a|an|this)\b`)

	// Bare category headers like "Safety Schools:" introduce a section;
	// they are never schools themselves.
	categoryHeaderRe = regexp.MustCompile(`(?i)^(?:safety|target|reach|super[ -]?reach)\s+schools?:?$`)

	whitespaceRe = regexp.MustCompile(`\s+`)
)

// ParseRecommendations extracts recommendation records from an LLM reply.
//
// The reply is expected to be a JSON array (the format the prompt mandates),
// but replies drift: a structured-JSON pass runs first, then three per-line
// fallback strategies in priority order — pipe-delimited fields, numbered or
// bulleted institution names, and bare capitalized school names. Results are
// de-duplicated by normalized name, first occurrence winning.
//
// The function is total: any input, including the empty string, yields a
// (possibly empty) slice and never an error. Callers treat an empty result
// as an unparseable reply.
func ParseRecommendations(text string) []model.Recommendation {
	if recs := parseJSONRecommendations(text); len(recs) > 0 {
		return dedupeRecommendations(recs)
	}

	var recs []model.Recommendation
	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}

		if rec, ok := parsePipeLine(line); ok {
			recs = append(recs, rec)
			continue
		}
		if rec, ok := parseListLine(line); ok {
			recs = append(recs, rec)
			continue
		}
		if rec, ok := parseBareNameLine(line); ok {
			recs = append(recs, rec)
		}
	}

	return dedupeRecommendations(recs)
}

// jsonRecommendation mirrors the JSON schema the prompt instructs the model
// to emit.
type jsonRecommendation struct {
	Name        string `json:"name"`
	School      string `json:"school"`
	Location    string `json:"location"`
	FitCategory string `json:"fit_category"`
	Fit         string `json:"fit"`
	Reason      string `json:"reason"`
}

// parseJSONRecommendations extracts the first JSON array in the reply and
// validates it against the expected schema.
func parseJSONRecommendations(text string) []model.Recommendation {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return nil
	}

	var raw []jsonRecommendation
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return nil
	}

	var recs []model.Recommendation
	for _, item := range raw {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			name = strings.TrimSpace(item.School)
		}
		if name == "" {
			continue
		}

		location := strings.TrimSpace(item.Location)
		if location == "" {
			location = defaultLocation
		}
		reason := strings.TrimSpace(item.Reason)
		if reason == "" {
			reason = defaultReason
		}
		category := item.FitCategory
		if category == "" {
			category = item.Fit
		}

		recs = append(recs, model.Recommendation{
			Name:        name,
			Location:    location,
			FitCategory: model.ParseFitCategory(category),
			Reason:      reason,
		})
	}
	return recs
}

// parsePipeLine handles "SCHOOL: name | LOCATION: loc | FIT: cat | REASON: text".
func parsePipeLine(line string) (model.Recommendation, bool) {
	schoolMatch := schoolFieldRe.FindStringSubmatch(line)
	if schoolMatch == nil {
		return model.Recommendation{}, false
	}

	name := strings.TrimSpace(schoolMatch[1])
	if name == "" {
		return model.Recommendation{}, false
	}

	location := defaultLocation
	if m := locationFieldRe.FindStringSubmatch(line); m != nil {
		if loc := strings.TrimSpace(m[1]); loc != "" {
			location = loc
		}
	}

	category := model.FitTarget
	if m := fitFieldRe.FindStringSubmatch(line); m != nil {
		if token := categoryTokenRe.FindString(m[1]); token != "" {
			category = model.ParseFitCategory(token)
		}
	}

	reason := defaultReason
	if m := reasonFieldRe.FindStringSubmatch(line); m != nil {
		if r := strings.TrimSpace(m[1]); r != "" {
			reason = r
		}
	}

	return model.Recommendation{
		Name:        name,
		Location:    location,
		FitCategory: category,
		Reason:      reason,
	}, true
}

// parseListLine handles numbered or bulleted entries whose body is a
// capitalized phrase ending in an institution-type keyword.
func parseListLine(line string) (model.Recommendation, bool) {
	prefix := listPrefixRe.FindString(line)
	if prefix == "" {
		return model.Recommendation{}, false
	}

	body := line[len(prefix):]
	if categoryHeaderRe.MatchString(strings.TrimSpace(body)) {
		return model.Recommendation{}, false
	}

	nameMatch := institutionRe.FindStringSubmatch(body)
	if nameMatch == nil {
		return model.Recommendation{}, false
	}

	name := strings.TrimSpace(nameMatch[1])
	return model.Recommendation{
		Name:        name,
		Location:    defaultLocation,
		FitCategory: inferCategory(line),
		Reason:      defaultReason,
	}, true
}

// parseBareNameLine handles lines that are just a school name, including
// well-known abbreviations.
func parseBareNameLine(line string) (model.Recommendation, bool) {
	if len(line) < bareNameMinLen || len(line) > bareNameMaxLen {
		return model.Recommendation{}, false
	}
	if sentenceStartRe.MatchString(line) {
		return model.Recommendation{}, false
	}
	if categoryHeaderRe.MatchString(line) {
		return model.Recommendation{}, false
	}

	var name string
	if m := institutionRe.FindStringSubmatch(line); m != nil {
		name = strings.TrimSpace(m[1])
	} else if m := knownAbbrevRe.FindString(line); m != "" {
		name = m
	} else {
		return model.Recommendation{}, false
	}

	return model.Recommendation{
		Name:        name,
		Location:    defaultLocation,
		FitCategory: inferCategory(line),
		Reason:      defaultReason,
	}, true
}

// inferCategory scans a line for category keywords. Safety is checked first
// so a line mentioning both "reach" and "safety" resolves to SAFETY; super
// reach is checked before reach for the same reason.
func inferCategory(line string) model.FitCategory {
	lower := strings.ToLower(line)
	switch {
	case strings.Contains(lower, "safety"):
		return model.FitSafety
	case strings.Contains(lower, "super reach"), strings.Contains(lower, "super-reach"):
		return model.FitSuperReach
	case strings.Contains(lower, "reach"):
		return model.FitReach
	case strings.Contains(lower, "target"):
		return model.FitTarget
	default:
		return model.FitTarget
	}
}

// normalizeName lower-cases and collapses whitespace for de-duplication.
func normalizeName(name string) string {
	return whitespaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), " ")
}

// dedupeRecommendations keeps the first occurrence of each normalized name,
// preserving input order.
func dedupeRecommendations(recs []model.Recommendation) []model.Recommendation {
	if len(recs) == 0 {
		return []model.Recommendation{}
	}

	seen := make(map[string]struct{}, len(recs))
	out := make([]model.Recommendation, 0, len(recs))
	for _, rec := range recs {
		key := normalizeName(rec.Name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, rec)
	}
	return out
}
