package llm

import (
	"testing"

	"github.com/launchpad-edu/launchpad/internal/model"
)

func TestParseRecommendationsPipeFormat(t *testing.T) {
	input := "SCHOOL: Duke University | LOCATION: Durham, NC | FIT: TARGET | REASON: Strong fit"

	recs := ParseRecommendations(input)
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}

	rec := recs[0]
	if rec.Name != "Duke University" {
		t.Errorf("name = %q", rec.Name)
	}
	if rec.Location != "Durham, NC" {
		t.Errorf("location = %q", rec.Location)
	}
	if rec.FitCategory != model.FitTarget {
		t.Errorf("fit_category = %q", rec.FitCategory)
	}
	if rec.Reason != "Strong fit" {
		t.Errorf("reason = %q", rec.Reason)
	}
}

func TestParseRecommendationsPipeDefaults(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantLocation string
		wantCategory model.FitCategory
		wantReason   string
	}{
		{
			name:         "missing location and reason",
			input:        "SCHOOL: Rice University | FIT: REACH",
			wantLocation: "Unknown",
			wantCategory: model.FitReach,
			wantReason:   "Recommended for your profile",
		},
		{
			name:         "missing fit defaults to target",
			input:        "SCHOOL: Tulane University | LOCATION: New Orleans, LA | REASON: Merit aid",
			wantLocation: "New Orleans, LA",
			wantCategory: model.FitTarget,
			wantReason:   "Merit aid",
		},
		{
			name:         "unrecognized fit defaults to target",
			input:        "SCHOOL: Emory University | FIT: LIKELY | REASON: Good match",
			wantLocation: "Unknown",
			wantCategory: model.FitTarget,
			wantReason:   "Good match",
		},
		{
			name:         "lowercase super-reach normalized",
			input:        "SCHOOL: Stanford University | FIT: super-reach | REASON: Very selective",
			wantLocation: "Unknown",
			wantCategory: model.FitSuperReach,
			wantReason:   "Very selective",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := ParseRecommendations(tt.input)
			if len(recs) != 1 {
				t.Fatalf("got %d records, want 1", len(recs))
			}
			if recs[0].Location != tt.wantLocation {
				t.Errorf("location = %q, want %q", recs[0].Location, tt.wantLocation)
			}
			if recs[0].FitCategory != tt.wantCategory {
				t.Errorf("category = %q, want %q", recs[0].FitCategory, tt.wantCategory)
			}
			if recs[0].Reason != tt.wantReason {
				t.Errorf("reason = %q, want %q", recs[0].Reason, tt.wantReason)
			}
		})
	}
}

func TestParseRecommendationsCategoryAlwaysEnumerated(t *testing.T) {
	input := `SCHOOL: A College | FIT: MAYBE | REASON: x
SCHOOL: B University | FIT: | REASON: y
SCHOOL: C Institute | FIT: reach | REASON: z`

	for _, rec := range ParseRecommendations(input) {
		if !rec.FitCategory.Valid() {
			t.Errorf("non-enumerated category %q for %q", rec.FitCategory, rec.Name)
		}
	}
}

func TestParseRecommendationsJSONFormat(t *testing.T) {
	input := `Here are my picks:
[
  {"name": "Duke University", "location": "Durham, NC", "fit_category": "TARGET", "reason": "Strong fit"},
  {"name": "Caltech", "location": "Pasadena, CA", "fit_category": "SUPER_REACH", "reason": "Very selective"}
]`

	recs := ParseRecommendations(input)
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if recs[0].Name != "Duke University" || recs[0].FitCategory != model.FitTarget {
		t.Errorf("first record = %+v", recs[0])
	}
	if recs[1].Name != "Caltech" || recs[1].FitCategory != model.FitSuperReach {
		t.Errorf("second record = %+v", recs[1])
	}
}

func TestParseRecommendationsNumberedList(t *testing.T) {
	input := `1. Duke University - a solid target for your profile
2. University of Michigan - safety given your stats
3. Georgia Institute of Technology (reach)
- Rice University, super reach but worth a shot`

	recs := ParseRecommendations(input)
	if len(recs) != 4 {
		t.Fatalf("got %d records, want 4: %+v", len(recs), recs)
	}

	want := []struct {
		name     string
		category model.FitCategory
	}{
		{"Duke University", model.FitTarget},
		{"University of Michigan", model.FitSafety},
		{"Georgia Institute of Technology", model.FitReach},
		{"Rice University", model.FitSuperReach},
	}
	for i, w := range want {
		if recs[i].Name != w.name {
			t.Errorf("rec[%d].Name = %q, want %q", i, recs[i].Name, w.name)
		}
		if recs[i].FitCategory != w.category {
			t.Errorf("rec[%d].FitCategory = %q, want %q", i, recs[i].FitCategory, w.category)
		}
	}
}

func TestParseRecommendationsSafetyBeatsReachOnSameLine(t *testing.T) {
	// "safety" is checked before "reach", so a line containing both
	// resolves to SAFETY.
	input := "1. Ohio State University - a safety, not a reach for you"

	recs := ParseRecommendations(input)
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	if recs[0].FitCategory != model.FitSafety {
		t.Errorf("category = %q, want SAFETY", recs[0].FitCategory)
	}
}

func TestParseRecommendationsBareNames(t *testing.T) {
	input := `Boston College
Stanford, a huge reach
MIT would round out your list`

	recs := ParseRecommendations(input)
	if len(recs) != 3 {
		t.Fatalf("got %d records, want 3: %+v", len(recs), recs)
	}
	if recs[0].Name != "Boston College" {
		t.Errorf("rec[0].Name = %q", recs[0].Name)
	}
	if recs[1].Name != "Stanford" || recs[1].FitCategory != model.FitReach {
		t.Errorf("rec[1] = %+v", recs[1])
	}
	if recs[2].Name != "MIT" {
		t.Errorf("rec[2].Name = %q", recs[2].Name)
	}
}

func TestParseRecommendationsExcludesSentenceFragmentsAndHeaders(t *testing.T) {
	inputs := []string{
		"Safety Schools",
		"Safety Schools:",
		"Reach Schools:",
		"Super Reach Schools",
		"The University has a great campus",
		"is a strong school for engineering",
		"This College is well regarded",
	}

	for _, input := range inputs {
		if recs := ParseRecommendations(input); len(recs) != 0 {
			t.Errorf("input %q produced %d records, want 0: %+v", input, len(recs), recs)
		}
	}
}

func TestParseRecommendationsEmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\n\t\n"} {
		recs := ParseRecommendations(input)
		if recs == nil {
			t.Errorf("input %q: got nil, want empty slice", input)
		}
		if len(recs) != 0 {
			t.Errorf("input %q: got %d records, want 0", input, len(recs))
		}
	}
}

func TestParseRecommendationsDedupe(t *testing.T) {
	input := `SCHOOL: Duke University | FIT: TARGET | REASON: first
SCHOOL: duke   university | FIT: REACH | REASON: duplicate
SCHOOL: Rice University | FIT: SAFETY | REASON: kept`

	recs := ParseRecommendations(input)
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2: %+v", len(recs), recs)
	}

	// First occurrence wins, in line order.
	if recs[0].Name != "Duke University" || recs[0].Reason != "first" {
		t.Errorf("rec[0] = %+v", recs[0])
	}
	if recs[1].Name != "Rice University" {
		t.Errorf("rec[1] = %+v", recs[1])
	}
}

func TestParseRecommendationsIdempotent(t *testing.T) {
	input := `1. Duke University - target
2. University of Michigan - safety
SCHOOL: Rice University | FIT: REACH | REASON: stretch`

	first := ParseRecommendations(input)
	second := ParseRecommendations(input)

	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("record %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestParseRecommendationsNeverPanics(t *testing.T) {
	inputs := []string{
		"SCHOOL: | LOCATION: | FIT: | REASON:",
		"[not json",
		"[]",
		"[{\"name\": \"\"}]",
		"1.",
		"- - - -",
		"||||||",
		"SCHOOL: X\nSCHOOL: X\nSCHOOL: X",
	}

	for _, input := range inputs {
		recs := ParseRecommendations(input)
		if recs == nil {
			t.Errorf("input %q returned nil", input)
		}
	}
}
