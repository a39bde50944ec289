package model

import "time"

// StudentProfile holds the academic stats used for fit scoring.
type StudentProfile struct {
	UpdatedAt    time.Time `json:"updated_at"`
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	GPA          float64   `json:"gpa"`
	TestScore    int       `json:"test_score"`
	APCount      int       `json:"ap_count"`
	Leadership   bool      `json:"leadership"`
	TestOptional bool      `json:"test_optional"`
}

// UniversityStats are the institutional numbers fit scoring compares against.
// AcceptanceRate is a percentage in [0, 100]; GPA75 and SAT75 are the
// 75th-percentile admitted-student figures.
type UniversityStats struct {
	UniversityID   string  `json:"university_id"`
	Name           string  `json:"name"`
	AcceptanceRate float64 `json:"acceptance_rate"`
	GPA75          float64 `json:"gpa_75"`
	SAT75          int     `json:"sat_75"`
}
