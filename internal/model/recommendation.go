package model

import "time"

// Recommendation is a single university suggestion produced by a
// recommendation session. Records are transient: they live from the parse of
// an LLM reply until the user either adds the school to their list or
// requests a fresh batch.
type Recommendation struct {
	CreatedAt   time.Time   `json:"created_at"`
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Location    string      `json:"location"`
	Reason      string      `json:"reason"`
	FitCategory FitCategory `json:"fit_category"`
	MatchScore  float64     `json:"match_score,omitempty"`
}

// SessionStatus tracks the lifecycle of a recommendation session.
type SessionStatus string

// Session status constants.
const (
	SessionActive   SessionStatus = "ACTIVE"
	SessionComplete SessionStatus = "COMPLETE"
	SessionFailed   SessionStatus = "FAILED"
)

// Session records one LLM recommendation conversation so that follow-up
// requests can replay prior context.
type Session struct {
	StartedAt time.Time     `json:"started_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	ID        string        `json:"id"`
	UserEmail string        `json:"user_email"`
	Status    SessionStatus `json:"status"`
	Turns     []SessionTurn `json:"turns,omitempty"`
}

// SessionTurn is one prompt/response exchange within a session.
type SessionTurn struct {
	CreatedAt time.Time `json:"created_at"`
	Prompt    string    `json:"prompt"`
	Response  string    `json:"response"`
	Parsed    int       `json:"parsed"`
}
