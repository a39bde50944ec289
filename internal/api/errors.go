package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/launchpad-edu/launchpad/internal/common"
)

// Error classes reported in the JSON error envelope. "api_error" covers
// transport and upstream failures, "unparseable" covers LLM replies that
// yielded no recommendations, and "business_rule" covers validation and
// state conflicts.
const (
	classAPIError     = "api_error"
	classUnparseable  = "unparseable"
	classBusinessRule = "business_rule"
)

type errorBody struct {
	Class   string `json:"class"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// writeError maps a domain error onto an HTTP status and error class and
// writes the JSON envelope.
func writeError(w http.ResponseWriter, err error) {
	status, class := classify(err)

	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "class", class, "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorEnvelope{Error: errorBody{
		Class:   class,
		Message: err.Error(),
	}})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrUnparseable),
		errors.Is(err, common.ErrNoRecommendations):
		return http.StatusUnprocessableEntity, classUnparseable
	case errors.Is(err, common.ErrDuplicateEntry):
		return http.StatusConflict, classBusinessRule
	case errors.Is(err, common.ErrListLimit):
		return http.StatusForbidden, classBusinessRule
	case errors.Is(err, common.ErrNotFound),
		errors.Is(err, common.ErrNoProfile):
		return http.StatusNotFound, classBusinessRule
	case errors.Is(err, common.ErrRateLimit):
		return http.StatusTooManyRequests, classAPIError
	case common.IsRetryable(err):
		return http.StatusBadGateway, classAPIError
	default:
		return http.StatusInternalServerError, classAPIError
	}
}

// badRequest writes a 400 with the business_rule class for malformed or
// incomplete input.
func badRequest(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(errorEnvelope{Error: errorBody{
		Class:   classBusinessRule,
		Message: message,
	}})
}
