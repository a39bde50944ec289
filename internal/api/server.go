// Package api exposes the guidance engine over HTTP with JSON bodies,
// structured request logging, and prometheus instrumentation.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/launchpad-edu/launchpad/internal/engine"
	"github.com/launchpad-edu/launchpad/internal/fit"
	"github.com/launchpad-edu/launchpad/internal/model"
	"github.com/launchpad-edu/launchpad/internal/service"
)

// Server routes HTTP requests to the engine and storage.
type Server struct {
	engine  *engine.Engine
	storage service.Storage
}

// NewServer creates an API server over the given engine and storage.
func NewServer(eng *engine.Engine, storage service.Storage) *Server {
	return &Server{engine: eng, storage: storage}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	route := func(pattern string, handler http.HandlerFunc) {
		mux.Handle(pattern, instrument(pattern, handler))
	}

	route("GET /v1/colleges", s.handleListColleges)
	route("POST /v1/colleges", s.handleAddCollege)
	route("DELETE /v1/colleges/{universityID}", s.handleRemoveCollege)
	route("POST /v1/colleges/bulk-remove", s.handleBulkRemove)
	route("GET /v1/colleges/balanced", s.handleBalancedList)
	route("GET /v1/fits", s.handleFitsByCategory)
	route("POST /v1/fit/compute", s.handleComputeFit)
	route("POST /v1/fit/simulate", s.handleSimulateFit)
	route("POST /v1/recommendations", s.handleRecommend)
	route("PUT /v1/profile", s.handleSaveProfile)
	route("GET /v1/profile", s.handleGetProfile)
	route("GET /v1/sessions/{sessionID}", s.handleGetSession)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	return mux
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func decodeJSON(r *http.Request, into any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(into)
}

// profileID pulls the required profile_id query parameter.
func profileID(r *http.Request) (string, bool) {
	id := r.URL.Query().Get("profile_id")
	return id, id != ""
}

func (s *Server) handleListColleges(w http.ResponseWriter, r *http.Request) {
	id, ok := profileID(r)
	if !ok {
		badRequest(w, "profile_id is required")
		return
	}

	entries, err := s.engine.LoadList(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"colleges": entries})
}

type addCollegeRequest struct {
	ProfileID       string `json:"profile_id"`
	UniversityID    string `json:"university_id"`
	UniversityName  string `json:"university_name"`
	Location        string `json:"location"`
	SoftFitCategory string `json:"soft_fit_category"`
}

func (s *Server) handleAddCollege(w http.ResponseWriter, r *http.Request) {
	var req addCollegeRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}
	if req.ProfileID == "" || req.UniversityID == "" || req.UniversityName == "" {
		badRequest(w, "profile_id, university_id, and university_name are required")
		return
	}

	entry := model.CollegeEntry{
		UniversityID:   req.UniversityID,
		UniversityName: req.UniversityName,
		Location:       req.Location,
	}
	if req.SoftFitCategory != "" {
		entry.SoftFitCategory = model.ParseFitCategory(req.SoftFitCategory)
	}

	if err := s.engine.AddCollege(r.Context(), req.ProfileID, entry); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"university_id":  req.UniversityID,
		"compute_status": string(model.FitPending),
	})
}

func (s *Server) handleRemoveCollege(w http.ResponseWriter, r *http.Request) {
	id, ok := profileID(r)
	if !ok {
		badRequest(w, "profile_id is required")
		return
	}
	universityID := r.PathValue("universityID")

	if err := s.storage.RemoveCollege(r.Context(), id, universityID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type bulkRemoveRequest struct {
	ProfileID     string   `json:"profile_id"`
	UniversityIDs []string `json:"university_ids"`
}

func (s *Server) handleBulkRemove(w http.ResponseWriter, r *http.Request) {
	var req bulkRemoveRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}
	if req.ProfileID == "" {
		badRequest(w, "profile_id is required")
		return
	}

	removed, err := s.storage.BulkRemoveColleges(r.Context(), req.ProfileID, req.UniversityIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
}

func (s *Server) handleBalancedList(w http.ResponseWriter, r *http.Request) {
	id, ok := profileID(r)
	if !ok {
		badRequest(w, "profile_id is required")
		return
	}

	per := 0
	if raw := r.URL.Query().Get("per"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			badRequest(w, "per must be a positive integer")
			return
		}
		per = parsed
	}

	entries, err := s.engine.BalancedListN(r.Context(), id, per)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"colleges": entries})
}

func (s *Server) handleFitsByCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := profileID(r)
	if !ok {
		badRequest(w, "profile_id is required")
		return
	}
	raw := r.URL.Query().Get("category")
	if raw == "" {
		badRequest(w, "category is required")
		return
	}
	category := model.ParseFitCategory(raw)

	fits, err := s.storage.GetFitsByCategory(r.Context(), id, category)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"fits": fits})
}

type computeFitRequest struct {
	ProfileID    string `json:"profile_id"`
	UniversityID string `json:"university_id"`
}

func (s *Server) handleComputeFit(w http.ResponseWriter, r *http.Request) {
	var req computeFitRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}
	if req.ProfileID == "" || req.UniversityID == "" {
		badRequest(w, "profile_id and university_id are required")
		return
	}

	analysis, err := s.engine.ComputeFit(r.Context(), req.ProfileID, req.UniversityID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

type simulateFitRequest struct {
	Profile    model.StudentProfile  `json:"profile"`
	University model.UniversityStats `json:"university"`
	Mode       string                `json:"mode"`
}

type simulateFitResponse struct {
	Mode     string            `json:"mode"`
	Category model.FitCategory `json:"category"`
	Score    float64           `json:"score"`
	MaxScore float64           `json:"max_score"`
	Percent  float64           `json:"percent"`
	Factors  []model.FitFactor `json:"factors"`
}

// handleSimulateFit scores a hypothetical profile/university pair without
// touching storage. Both modes are accepted; the default is fair.
func (s *Server) handleSimulateFit(w http.ResponseWriter, r *http.Request) {
	var req simulateFitRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}

	mode := fit.ModeFair
	switch req.Mode {
	case "", string(fit.ModeFair):
	case string(fit.ModeStrict):
		mode = fit.ModeStrict
	default:
		badRequest(w, "mode must be \"fair\" or \"strict\"")
		return
	}

	result := fit.Score(req.Profile, req.University, mode)
	writeJSON(w, http.StatusOK, simulateFitResponse{
		Mode:     string(mode),
		Category: result.Category,
		Score:    result.Score,
		MaxScore: result.MaxScore,
		Percent:  result.Percent,
		Factors:  result.Factors,
	})
}

type recommendRequest struct {
	ProfileID string `json:"profile_id"`
	Count     int    `json:"count"`
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}
	if req.ProfileID == "" {
		badRequest(w, "profile_id is required")
		return
	}

	result, err := s.engine.Recommend(r.Context(), req.ProfileID, req.Count)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"session_id":      result.SessionID,
		"recommendations": result.Recommendations,
	})
}

func (s *Server) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	var profile model.StudentProfile
	if err := decodeJSON(r, &profile); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}
	if profile.ID == "" || profile.Email == "" {
		badRequest(w, "id and email are required")
		return
	}

	if err := s.storage.SaveProfile(r.Context(), &profile); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := profileID(r)
	if !ok {
		badRequest(w, "profile_id is required")
		return
	}

	profile, err := s.storage.GetProfile(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.storage.GetSession(r.Context(), r.PathValue("sessionID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}
