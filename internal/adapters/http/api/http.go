// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/veilcast/veilcast/internal/adapters/repository"
	"github.com/veilcast/veilcast/internal/domain/model"
	"github.com/veilcast/veilcast/internal/domain/reveal"
	"github.com/veilcast/veilcast/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	RecordDependencies
	RevealDependencies
	RankDependencies
	LeaderboardDependencies
}

// Read shapes returned by the handlers.
type (
	// Record mirrors the stored-record read shape.
	Record = types.Record
	// Entry mirrors a leaderboard row.
	Entry = types.Entry
	// Ranking mirrors a rank/percentile query result.
	Ranking = types.Ranking
)

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	recordsHandler     *RecordsHandler
	revealHandler      *RevealHandler
	rankHandler        *RankHandler
	leaderboardHandler *LeaderboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		recordsHandler:     NewRecordsHandler(deps),
		revealHandler:      NewRevealHandler(deps),
		rankHandler:        NewRankHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLimit),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/records", MetricsMiddleware(s.recordsHandler.HandleRecords, "records"))
	mux.HandleFunc("/records/", MetricsMiddleware(s.handleRecordSubroutes, "records"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/rank/", MetricsMiddleware(s.rankHandler.HandleGetRank, "rank"))
	mux.HandleFunc("/percentile/", MetricsMiddleware(s.rankHandler.HandleGetPercentile, "percentile"))
}

// handleRecordSubroutes dispatches /records/{id}, /records/{id}/reveal, and
// /records/{id}/accuracy.
func (s *Server) handleRecordSubroutes(w http.ResponseWriter, r *http.Request) {
	id, rest, err := recordPath(r.URL.Path)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	switch rest {
	case "":
		s.recordsHandler.HandleGetRecord(w, r, id)
	case "reveal":
		s.revealHandler.HandleReveal(w, r, id)
	case "accuracy":
		s.revealHandler.HandleAccuracy(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

// createRequest mirrors the OpenAPI schema for POST /records.
type createRequest struct {
	// SubmissionID is an optional client-chosen idempotency key; retries
	// carrying the same id are acknowledged without creating a second record.
	SubmissionID     string `json:"submission_id,omitempty"`
	Owner            string `json:"owner"`
	Label            string `json:"label"`
	TargetTime       string `json:"target_time"`
	ValueHandle      string `json:"value_handle"`
	ConfidenceHandle string `json:"confidence_handle"`
}

func (c createRequest) parse() (targetTime time.Time, handles model.HandlePair, err error) {
	targetTime, err = time.Parse(time.RFC3339, c.TargetTime)
	if err != nil {
		return time.Time{}, model.HandlePair{}, errors.New("invalid target_time; must be RFC3339")
	}
	handles.Value, err = model.ParseHandle(c.ValueHandle)
	if err != nil {
		return time.Time{}, model.HandlePair{}, errors.New("invalid value_handle")
	}
	handles.Confidence, err = model.ParseHandle(c.ConfidenceHandle)
	if err != nil {
		return time.Time{}, model.HandlePair{}, errors.New("invalid confidence_handle")
	}
	return targetTime, handles, nil
}

// revealRequest mirrors the OpenAPI schema for POST /records/{id}/reveal.
type revealRequest struct {
	ActualValue int64 `json:"actual_value"`
}

// accuracyRequest mirrors the OpenAPI schema for PUT /records/{id}/accuracy.
type accuracyRequest struct {
	Accuracy int64 `json:"accuracy"`
}

type duplicateResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError translates domain errors to HTTP status codes:
// validation failures map to 400, missing records to 404, lifecycle
// violations to 409, everything else to 500.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrValidation), errors.Is(err, repository.ErrInvalidLimit):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, reveal.ErrInvalidState), errors.Is(err, repository.ErrDuplicateEntry):
		writeError(w, http.StatusConflict, "invalid_state", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
