// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/veilcast/veilcast/internal/domain/model"
)

// RecordDependencies defines the interface for record operations.
type RecordDependencies interface {
	CreateRecord(ctx context.Context, owner, label string, targetTime time.Time, handles model.HandlePair) (Record, error)
	Record(ctx context.Context, id uint64) (Record, error)
	RecordsByOwner(ctx context.Context, owner string) ([]Record, error)

	// SeenAndRecord and Unrecord back the optional submission_id
	// idempotency key on create requests.
	SeenAndRecord(ctx context.Context, submissionID string) bool
	Unrecord(ctx context.Context, submissionID string)
}

// RecordsHandler handles record submission and lookup requests.
type RecordsHandler struct {
	deps RecordDependencies
}

// NewRecordsHandler creates a new records handler.
func NewRecordsHandler(deps RecordDependencies) *RecordsHandler {
	return &RecordsHandler{deps: deps}
}

// HandleRecords handles POST /records and GET /records?owner= requests.
func (h *RecordsHandler) HandleRecords(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handleCreate(w, r)
	case http.MethodGet:
		h.handleList(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *RecordsHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("invalid JSON body"))
		return
	}
	targetTime, handles, err := req.parse()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	// Idempotency check first, so a retried request never mints a second
	// record.
	if req.SubmissionID != "" && h.deps.SeenAndRecord(r.Context(), req.SubmissionID) {
		writeJSON(w, http.StatusOK, duplicateResponse{Status: "duplicate", Duplicate: true})
		return
	}

	rec, err := h.deps.CreateRecord(r.Context(), req.Owner, req.Label, targetTime, handles)
	if err != nil {
		if req.SubmissionID != "" {
			// Rollback the "seen" status so the client may retry.
			h.deps.Unrecord(r.Context(), req.SubmissionID)
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h *RecordsHandler) handleList(w http.ResponseWriter, r *http.Request) {
	owner := r.URL.Query().Get("owner")
	if owner == "" {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing owner query parameter"))
		return
	}
	records, err := h.deps.RecordsByOwner(r.Context(), owner)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// HandleGetRecord handles GET /records/{id} requests.
func (h *RecordsHandler) HandleGetRecord(w http.ResponseWriter, r *http.Request, id uint64) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	rec, err := h.deps.Record(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// recordPath splits /records/{id}[/rest] into the numeric id and the
// remaining subpath.
func recordPath(path string) (uint64, string, error) {
	trimmed := strings.TrimPrefix(path, "/records/")
	idStr, rest, _ := strings.Cut(trimmed, "/")
	if idStr == "" {
		return 0, "", errors.New("missing record id")
	}
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		return 0, "", errors.New("record id must be a non-negative integer")
	}
	return id, rest, nil
}
