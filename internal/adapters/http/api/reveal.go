// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
)

// RevealDependencies defines the interface for reveal operations.
type RevealDependencies interface {
	Reveal(ctx context.Context, id uint64, actualValue int64) (Entry, error)
	UpdateAccuracy(ctx context.Context, id uint64, accuracy int64) (Entry, error)
}

// RevealHandler handles reveal and accuracy-correction requests.
type RevealHandler struct {
	deps RevealDependencies
}

// NewRevealHandler creates a new reveal handler.
func NewRevealHandler(deps RevealDependencies) *RevealHandler {
	return &RevealHandler{deps: deps}
}

// HandleReveal handles POST /records/{id}/reveal requests.
func (h *RevealHandler) HandleReveal(w http.ResponseWriter, r *http.Request, id uint64) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req revealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("invalid JSON body"))
		return
	}
	entry, err := h.deps.Reveal(r.Context(), id, req.ActualValue)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// HandleAccuracy handles PUT /records/{id}/accuracy requests.
func (h *RevealHandler) HandleAccuracy(w http.ResponseWriter, r *http.Request, id uint64) {
	if r.Method != http.MethodPut {
		http.NotFound(w, r)
		return
	}
	var req accuracyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("invalid JSON body"))
		return
	}
	entry, err := h.deps.UpdateAccuracy(r.Context(), id, req.Accuracy)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
