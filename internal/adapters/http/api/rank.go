// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
)

// RankDependencies defines the interface for ranking queries.
type RankDependencies interface {
	Rank(ctx context.Context, id uint64) Ranking
}

// RankHandler handles rank and percentile requests.
type RankHandler struct {
	deps RankDependencies
}

// NewRankHandler creates a new rank handler.
func NewRankHandler(deps RankDependencies) *RankHandler {
	return &RankHandler{deps: deps}
}

// HandleGetRank handles GET /rank/{id} requests. Records not on the board
// come back with rank 0 rather than an error.
func (h *RankHandler) HandleGetRank(w http.ResponseWriter, r *http.Request) {
	h.serveRanking(w, r, "/rank/")
}

// HandleGetPercentile handles GET /percentile/{id} requests. The payload is
// the same ranking shape; clients read the percentile field.
func (h *RankHandler) HandleGetPercentile(w http.ResponseWriter, r *http.Request) {
	h.serveRanking(w, r, "/percentile/")
}

func (h *RankHandler) serveRanking(w http.ResponseWriter, r *http.Request, prefix string) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	idStr := strings.TrimPrefix(r.URL.Path, prefix)
	if idStr == "" || strings.Contains(idStr, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("record id must be a non-negative integer"))
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Rank(r.Context(), id))
}
