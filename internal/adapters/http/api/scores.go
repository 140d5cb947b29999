// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// ScoresHandler handles score administration.
type ScoresHandler struct {
	deps Dependencies
}

// NewScoresHandler creates a new scores handler.
func NewScoresHandler(deps Dependencies) *ScoresHandler {
	return &ScoresHandler{deps: deps}
}

// HandleReset handles POST /scores/reset requests wiping every score
// record in the active group.
func (h *ScoresHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	const op = "api.reset_scores"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if !requireAdmin(w, h.deps, op) {
		return
	}
	h.deps.ResetScores(r.Context())
	writeJSON(w, http.StatusOK, statusResponse{Status: "reset"})
}
