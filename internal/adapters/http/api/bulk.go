// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
	"strings"
)

// BulkHandler handles the bulk award workflow.
type BulkHandler struct {
	deps Dependencies
}

// NewBulkHandler creates a new bulk handler.
func NewBulkHandler(deps Dependencies) *BulkHandler {
	return &BulkHandler{deps: deps}
}

type markRequest struct {
	TeenID      string `json:"teen_id"`
	CategoryKey string `json:"category_key"`
}

// HandleBulk handles POST (enter) and DELETE (exit) on /bulk.
func (h *BulkHandler) HandleBulk(w http.ResponseWriter, r *http.Request) {
	const op = "api.bulk_mode"
	switch r.Method {
	case http.MethodPost:
		if !requireAdmin(w, h.deps, op) {
			return
		}
		h.deps.EnterBulk(r.Context())
		writeJSON(w, http.StatusOK, statusResponse{Status: "bulk"})
	case http.MethodDelete:
		if !requireAdmin(w, h.deps, op) {
			return
		}
		h.deps.ExitBulk(r.Context())
		writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
	default:
		http.NotFound(w, r)
	}
}

// HandleMarks handles POST /bulk/marks requests toggling one checkbox.
func (h *BulkHandler) HandleMarks(w http.ResponseWriter, r *http.Request) {
	const op = "api.toggle_mark"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if !requireAdmin(w, h.deps, op) {
		return
	}
	var req markRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.TeenID) == "" || strings.TrimSpace(req.CategoryKey) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	h.deps.ToggleMark(r.Context(), req.TeenID, req.CategoryKey)
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

// HandleCommit handles POST /bulk/commit requests.
func (h *BulkHandler) HandleCommit(w http.ResponseWriter, r *http.Request) {
	const op = "api.commit_bulk"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if !requireAdmin(w, h.deps, op) {
		return
	}
	h.deps.CommitBulk(r.Context())
	writeJSON(w, http.StatusOK, statusResponse{Status: "committed"})
}
