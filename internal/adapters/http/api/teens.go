// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
	"strings"
)

// TeensHandler handles teen roster mutations.
type TeensHandler struct {
	deps Dependencies
}

// NewTeensHandler creates a new teens handler.
func NewTeensHandler(deps Dependencies) *TeensHandler {
	return &TeensHandler{deps: deps}
}

type addTeenRequest struct {
	Name string `json:"name"`
}

// HandleTeens handles POST /teens requests.
func (h *TeensHandler) HandleTeens(w http.ResponseWriter, r *http.Request) {
	const op = "api.add_teen"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if !requireAdmin(w, h.deps, op) {
		return
	}
	var req addTeenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	h.deps.AddTeen(r.Context(), req.Name)
	writeJSON(w, http.StatusCreated, statusResponse{Status: "created"})
}

// HandleTeen handles DELETE /teens/{id} requests. Removal is permanent
// and requires both confirm=true and confirm_permanent=true.
func (h *TeensHandler) HandleTeen(w http.ResponseWriter, r *http.Request) {
	const op = "api.remove_teen"
	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}
	if !requireAdmin(w, h.deps, op) {
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/teens/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	ctx, granted := destructiveContext(r)
	if !granted {
		writeError(w, http.StatusBadRequest, "confirmation_required", NewKind(op, ErrConfirmationRequired))
		return
	}
	h.deps.RemoveTeen(ctx, id)
	writeJSON(w, http.StatusOK, statusResponse{Status: "removed"})
}
