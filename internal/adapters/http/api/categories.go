// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
	"strings"
)

// CategoriesHandler handles category registry mutations.
type CategoriesHandler struct {
	deps Dependencies
}

// NewCategoriesHandler creates a new categories handler.
func NewCategoriesHandler(deps Dependencies) *CategoriesHandler {
	return &CategoriesHandler{deps: deps}
}

type addCategoryRequest struct {
	Label  string `json:"label"`
	Points int    `json:"points"`
}

type patchCategoryRequest struct {
	Label  *string `json:"label"`
	Points *int    `json:"points"`
}

// HandleCategories handles POST /categories requests.
func (h *CategoriesHandler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	const op = "api.add_category"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if !requireAdmin(w, h.deps, op) {
		return
	}
	var req addCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.Label) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	h.deps.AddCategory(r.Context(), req.Label, req.Points)
	writeJSON(w, http.StatusCreated, statusResponse{Status: "created"})
}

// HandleCategory handles PATCH and DELETE on /categories/{key}.
// Deletion is permanent and requires both confirm flags.
func (h *CategoriesHandler) HandleCategory(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/categories/")
	if key == "" || strings.Contains(key, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	switch r.Method {
	case http.MethodPatch:
		h.patch(w, r, key)
	case http.MethodDelete:
		h.remove(w, r, key)
	default:
		http.NotFound(w, r)
	}
}

func (h *CategoriesHandler) patch(w http.ResponseWriter, r *http.Request, key string) {
	const op = "api.edit_category"
	if !requireAdmin(w, h.deps, op) {
		return
	}
	var req patchCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if req.Label == nil && req.Points == nil {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if req.Label != nil {
		h.deps.SetCategoryLabel(r.Context(), key, *req.Label)
	}
	if req.Points != nil {
		h.deps.SetCategoryPoints(r.Context(), key, *req.Points)
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "updated"})
}

func (h *CategoriesHandler) remove(w http.ResponseWriter, r *http.Request, key string) {
	const op = "api.remove_category"
	if !requireAdmin(w, h.deps, op) {
		return
	}
	ctx, granted := destructiveContext(r)
	if !granted {
		writeError(w, http.StatusBadRequest, "confirmation_required", NewKind(op, ErrConfirmationRequired))
		return
	}
	h.deps.RemoveCategory(ctx, key)
	writeJSON(w, http.StatusOK, statusResponse{Status: "removed"})
}
