// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	service "github.com/okian/tabula/internal/app"
)

// GroupsHandler handles group listing and switching.
type GroupsHandler struct {
	deps Dependencies
}

// NewGroupsHandler creates a new groups handler.
func NewGroupsHandler(deps Dependencies) *GroupsHandler {
	return &GroupsHandler{deps: deps}
}

type groupsResponse struct {
	Groups []string `json:"groups"`
	Active string   `json:"active"`
}

type groupRequest struct {
	Group string `json:"group"`
}

// HandleGroups handles GET /groups requests.
func (h *GroupsHandler) HandleGroups(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, groupsResponse{
		Groups: h.deps.Groups(),
		Active: h.deps.Group(),
	})
}

// HandleGroup handles POST /group requests to switch the active group.
func (h *GroupsHandler) HandleGroup(w http.ResponseWriter, r *http.Request) {
	const op = "api.switch_group"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req groupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.Group) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if err := h.deps.EnterGroup(r.Context(), req.Group); err != nil {
		if errors.Is(err, service.ErrUnknownGroup) {
			writeError(w, http.StatusNotFound, "unknown_group", NewKind(op, ErrUnknownGroup))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}
