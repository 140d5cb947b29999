// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
)

// SessionHandler handles admin session requests.
type SessionHandler struct {
	deps Dependencies
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(deps Dependencies) *SessionHandler {
	return &SessionHandler{deps: deps}
}

type loginRequest struct {
	Password string `json:"password"`
}

type sessionResponse struct {
	Admin bool `json:"admin"`
}

// HandleSession handles POST (login), GET (status) and DELETE (logout)
// on /session.
func (h *SessionHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	const op = "api.session"
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, sessionResponse{Admin: h.deps.Admin()})
	case http.MethodPost:
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		if err := h.deps.Login(r.Context(), req.Password); err != nil {
			// Wrong password and transport trouble look the same to the
			// client; the reason stays in the server log.
			writeError(w, http.StatusUnauthorized, "unauthorized", NewKind(op, ErrUnauthorized))
			return
		}
		writeJSON(w, http.StatusOK, sessionResponse{Admin: true})
	case http.MethodDelete:
		h.deps.Logout(r.Context())
		writeJSON(w, http.StatusOK, sessionResponse{Admin: false})
	default:
		http.NotFound(w, r)
	}
}
