// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	service "github.com/okian/tabula/internal/app"
	"github.com/okian/tabula/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the application service.
type Dependencies interface {
	Groups() []string
	Group() string
	EnterGroup(ctx context.Context, group string) error

	Board(ctx context.Context) service.BoardView
	Standings(ctx context.Context) []types.Standing

	Login(ctx context.Context, password string) error
	Logout(ctx context.Context)
	Admin() bool

	AddTeen(ctx context.Context, name string)
	RemoveTeen(ctx context.Context, id string)

	AddCategory(ctx context.Context, label string, points int)
	RemoveCategory(ctx context.Context, key string)
	SetCategoryLabel(ctx context.Context, key, label string)
	SetCategoryPoints(ctx context.Context, key string, points int)

	EnterBulk(ctx context.Context)
	ExitBulk(ctx context.Context)
	ToggleMark(ctx context.Context, teenID, categoryKey string)
	CommitBulk(ctx context.Context)

	ResetScores(ctx context.Context)
}

// Standing mirrors the read shape returned by standings queries.
type Standing = types.Standing

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	groupsHandler     *GroupsHandler
	boardHandler      *BoardHandler
	standingsHandler  *StandingsHandler
	sessionHandler    *SessionHandler
	teensHandler      *TeensHandler
	categoriesHandler *CategoriesHandler
	bulkHandler       *BulkHandler
	scoresHandler     *ScoresHandler
}

// NewServer creates a new API server with all handlers. maxLimit caps
// the standings query limit.
func NewServer(deps Dependencies, maxLimit int) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		groupsHandler:     NewGroupsHandler(deps),
		boardHandler:      NewBoardHandler(deps),
		standingsHandler:  NewStandingsHandler(deps, maxLimit),
		sessionHandler:    NewSessionHandler(deps),
		teensHandler:      NewTeensHandler(deps),
		categoriesHandler: NewCategoriesHandler(deps),
		bulkHandler:       NewBulkHandler(deps),
		scoresHandler:     NewScoresHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/groups", MetricsMiddleware(s.groupsHandler.HandleGroups, "groups"))
	mux.HandleFunc("/group", MetricsMiddleware(s.groupsHandler.HandleGroup, "group"))
	mux.HandleFunc("/board", MetricsMiddleware(s.boardHandler.HandleGetBoard, "board"))
	mux.HandleFunc("/standings", MetricsMiddleware(s.standingsHandler.HandleGetStandings, "standings"))
	mux.HandleFunc("/session", MetricsMiddleware(s.sessionHandler.HandleSession, "session"))
	mux.HandleFunc("/teens", MetricsMiddleware(s.teensHandler.HandleTeens, "teens"))
	mux.HandleFunc("/teens/", MetricsMiddleware(s.teensHandler.HandleTeen, "teen"))
	mux.HandleFunc("/categories", MetricsMiddleware(s.categoriesHandler.HandleCategories, "categories"))
	mux.HandleFunc("/categories/", MetricsMiddleware(s.categoriesHandler.HandleCategory, "category"))
	mux.HandleFunc("/bulk", MetricsMiddleware(s.bulkHandler.HandleBulk, "bulk"))
	mux.HandleFunc("/bulk/marks", MetricsMiddleware(s.bulkHandler.HandleMarks, "bulk_marks"))
	mux.HandleFunc("/bulk/commit", MetricsMiddleware(s.bulkHandler.HandleCommit, "bulk_commit"))
	mux.HandleFunc("/scores/reset", MetricsMiddleware(s.scoresHandler.HandleReset, "scores_reset"))
}

type statusResponse struct {
	Status string `json:"status"`
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

// requireAdmin translates a missing admin session to 403. The service
// would reject the mutation anyway; answering here gives clients a
// status instead of a silent no-op.
func requireAdmin(w http.ResponseWriter, deps Dependencies, op string) bool {
	if deps.Admin() {
		return true
	}
	writeError(w, http.StatusForbidden, "forbidden", NewKind(op, ErrUnauthorized))
	return false
}
