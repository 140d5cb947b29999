// Package service holds the application state container and the
// transition functions behind every scoreboard operation.
package service

import (
	"context"
	"strings"
	stdsync "sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/tabula/internal/adapters/localstore"
	"github.com/okian/tabula/internal/adapters/remote"
	"github.com/okian/tabula/internal/auth"
	"github.com/okian/tabula/internal/domain/model"
	"github.com/okian/tabula/internal/domain/scoring"
	"github.com/okian/tabula/internal/domain/slug"
	"github.com/okian/tabula/internal/domain/types"
	boardsync "github.com/okian/tabula/internal/sync"
	"github.com/okian/tabula/pkg/logger"
	"github.com/okian/tabula/pkg/metrics"
)

// CategoryView is a category with its effective point value resolved.
type CategoryView struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Points int    `json:"points"`
}

// BoardView is a consistent snapshot of the active group's state.
type BoardView struct {
	Group      string                     `json:"group"`
	Admin      bool                       `json:"admin"`
	BulkMode   bool                       `json:"bulkMode"`
	Teens      []model.Teen               `json:"teens"`
	Categories []CategoryView             `json:"categories"`
	Scores     model.Scores               `json:"scores"`
	Standings  []types.Standing           `json:"standings"`
	Marks      map[string]map[string]bool `json:"marks,omitempty"`
}

// Service owns the local mirror of the active group and applies every
// state transition. Local mutations persist immediately to the local
// store and schedule one debounced remote save; inbound snapshots from
// the sync engine overwrite the mirrored collections in full.
type Service struct {
	mu stdsync.Mutex

	local     *localstore.Store
	engine    *boardsync.Engine
	session   *auth.Session
	confirmer Confirmer
	log       logger.Logger

	debounce   time.Duration
	guardDelay time.Duration

	groups []string
	group  string

	teens          []model.Teen
	categories     []model.Category
	categoryPoints map[string]int
	scores         model.Scores

	bulkMode  bool
	bulkMarks map[string]map[string]bool
}

// New constructs the service and its sync engine over the given
// adapters. The engine's authorization check is the admin session and
// its apply callback feeds back into this container.
func New(local *localstore.Store, docs remote.DocStore, session *auth.Session, opts ...Option) *Service {
	s := &Service{
		local:     local,
		session:   session,
		confirmer: denyAll{},
		groups:    []string{"teens", "preteens"},
		bulkMarks: map[string]map[string]bool{},
	}

	for _, opt := range opts {
		opt(s)
	}

	engineOpts := []boardsync.Option{
		boardsync.WithAuthorizer(session.Admin),
		boardsync.WithApply(s.applyRemote),
	}
	if s.debounce > 0 {
		engineOpts = append(engineOpts, boardsync.WithDebounce(s.debounce))
	}
	if s.guardDelay > 0 {
		engineOpts = append(engineOpts, boardsync.WithGuardDelay(s.guardDelay))
	}
	s.engine = boardsync.New(docs, engineOpts...)

	if s.log == nil {
		s.log = logger.Named("service")
	}

	// Logging out closes every admin-only transient mode.
	session.Observe(func(admin bool) {
		if !admin {
			s.mu.Lock()
			s.bulkMode = false
			s.bulkMarks = map[string]map[string]bool{}
			s.mu.Unlock()
		}
	})

	return s
}

// Close tears down the live subscription.
func (s *Service) Close() {
	s.engine.Leave()
}

// Groups lists the configured group partitions.
func (s *Service) Groups() []string {
	return append([]string(nil), s.groups...)
}

// Group returns the active group, or "" before EnterGroup.
func (s *Service) Group() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.group
}

// EnterGroup switches the active group: the previous subscription is
// torn down, the group's local mirror (or factory defaults) is loaded,
// and a fresh subscription to the group's document is established.
func (s *Service) EnterGroup(ctx context.Context, group string) error {
	if !s.knownGroup(group) {
		return ErrUnknownGroup
	}

	s.mu.Lock()
	s.group = group
	defaults := model.DefaultBundle()
	s.teens = defaults.Teens
	s.categories = defaults.Categories
	s.categoryPoints = defaults.CategoryPoints
	s.scores = defaults.Scores
	s.local.Get(ctx, group, localstore.FieldTeens, &s.teens)
	s.local.Get(ctx, group, localstore.FieldCategories, &s.categories)
	s.local.Get(ctx, group, localstore.FieldCategoryPoints, &s.categoryPoints)
	s.local.Get(ctx, group, localstore.FieldScores, &s.scores)
	s.bulkMode = false
	s.bulkMarks = map[string]map[string]bool{}
	s.updateGauges()
	s.mu.Unlock()

	metrics.RecordGroupSwitch()

	if err := s.engine.Enter(ctx, group); err != nil {
		// The local mirror keeps working; state goes stale until the
		// next successful subscription.
		s.log.Warn(ctx, "live subscription unavailable",
			logger.String("group", group),
			logger.Error(err),
		)
	}
	return nil
}

func (s *Service) knownGroup(group string) bool {
	for _, g := range s.groups {
		if g == group {
			return true
		}
	}
	return false
}

// Standings computes the leaderboard order from current state. It is
// recomputed on every call, never cached.
func (s *Service) Standings(_ context.Context) []types.Standing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return scoring.Rank(s.teens, s.categories, s.scores)
}

// Board returns a consistent snapshot of the active group.
func (s *Service) Board(_ context.Context) BoardView {
	s.mu.Lock()
	defer s.mu.Unlock()

	cats := make([]CategoryView, len(s.categories))
	for i, c := range s.categories {
		cats[i] = CategoryView{
			Key:    c.Key,
			Label:  c.Label,
			Points: scoring.EffectivePoints(c, s.categoryPoints),
		}
	}

	view := BoardView{
		Group:      s.group,
		Admin:      s.session.Admin(),
		BulkMode:   s.bulkMode,
		Teens:      append(s.teens[:0:0], s.teens...),
		Categories: cats,
		Scores:     s.scores.Clone(),
		Standings:  scoring.Rank(s.teens, s.categories, s.scores),
	}
	if s.bulkMode {
		view.Marks = cloneMarks(s.bulkMarks)
	}
	return view
}

// Login submits the admin password to the identity provider.
func (s *Service) Login(ctx context.Context, password string) error {
	return s.session.Login(ctx, password)
}

// Logout deauthorizes the admin session and resets transient modes.
func (s *Service) Logout(_ context.Context) {
	s.session.Logout()
}

// Admin reports the session's current authorization.
func (s *Service) Admin() bool {
	return s.session.Admin()
}

// AddTeen creates a teen with a fresh id and a zero score shape.
// A no-op without an admin session or with a blank name.
func (s *Service) AddTeen(ctx context.Context, name string) {
	if !s.authorized(ctx, "add_teen") {
		return
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.teens = append(s.teens, model.Teen{ID: id, Name: name})
	rec := make(map[string]int, len(s.categories))
	for _, c := range s.categories {
		rec[c.Key] = 0
	}
	if s.scores == nil {
		s.scores = model.Scores{}
	}
	s.scores[id] = rec

	s.persistAndSchedule(ctx)
}

// RemoveTeen deletes a teen after two explicit confirmations. The
// cascade removes the teen's score record and bulk marks.
func (s *Service) RemoveTeen(ctx context.Context, id string) {
	if !s.authorized(ctx, "remove_teen") {
		return
	}
	if !s.confirmer.Confirm(ctx, "Remove this teen?") {
		return
	}
	if !s.confirmer.Confirm(ctx, "This is permanent and cannot be undone. Remove anyway?") {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.teens[:0]
	found := false
	for _, t := range s.teens {
		if t.ID == id {
			found = true
			continue
		}
		kept = append(kept, t)
	}
	if !found {
		return
	}
	s.teens = kept
	delete(s.scores, id)
	delete(s.bulkMarks, id)

	s.persistAndSchedule(ctx)
}

// AddCategory registers a new scoring category. The key is slugified
// from the label with numeric suffixes on collision; every teen's score
// record gets a zero entry for it.
func (s *Service) AddCategory(ctx context.Context, label string, points int) {
	if !s.authorized(ctx, "add_category") {
		return
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := slug.Unique(slug.Make(label), func(k string) bool {
		for _, c := range s.categories {
			if c.Key == k {
				return true
			}
		}
		return false
	})

	s.categories = append(s.categories, model.Category{Key: key, Label: label, DefaultPoints: points})
	s.categoryPoints[key] = points
	if s.scores == nil {
		s.scores = model.Scores{}
	}
	for _, t := range s.teens {
		rec := s.scores[t.ID]
		if rec == nil {
			rec = map[string]int{}
			s.scores[t.ID] = rec
		}
		rec[key] = 0
	}

	s.persistAndSchedule(ctx)
}

// RemoveCategory deletes a category after two explicit confirmations,
// cascading through the points mapping and every score record.
func (s *Service) RemoveCategory(ctx context.Context, key string) {
	if !s.authorized(ctx, "remove_category") {
		return
	}

	s.mu.Lock()
	exists := false
	for _, c := range s.categories {
		if c.Key == key {
			exists = true
			break
		}
	}
	s.mu.Unlock()
	if !exists {
		return
	}

	if !s.confirmer.Confirm(ctx, "Remove this category?") {
		return
	}
	if !s.confirmer.Confirm(ctx, "This is permanent: its points vanish from every teen. Remove anyway?") {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.categories[:0]
	for _, c := range s.categories {
		if c.Key != key {
			kept = append(kept, c)
		}
	}
	s.categories = kept
	delete(s.categoryPoints, key)
	for _, rec := range s.scores {
		delete(rec, key)
	}

	s.persistAndSchedule(ctx)
}

// SetCategoryLabel renames a category without touching its identity.
func (s *Service) SetCategoryLabel(ctx context.Context, key, label string) {
	if !s.authorized(ctx, "set_category_label") {
		return
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, c := range s.categories {
		if c.Key == key {
			s.categories[i].Label = label
			s.persistAndSchedule(ctx)
			return
		}
	}
}

// SetCategoryPoints edits a category's effective point value.
func (s *Service) SetCategoryPoints(ctx context.Context, key string, points int) {
	if !s.authorized(ctx, "set_category_points") {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.categories {
		if c.Key == key {
			s.categoryPoints[key] = points
			s.persistAndSchedule(ctx)
			return
		}
	}
}

// EnsureShape backfills a zero entry for every live category into the
// teen's score record. Reads degrade gracefully without it; bulk mode
// wants the full shape up front.
func (s *Service) EnsureShape(ctx context.Context, teenID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureShapeLocked(teenID)
}

func (s *Service) ensureShapeLocked(teenID string) {
	if s.scores == nil {
		s.scores = model.Scores{}
	}
	rec := s.scores[teenID]
	if rec == nil {
		rec = map[string]int{}
		s.scores[teenID] = rec
	}
	for _, c := range s.categories {
		if _, ok := rec[c.Key]; !ok {
			rec[c.Key] = 0
		}
	}
}

// EnterBulk opens the bulk award grid: every teen's score shape is
// ensured and the selection set starts empty.
func (s *Service) EnterBulk(ctx context.Context) {
	if !s.authorized(ctx, "enter_bulk") {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.teens {
		s.ensureShapeLocked(t.ID)
	}
	s.bulkMode = true
	s.bulkMarks = map[string]map[string]bool{}
	s.persistLocked(ctx)
}

// ExitBulk closes bulk mode and discards the selection set.
func (s *Service) ExitBulk(ctx context.Context) {
	if !s.authorized(ctx, "exit_bulk") {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.bulkMode = false
	s.bulkMarks = map[string]map[string]bool{}
}

// ToggleMark flips one (teen, category) checkbox. Nothing persists
// until commit.
func (s *Service) ToggleMark(ctx context.Context, teenID, categoryKey string) {
	if !s.authorized(ctx, "toggle_mark") {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.bulkMode {
		return
	}
	rec := s.bulkMarks[teenID]
	if rec == nil {
		rec = map[string]bool{}
		s.bulkMarks[teenID] = rec
	}
	rec[categoryKey] = !rec[categoryKey]
}

// CommitBulk applies every marked category's effective point value (as
// of commit time) to the marked teens in a single local update, issues
// exactly one remote save, then clears marks and exits bulk mode
// regardless of outcome.
func (s *Service) CommitBulk(ctx context.Context) {
	if !s.authorized(ctx, "commit_bulk") {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	awarded := 0
	touched := false
	for _, t := range s.teens {
		marks := s.bulkMarks[t.ID]
		if len(marks) == 0 {
			continue
		}
		rec := s.scores[t.ID]
		if rec == nil {
			rec = map[string]int{}
			if s.scores == nil {
				s.scores = model.Scores{}
			}
			s.scores[t.ID] = rec
		}
		for _, c := range s.categories {
			if marks[c.Key] {
				pts := scoring.EffectivePoints(c, s.categoryPoints)
				rec[c.Key] += pts
				awarded += pts
				touched = true
			}
		}
	}

	s.bulkMarks = map[string]map[string]bool{}
	s.bulkMode = false

	// An empty commit changed nothing worth writing anywhere.
	if !touched {
		return
	}

	metrics.RecordBulkCommit(awarded)
	s.persistAndSchedule(ctx)
}

// ResetScores wipes every score record in the active group.
func (s *Service) ResetScores(ctx context.Context) {
	if !s.authorized(ctx, "reset_scores") {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.scores = model.Scores{}
	s.bulkMarks = map[string]map[string]bool{}
	s.bulkMode = false

	s.persistAndSchedule(ctx)
}

// authorized is the defense-in-depth gate on every mutating operation:
// without an admin session the operation is silently rejected.
func (s *Service) authorized(ctx context.Context, op string) bool {
	if s.session.Admin() {
		return true
	}
	metrics.RecordUnauthorizedMutation(op)
	s.log.Debug(ctx, "unauthorized mutation rejected", logger.String("operation", op))
	return false
}

// applyRemote overwrites the mirrored collections with an accepted
// inbound snapshot: remote is the source of truth for any field it
// reports. Runs on the subscription goroutine.
func (s *Service) applyRemote(b model.Bundle) {
	ctx := context.Background()

	s.mu.Lock()
	defer s.mu.Unlock()

	if b.Teens != nil {
		s.teens = b.Teens
	}
	if b.Categories != nil {
		s.categories = b.Categories
	}
	if b.CategoryPoints != nil {
		s.categoryPoints = b.CategoryPoints
	}
	if b.Scores != nil {
		s.scores = b.Scores
	}
	s.persistLocked(ctx)
	s.updateGauges()
}

// bundleLocked snapshots the four collections for the sync engine.
func (s *Service) bundleLocked() model.Bundle {
	return model.Bundle{
		Teens:          s.teens,
		Categories:     s.categories,
		CategoryPoints: s.categoryPoints,
		Scores:         s.scores,
	}.Clone()
}

// persistLocked mirrors the four collections into the local store.
func (s *Service) persistLocked(ctx context.Context) {
	s.local.Put(ctx, s.group, localstore.FieldTeens, s.teens)
	s.local.Put(ctx, s.group, localstore.FieldCategories, s.categories)
	s.local.Put(ctx, s.group, localstore.FieldCategoryPoints, s.categoryPoints)
	s.local.Put(ctx, s.group, localstore.FieldScores, s.scores)
}

// persistAndSchedule persists locally right away and schedules one
// debounced remote save of the full bundle.
func (s *Service) persistAndSchedule(ctx context.Context) {
	s.persistLocked(ctx)
	s.updateGauges()
	s.engine.Schedule(ctx, s.bundleLocked())
}

func (s *Service) updateGauges() {
	metrics.UpdateTeensTracked(len(s.teens))
	metrics.UpdateCategoriesTracked(len(s.categories))
}

func cloneMarks(in map[string]map[string]bool) map[string]map[string]bool {
	out := make(map[string]map[string]bool, len(in))
	for id, rec := range in {
		c := make(map[string]bool, len(rec))
		for k, v := range rec {
			c[k] = v
		}
		out[id] = c
	}
	return out
}
