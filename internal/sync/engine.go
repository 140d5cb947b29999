// Package sync reconciles local scoreboard state with each group's
// remote document: debounced outbound writes gated by authorization,
// and an inbound live subscription that never reapplies this client's
// own echoes.
package sync

import (
	"context"
	stdsync "sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/tabula/internal/adapters/remote"
	"github.com/okian/tabula/internal/domain/echo"
	"github.com/okian/tabula/internal/domain/model"
	"github.com/okian/tabula/pkg/logger"
	"github.com/okian/tabula/pkg/metrics"
)

// Default timing constants.
const (
	defaultDebounce = 300 * time.Millisecond
	saveTimeout     = 10 * time.Second
)

// Authorizer reports whether this client may write remote state.
type Authorizer func() bool

// Apply overwrites local collections with an inbound remote snapshot.
type Apply func(model.Bundle)

// Engine is the per-client synchronization state machine. It targets
// one group at a time; Enter re-targets it when the route changes.
type Engine struct {
	mu stdsync.Mutex

	store      remote.DocStore
	gate       *echo.Gate
	authorized Authorizer
	apply      Apply
	debounce   time.Duration
	log        logger.Logger

	group     string
	cancelSub func()

	pending       *time.Timer
	pendingBundle model.Bundle
	hasPending    bool
}

// New creates an engine over the given document store.
func New(store remote.DocStore, opts ...Option) *Engine {
	e := &Engine{
		store:      store,
		debounce:   defaultDebounce,
		authorized: func() bool { return false },
		apply:      func(model.Bundle) {},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.gate == nil {
		e.gate = echo.NewGate()
	}
	if e.log == nil {
		e.log = logger.Named("sync")
	}
	return e
}

// Enter attaches the engine to a group's document. Any previous
// subscription is torn down first so an update meant for the old group
// can never land in the new group's state.
func (e *Engine) Enter(ctx context.Context, group string) error {
	e.mu.Lock()
	cancel := e.cancelSub
	e.cancelSub = nil
	e.group = group
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	// The subscription must outlive the call: Enter often runs inside a
	// request scope, and inbound updates keep flowing until Leave or the
	// next Enter. Only the returned cancel tears it down.
	subCtx := context.WithoutCancel(ctx)
	cancelSub, err := e.store.Subscribe(subCtx, group, func(b model.Bundle) {
		e.onSnapshot(subCtx, group, b)
	})
	if err != nil {
		metrics.RecordSubscribeError()
		e.log.Warn(ctx, "subscription failed; state will go stale",
			logger.String("group", group),
			logger.Error(err),
		)
		return err
	}

	e.mu.Lock()
	e.cancelSub = cancelSub
	e.mu.Unlock()
	return nil
}

// Leave tears down the live subscription. A pending debounce timer is
// left to complete; its write still targets the group it was scheduled
// for.
func (e *Engine) Leave() {
	e.mu.Lock()
	cancel := e.cancelSub
	e.cancelSub = nil
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Schedule registers the latest state snapshot for a debounced remote
// save. Without admin authorization this is a silent no-op: remote
// state is never touched by a non-admin client. A newer call within
// the debounce window replaces the pending snapshot so only the most
// recent state is ever sent.
func (e *Engine) Schedule(ctx context.Context, b model.Bundle) {
	if !e.authorized() {
		e.log.Debug(ctx, "remote save skipped: not authorized")
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	group := e.group
	if group == "" {
		e.log.Debug(ctx, "remote save skipped", logger.Error(ErrNotEntered))
		return
	}
	e.pendingBundle = b.Clone()
	e.hasPending = true
	if e.pending != nil {
		e.pending.Stop()
		metrics.RecordSaveCoalesced()
	}
	e.pending = time.AfterFunc(e.debounce, func() {
		e.flush(group)
	})
}

// flush sends the pending snapshot, raising the echo gate around the
// write and lowering it only after the guard delay past completion.
func (e *Engine) flush(group string) {
	e.mu.Lock()
	if !e.hasPending {
		e.mu.Unlock()
		return
	}
	bundle := e.pendingBundle
	e.hasPending = false
	e.pending = nil
	e.mu.Unlock()

	token := uuid.NewString()
	bundle.Origin = token
	e.gate.Begin(token)
	defer e.gate.Finish()

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	start := time.Now()
	err := e.store.Save(ctx, group, bundle)
	metrics.RecordSaveLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		// Fire and forget: local state stays the working copy and the
		// next edit's debounced save carries the latest snapshot.
		metrics.RecordRemoteSaveFailure()
		e.log.Warn(ctx, "remote save failed",
			logger.String("group", group),
			logger.Error(err),
		)
		return
	}
	metrics.RecordRemoteSave()
	e.log.Debug(ctx, "remote save completed",
		logger.String("group", group),
		logger.String("token", token),
	)
}

// onSnapshot handles one inbound document snapshot.
func (e *Engine) onSnapshot(ctx context.Context, group string, b model.Bundle) {
	if suppressed, reason := e.gate.Suppress(b.Origin); suppressed {
		metrics.RecordEchoSuppressed(reason)
		e.log.Debug(ctx, "inbound snapshot suppressed",
			logger.String("group", group),
			logger.String("reason", reason),
		)
		return
	}
	metrics.RecordSnapshotApplied()
	e.apply(b)
}
