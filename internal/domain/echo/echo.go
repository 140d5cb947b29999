// Package echo distinguishes locally-caused remote updates from
// externally-caused ones, so a client never reapplies its own writes.
package echo

import (
	"sync"
	"time"
)

// Suppression reasons reported by Gate.Suppress.
const (
	ReasonInFlight = "in_flight"
	ReasonToken    = "token"
)

const defaultGuardDelay = 250 * time.Millisecond

// Gate tracks an outbound write in flight plus the last write token this
// client sent. An inbound snapshot is suppressed while a write is in
// flight, and also whenever its origin token matches the last one sent,
// which removes the timing assumption for echoes arriving after the
// guard delay has elapsed.
type Gate struct {
	mu        sync.Mutex
	inFlight  bool
	lastToken string
	guard     time.Duration
	timer     *time.Timer
}

// NewGate creates a gate with configuration options.
func NewGate(opts ...Option) *Gate {
	g := &Gate{
		guard: defaultGuardDelay,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Begin marks an outbound write as in flight and records its token.
func (g *Gate) Begin(token string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
	g.inFlight = true
	g.lastToken = token
}

// Finish lowers the in-flight flag after the guard delay, absorbing the
// round-trip latency of the subscription echo. It is called on both
// successful and failed writes.
func (g *Gate) Finish() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.timer != nil {
		g.timer.Stop()
	}
	g.timer = time.AfterFunc(g.guard, func() {
		g.mu.Lock()
		g.inFlight = false
		g.timer = nil
		g.mu.Unlock()
	})
}

// Suppress reports whether an inbound snapshot with the given origin
// token must be discarded, and why.
func (g *Gate) Suppress(origin string) (bool, string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.inFlight {
		return true, ReasonInFlight
	}
	if origin != "" && origin == g.lastToken {
		return true, ReasonToken
	}
	return false, ""
}

// InFlight reports whether an outbound write is currently in flight.
func (g *Gate) InFlight() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inFlight
}
