package echo

import (
	"testing"
	"time"
)

func TestGate_InFlightSuppression(t *testing.T) {
	g := NewGate(WithGuardDelay(20 * time.Millisecond))

	g.Begin("tok-1")
	if got, reason := g.Suppress("anything"); !got || reason != ReasonInFlight {
		t.Fatalf("expected in-flight suppression, got %v %q", got, reason)
	}

	g.Finish()
	// Still suppressed until the guard delay elapses.
	if got, _ := g.Suppress("other"); !got {
		t.Error("expected suppression during guard window")
	}

	time.Sleep(50 * time.Millisecond)
	if got, _ := g.Suppress("other"); got {
		t.Error("expected foreign snapshot to pass after guard window")
	}
}

func TestGate_TokenSuppressionOutlivesGuard(t *testing.T) {
	g := NewGate(WithGuardDelay(time.Millisecond))

	g.Begin("tok-slow")
	g.Finish()
	time.Sleep(20 * time.Millisecond)

	// A slow echo of our own write arrives long after the guard cleared.
	if got, reason := g.Suppress("tok-slow"); !got || reason != ReasonToken {
		t.Fatalf("expected token suppression, got %v %q", got, reason)
	}

	// External writes are never token-suppressed.
	if got, _ := g.Suppress("tok-other"); got {
		t.Error("expected external snapshot to pass")
	}
}

func TestGate_EmptyOriginNotTokenMatched(t *testing.T) {
	g := NewGate(WithGuardDelay(time.Millisecond))
	if got, _ := g.Suppress(""); got {
		t.Error("expected empty origin to pass on an idle gate")
	}
}

func TestGate_BeginResetsPendingLower(t *testing.T) {
	g := NewGate(WithGuardDelay(10 * time.Millisecond))

	g.Begin("a")
	g.Finish()
	g.Begin("b") // new write starts before the previous guard expires

	time.Sleep(30 * time.Millisecond)
	if !g.InFlight() {
		t.Error("expected gate to stay raised for the active write")
	}

	g.Finish()
	time.Sleep(30 * time.Millisecond)
	if g.InFlight() {
		t.Error("expected gate lowered after final guard")
	}
}
