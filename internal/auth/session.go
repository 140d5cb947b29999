package auth

import (
	"context"
	"sync"
)

// Session is the single admin authorization boolean. It is never
// persisted; it is re-derived from the identity provider on every start and
// whenever the provider reports a session change.
type Session struct {
	mu        sync.Mutex
	account   string
	verifier  Verifier
	admin     bool
	observers []func(admin bool)
}

// NewSession creates an unauthorized session bound to the fixed admin
// account id.
func NewSession(account string, verifier Verifier) *Session {
	return &Session{
		account:  account,
		verifier: verifier,
	}
}

// Admin reports whether the session is currently authorized.
func (s *Session) Admin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.admin
}

// Login submits the password to the identity provider. On success the
// session becomes authorized; on failure the error is surfaced and the
// session stays unauthorized.
func (s *Session) Login(ctx context.Context, password string) error {
	if err := s.verifier.Verify(ctx, s.account, password); err != nil {
		return err
	}
	s.set(true)
	return nil
}

// Logout deauthorizes the session. Observers run so admin-only
// transient modes reset to their closed state.
func (s *Session) Logout() {
	s.set(false)
}

// Observe registers a callback fired on every authorization change.
func (s *Session) Observe(fn func(admin bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

func (s *Session) set(admin bool) {
	s.mu.Lock()
	changed := s.admin != admin
	s.admin = admin
	observers := append(s.observers[:0:0], s.observers...)
	s.mu.Unlock()

	if !changed {
		return
	}
	for _, fn := range observers {
		fn(admin)
	}
}
