package sync

import (
	"time"

	"github.com/okian/tabula/internal/domain/echo"
	"github.com/okian/tabula/pkg/logger"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithDebounce sets the outbound write coalescing window.
func WithDebounce(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.debounce = d
		}
	}
}

// WithGuardDelay sets how long the echo gate stays raised past a
// completed write.
func WithGuardDelay(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.gate = echo.NewGate(echo.WithGuardDelay(d))
		}
	}
}

// WithAuthorizer sets the admin authorization check gating all writes.
func WithAuthorizer(fn Authorizer) Option {
	return func(e *Engine) {
		if fn != nil {
			e.authorized = fn
		}
	}
}

// WithApply sets the callback that overwrites local state with an
// accepted inbound snapshot.
func WithApply(fn Apply) Option {
	return func(e *Engine) {
		if fn != nil {
			e.apply = fn
		}
	}
}

// WithLogger sets a custom logger for the engine.
func WithLogger(log logger.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}
