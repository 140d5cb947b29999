// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"sync"

	service "github.com/okian/tabula/internal/app"
)

type confirmKey struct{}

// confirmations carries per-request confirmation grants. Each Confirm
// prompt consumes one grant in order; exhausted grants deny.
type confirmations struct {
	mu     sync.Mutex
	grants []bool
	next   int
}

func (c *confirmations) take() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.next >= len(c.grants) {
		return false
	}
	ok := c.grants[c.next]
	c.next++
	return ok
}

// WithConfirmations attaches ordered confirmation grants to ctx; the
// service's confirmation prompts consume them in sequence.
func WithConfirmations(ctx context.Context, grants ...bool) context.Context {
	return context.WithValue(ctx, confirmKey{}, &confirmations{grants: grants})
}

// RequestConfirmer builds the service-side Confirmer that answers
// prompts from the grants carried in the request context. Requests
// without grants deny every prompt.
func RequestConfirmer() service.Confirmer {
	return service.ConfirmerFunc(func(ctx context.Context, _ string) bool {
		c, ok := ctx.Value(confirmKey{}).(*confirmations)
		if !ok {
			return false
		}
		return c.take()
	})
}

// destructiveContext reads the confirm and confirm_permanent query
// flags and attaches them as grants. Returns false when either flag is
// absent so the handler can answer 400 without touching the service.
func destructiveContext(r *http.Request) (context.Context, bool) {
	q := r.URL.Query()
	confirm := q.Get("confirm") == "true"
	permanent := q.Get("confirm_permanent") == "true"
	return WithConfirmations(r.Context(), confirm, permanent), confirm && permanent
}
