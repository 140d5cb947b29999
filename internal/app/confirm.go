package service

import "context"

// Confirmer asks a human to approve a destructive operation. Both of
// the two sequential prompts must be approved or the operation aborts
// with no state change.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(ctx context.Context, prompt string) bool

// Confirm calls fn.
func (fn ConfirmerFunc) Confirm(ctx context.Context, prompt string) bool {
	return fn(ctx, prompt)
}

// denyAll is the default confirmer: destructive operations are refused
// until a real confirmation hook is wired in.
type denyAll struct{}

func (denyAll) Confirm(context.Context, string) bool { return false }
