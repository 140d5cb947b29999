// Package remote defines the contract for the remote document store
// that backs each group's scoreboard, including its live subscription.
package remote

import (
	"context"

	"github.com/okian/tabula/internal/domain/model"
)

// Handler receives decoded document snapshots from a subscription.
type Handler func(model.Bundle)

// DocStore provides access to one addressable document per group.
type DocStore interface {
	// Load fetches the group's current document. The boolean reports
	// whether a document exists.
	Load(ctx context.Context, group string) (model.Bundle, bool, error)

	// Save persists the bundle into the group's document with merge
	// semantics: only the supplied fields are touched remotely. The
	// store assigns the write timestamp.
	Save(ctx context.Context, group string, b model.Bundle) error

	// Subscribe establishes a live feed of the group's document. The
	// handler fires once immediately with the current document (when
	// one exists) and then on every subsequent change, in arrival
	// order. The returned cancel tears the subscription down; no
	// handler calls happen after it returns.
	Subscribe(ctx context.Context, group string, fn Handler) (func(), error)
}
