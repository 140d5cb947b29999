// Package site handles the embedded scoreboard page.
package site

import (
	"context"
	"errors"
	"net/http"
)

// Error constants.
var (
	ErrServe = errors.New("site serve failed")
)

// Register attaches the embedded scoreboard page routes to mux.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	// Serve the embedded scoreboard page at root /
	files := http.FileServer(FS())
	mux.Handle("/", files)
}
