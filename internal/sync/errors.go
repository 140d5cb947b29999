package sync

import "errors"

// Sentinel kinds for sync engine errors.
var (
	ErrNotEntered = errors.New("no active group")
)
