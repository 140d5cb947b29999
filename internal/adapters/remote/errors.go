package remote

import "errors"

// Sentinel kinds for remote store errors.
var (
	ErrConnect   = errors.New("remote store connect failed")
	ErrSubscribe = errors.New("remote subscribe failed")
)
