package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrUnknownGroup = errors.New("unknown group")
)
