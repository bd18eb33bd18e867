package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrInvalidLimit    = errors.New("invalid limit")
	ErrRequestConflict = errors.New("request id already used for another action")
)
