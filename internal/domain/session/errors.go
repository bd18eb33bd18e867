package session

import "errors"

// Sentinel kinds for session errors.
var (
	ErrInvalidView   = errors.New("invalid view")
	ErrInvalidPolicy = errors.New("invalid day boundary policy")
)
