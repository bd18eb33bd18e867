package repository

import "errors"

// Sentinel kinds for history errors.
var (
	ErrInvalidAward = errors.New("invalid award")
	ErrInvalidLimit = errors.New("invalid history length")
	ErrInvalidDay   = errors.New("invalid day key")
)
