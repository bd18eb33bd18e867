package catalog

import "errors"

// Sentinel kinds for catalog errors.
var (
	ErrInvalidAction  = errors.New("invalid action")
	ErrDayOutOfRange  = errors.New("challenge day out of range")
	ErrInvalidCatalog = errors.New("invalid catalog")
)
