package sim

import "errors"

// Error constants.
var (
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrNotFresh         = errors.New("challenge already started")
	ErrVerification     = errors.New("verification failed")
)
