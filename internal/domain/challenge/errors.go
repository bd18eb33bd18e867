package challenge

import (
	"errors"
	"fmt"
)

// Sentinel kinds for challenge errors.
var (
	ErrAlreadyCompleted = errors.New("daily challenge already completed")
	// ErrChallengeFinished matches ErrAlreadyCompleted with errors.Is.
	ErrChallengeFinished = fmt.Errorf("%w: seven-day challenge finished", ErrAlreadyCompleted)
)
