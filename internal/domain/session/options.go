package session

import (
	"fmt"
	"strings"
	"time"
)

// Policy decides when a new day starts.
type Policy string

const (
	// PolicyMidnight rolls over when the clock crosses local midnight.
	PolicyMidnight Policy = "midnight"
	// PolicyManual rolls over only on StartNewDay.
	PolicyManual Policy = "manual"
)

// ParsePolicy accepts midnight or manual, case-insensitive.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyMidnight, PolicyManual:
		return p, nil
	case "":
		return PolicyMidnight, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPolicy, s)
	}
}

// Option applies a configuration option to the Session.
type Option func(*Session)

// WithClock sets the time source.
func WithClock(c Clock) Option {
	return func(s *Session) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithLocation sets the time zone that defines the day boundary.
func WithLocation(loc *time.Location) Option {
	return func(s *Session) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithPolicy sets the day boundary policy.
func WithPolicy(p Policy) Option {
	return func(s *Session) {
		if p != "" {
			s.policy = p
		}
	}
}
