// Package challenge implements the seven-day challenge progression.
package challenge

import (
	"fmt"

	"github.com/okian/outgoing/internal/domain/catalog"
	"github.com/okian/outgoing/internal/domain/model"
)

// State is the display state of one challenge day.
type State string

const (
	StateLocked    State = "locked"
	StateActive    State = "active"
	StateCompleted State = "completed"
)

// DayProgress is one row of the progress list. Locked rows carry no task or points.
type DayProgress struct {
	Day    int
	Task   string
	Points int
	State  State
}

// Tracker holds the unlocked-day cursor. It is not safe for concurrent use.
type Tracker struct {
	days           *catalog.Catalog
	unlocked       int
	completedToday bool
	finished       bool
}

// NewTracker starts a tracker at day 1.
func NewTracker(days *catalog.Catalog) *Tracker {
	return &Tracker{days: days, unlocked: 1}
}

// UnlockedDay returns the current cursor, always in [1, Len].
func (t *Tracker) UnlockedDay() int { return t.unlocked }

// CompletedToday reports whether today's reward was already claimed.
func (t *Tracker) CompletedToday() bool { return t.completedToday }

// Finished reports whether the last day was completed.
func (t *Tracker) Finished() bool { return t.finished }

// Current returns the challenge day under the cursor.
func (t *Tracker) Current() (model.ChallengeDay, error) {
	return t.days.Day(t.unlocked)
}

// Complete claims the reward for the current day and advances the cursor.
// It leaves the tracker untouched on error.
func (t *Tracker) Complete() (model.ChallengeDay, error) {
	if t.finished {
		return model.ChallengeDay{}, ErrChallengeFinished
	}
	if t.completedToday {
		return model.ChallengeDay{}, fmt.Errorf("day %d: %w", t.unlocked, ErrAlreadyCompleted)
	}
	day, err := t.days.Day(t.unlocked)
	if err != nil {
		return model.ChallengeDay{}, err
	}

	t.completedToday = true
	if t.unlocked < t.days.Len() {
		t.unlocked++
	} else {
		t.finished = true
	}
	return day, nil
}

// ResetDay re-opens the daily reward on a new day. The cursor is kept.
func (t *Tracker) ResetDay() {
	t.completedToday = false
}

// StateOf returns the display state of day n.
func (t *Tracker) StateOf(n int) State {
	switch {
	case n < t.unlocked, n == t.unlocked && t.finished:
		return StateCompleted
	case n == t.unlocked:
		return StateActive
	default:
		return StateLocked
	}
}

// Progress returns one row per challenge day.
func (t *Tracker) Progress() []DayProgress {
	days := t.days.Days()
	out := make([]DayProgress, len(days))
	for i, d := range days {
		row := DayProgress{Day: d.Day, State: t.StateOf(d.Day)}
		if row.State != StateLocked {
			row.Task = d.Task
			row.Points = d.Points
		}
		out[i] = row
	}
	return out
}
