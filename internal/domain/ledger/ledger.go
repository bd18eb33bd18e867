// Package ledger keeps the append-only log of actions.
package ledger

import (
	"iter"
	"time"

	"github.com/google/uuid"

	"github.com/okian/outgoing/internal/domain/model"
)

// Ledger is an append-only list of log entries. It is not safe for concurrent use.
type Ledger struct {
	entries []model.LogEntry
	sum     int
	newID   func() string
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithIDGenerator overrides the uuid-based entry ids.
func WithIDGenerator(gen func() string) Option {
	return func(l *Ledger) {
		if gen != nil {
			l.newID = gen
		}
	}
}

// New returns an empty ledger.
func New(opts ...Option) *Ledger {
	l := &Ledger{newID: func() string { return uuid.NewString() }}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Append records one occurrence of action at the given time.
func (l *Ledger) Append(action model.Action, at time.Time) model.LogEntry {
	e := model.LogEntry{
		ID:        l.newID(),
		ActionID:  action.ID,
		Action:    action.Name,
		Category:  action.Category,
		Points:    action.Points,
		Timestamp: at,
	}
	l.entries = append(l.entries, e)
	l.sum += e.Points
	return e
}

// Len returns the number of entries.
func (l *Ledger) Len() int { return len(l.entries) }

// Sum returns the points of all entries.
func (l *Ledger) Sum() int { return l.sum }

// All yields entries most recent first. Each iteration starts over from the
// newest entry present when it begins; entries appended during an iteration
// are not visited.
func (l *Ledger) All() iter.Seq[model.LogEntry] {
	return func(yield func(model.LogEntry) bool) {
		entries := l.entries
		for i := len(entries) - 1; i >= 0; i-- {
			if !yield(entries[i]) {
				return
			}
		}
	}
}
