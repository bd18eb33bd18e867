// Package model contains domain models passed between layers.
package model

import "time"

// ChallengeDay is one entry of the seven-day challenge.
type ChallengeDay struct {
	Day    int    // 1..7, unique and ordered
	Task   string // what the user is asked to do
	Points int    // reward, always > 0
}

// Action is a catalogued, repeatable social action.
type Action struct {
	ID       string // stable reference used by clients
	Category string
	Name     string
	Points   int
}

// Category groups actions for display.
type Category struct {
	Name    string
	Actions []Action
}

// LogEntry records one logged action. Entries are never mutated.
type LogEntry struct {
	ID        string
	ActionID  string
	Action    string // action name at the time of logging
	Category  string
	Points    int
	Timestamp time.Time
}

// AwardSource says which command granted points.
type AwardSource string

const (
	AwardChallenge AwardSource = "challenge"
	AwardAction    AwardSource = "action"
)

// Award is emitted for every successful point-granting command.
type Award struct {
	Source AwardSource
	Ref    string // challenge day ("day-3") or action id
	Points int
	Day    string // session day key, 2006-01-02
	At     time.Time
}

// Totals are the session's running sums.
type Totals struct {
	TotalPoints int
	DailyPoints int
}

// View names one of the screens the presentation layer can show.
type View string

const (
	ViewHome      View = "home"
	ViewProgress  View = "progress"
	ViewCommunity View = "community"
)

// Valid reports whether v is a known view.
func (v View) Valid() bool {
	switch v {
	case ViewHome, ViewProgress, ViewCommunity:
		return true
	}
	return false
}
