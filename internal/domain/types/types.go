// Package types contains the JSON shapes shared by the HTTP API and its clients.
package types

import "time"

// Challenge is the current challenge read model.
type Challenge struct {
	Day            int    `json:"day"`
	Task           string `json:"task"`
	Points         int    `json:"points"`
	UnlockedDay    int    `json:"unlocked_day"`
	CompletedToday bool   `json:"completed_today"`
	Finished       bool   `json:"finished"`
	Today          string `json:"today"`
}

// ProgressDay is one row of the seven-day progress list.
type ProgressDay struct {
	Day    int    `json:"day"`
	Task   string `json:"task,omitempty"`
	Points int    `json:"points,omitempty"`
	State  string `json:"state"`
}

// Action is a loggable action.
type Action struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// ActionCategory groups actions.
type ActionCategory struct {
	Name    string   `json:"name"`
	Actions []Action `json:"actions"`
}

// LogEntry is one logged action.
type LogEntry struct {
	ID        string    `json:"id"`
	ActionID  string    `json:"action_id"`
	Action    string    `json:"action"`
	Category  string    `json:"category"`
	Points    int       `json:"points"`
	Timestamp time.Time `json:"timestamp"`
}

// Totals are the session's running sums.
type Totals struct {
	TotalPoints int `json:"total_points"`
	DailyPoints int `json:"daily_points"`
}

// Completion answers POST /challenge/complete.
type Completion struct {
	Day    int    `json:"day"`
	Task   string `json:"task"`
	Points int    `json:"points"`
	Totals Totals `json:"totals"`
}

// LogRequest is the optional body of POST /actions/{id}/log.
type LogRequest struct {
	RequestID string `json:"request_id,omitempty"`
}

// LogResult answers POST /actions/{id}/log.
type LogResult struct {
	Entry     LogEntry `json:"entry"`
	Duplicate bool     `json:"duplicate"`
	Totals    Totals   `json:"totals"`
}

// SeriesPoint is one day of the points-over-time series.
type SeriesPoint struct {
	Day        string `json:"day"`
	Points     int    `json:"points"`
	Cumulative int    `json:"cumulative"`
}

// History answers GET /history.
type History struct {
	Days   int           `json:"days"`
	Series []SeriesPoint `json:"series"`
}

// ViewState is the selected view.
type ViewState struct {
	View string `json:"view"`
}

// Rollover answers POST /day/rollover.
type Rollover struct {
	Today  string `json:"today"`
	Totals Totals `json:"totals"`
}
