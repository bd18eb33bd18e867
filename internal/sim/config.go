// Package sim drives a running outgoing server over HTTP and verifies the
// observable results: the seven-day challenge walk and bulk action logging.
package sim

import "time"

// Defaults for Config.
const (
	DefaultBaseURL     = "http://localhost:9080"
	DefaultTimeout     = 10 * time.Second
	DefaultActions     = 100
	DefaultWorkers     = 4
	DefaultReplayEvery = 10
	DefaultWeekPoints  = 406
)

// Config holds the settings shared by all simulations.
type Config struct {
	BaseURL string        // Base URL of the service
	Timeout time.Duration // HTTP request timeout
	Verbose bool          // Log every request

	Actions     int // Number of actions to log
	Workers     int // Concurrent submitters
	ReplayEvery int // Replay every Nth request id; 0 disables replays

	// WeekPoints is the expected total for the full challenge; 0 skips the check.
	WeekPoints int
}

// DefaultConfig returns a Config with every default applied.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:     DefaultBaseURL,
		Timeout:     DefaultTimeout,
		Actions:     DefaultActions,
		Workers:     DefaultWorkers,
		ReplayEvery: DefaultReplayEvery,
		WeekPoints:  DefaultWeekPoints,
	}
}

// WeekReport summarizes a challenge walk.
type WeekReport struct {
	Days        int
	PointsDelta int
	UnlockedDay int
	Finished    bool
	Duration    time.Duration
}

// ActionsReport summarizes a bulk logging run.
type ActionsReport struct {
	Submitted   int
	Created     int
	Duplicates  int
	Failed      int
	PointsDelta int
	Duration    time.Duration
}
