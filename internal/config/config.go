// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and OUTGOING_ environment variables on top.
// - Validation errors wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Day boundary policies.
const (
	DayBoundaryMidnight = "midnight"
	DayBoundaryManual   = "manual"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory award queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of history workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets how many client request ids are remembered.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxLogLimit caps GET /log?limit.
	MaxLogLimit int `koanf:"max_log_limit"`

	// MaxHistoryDays caps GET /history?days.
	MaxHistoryDays int `koanf:"max_history_days"`

	// Timezone is the IANA zone whose midnight starts a new day.
	Timezone string `koanf:"timezone"`

	// DayBoundary is midnight or manual.
	DayBoundary string `koanf:"day_boundary"`

	// CatalogPath optionally replaces the built-in TOML catalog.
	CatalogPath string `koanf:"catalog_path"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		Addr:           ":9080",
		QueueSize:      1024,
		WorkerCount:    2,
		DedupeSize:     10_000,
		MaxLogLimit:    100,
		MaxHistoryDays: 90,
		Timezone:       "Local",
		DayBoundary:    DayBoundaryMidnight,
	}
}

// Validate checks every field and normalizes case-insensitive values.
func (c *Config) Validate() error {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.DayBoundary = strings.ToLower(strings.TrimSpace(c.DayBoundary))

	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.QueueSize < 1:
		return fmt.Errorf("%w: queue_size must be positive, got %d", ErrInvalidConfig, c.QueueSize)
	case c.WorkerCount < 1:
		return fmt.Errorf("%w: worker_count must be positive, got %d", ErrInvalidConfig, c.WorkerCount)
	case c.DedupeSize < 1:
		return fmt.Errorf("%w: dedupe_size must be positive, got %d", ErrInvalidConfig, c.DedupeSize)
	case c.MaxLogLimit < 1:
		return fmt.Errorf("%w: max_log_limit must be positive, got %d", ErrInvalidConfig, c.MaxLogLimit)
	case c.MaxHistoryDays < 1:
		return fmt.Errorf("%w: max_history_days must be positive, got %d", ErrInvalidConfig, c.MaxHistoryDays)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	switch c.DayBoundary {
	case DayBoundaryMidnight, DayBoundaryManual:
	default:
		return fmt.Errorf("%w: day_boundary must be midnight or manual, got %q", ErrInvalidConfig, c.DayBoundary)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("%w: timezone %q: %w", ErrInvalidConfig, c.Timezone, err)
	}
	return nil
}

// Location returns the configured time zone, falling back to Local.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
