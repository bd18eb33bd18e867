// Package repository keeps the points history derived from awards.
package repository

import (
	"context"

	"github.com/okian/outgoing/internal/domain/model"
)

// DayLayout is the format of day keys.
const DayLayout = "2006-01-02"

// Point is one day of the points-over-time series.
type Point struct {
	Day        string
	Points     int
	Cumulative int
}

// Store provides read/write access to the points history.
type Store interface {
	// Add books an award into its day bucket.
	Add(ctx context.Context, a model.Award) error

	// Series returns n consecutive days ending at the day key end, oldest
	// first. Days without awards are zero-filled; Cumulative counts every
	// award up to and including that day.
	Series(ctx context.Context, end string, n int) ([]Point, error)

	// Count returns the number of days with at least one award.
	Count(ctx context.Context) int
}
