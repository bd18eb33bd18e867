package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/outgoing/internal/domain/model"
	"github.com/okian/outgoing/pkg/metrics"
)

const defaultMaxDays = 366

// DailyStore is an in-memory Store bucketing points by day key.
type DailyStore struct {
	mu      sync.RWMutex
	days    map[string]int
	total   int
	maxDays int
}

// NewDailyStore creates an empty history.
func NewDailyStore(opts ...Option) *DailyStore {
	s := &DailyStore{
		days:    make(map[string]int),
		maxDays: defaultMaxDays,
	}
	for _, opt := range opts {
		opt(s)
	}
	metrics.UpdateHistoryDays(0)
	return s
}

// Add books an award into its day bucket.
func (s *DailyStore) Add(_ context.Context, a model.Award) error {
	if a.Points <= 0 {
		return fmt.Errorf("%w: points %d", ErrInvalidAward, a.Points)
	}
	if _, err := time.Parse(DayLayout, a.Day); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDay, a.Day)
	}

	s.mu.Lock()
	s.days[a.Day] += a.Points
	s.total += a.Points
	n := len(s.days)
	s.mu.Unlock()

	metrics.UpdateHistoryDays(n)
	return nil
}

// Series returns n consecutive days ending at end, oldest first.
func (s *DailyStore) Series(_ context.Context, end string, n int) ([]Point, error) {
	if n < 1 || n > s.maxDays {
		return nil, fmt.Errorf("%w: %d not in [1,%d]", ErrInvalidLimit, n, s.maxDays)
	}
	last, err := time.Parse(DayLayout, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDay, end)
	}
	first := last.AddDate(0, 0, -(n - 1)).Format(DayLayout)

	s.mu.RLock()
	defer s.mu.RUnlock()

	// Day keys order lexically.
	cumulative := 0
	for day, points := range s.days {
		if day < first {
			cumulative += points
		}
	}

	out := make([]Point, n)
	for i := range out {
		day := last.AddDate(0, 0, i-(n-1)).Format(DayLayout)
		points := s.days[day]
		cumulative += points
		out[i] = Point{Day: day, Points: points, Cumulative: cumulative}
	}
	return out, nil
}

// Count returns the number of days with at least one award.
func (s *DailyStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.days)
}

// Total returns the sum of every booked award.
func (s *DailyStore) Total(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total
}
