package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/outgoing/internal/domain/catalog"
	"github.com/okian/outgoing/internal/domain/challenge"
	"github.com/okian/outgoing/internal/domain/model"
	"github.com/okian/outgoing/internal/domain/session"
	"github.com/okian/outgoing/internal/domain/types"
	"github.com/okian/outgoing/pkg/logger"
	"github.com/okian/outgoing/pkg/metrics"
)

// CurrentChallenge returns today's challenge.
func (s *Service) CurrentChallenge(_ context.Context) (types.Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.session.CurrentChallenge()
	if err != nil {
		return types.Challenge{}, err
	}
	return toChallenge(cur, s.session.Today()), nil
}

// CompleteChallenge claims today's challenge reward.
func (s *Service) CompleteChallenge(ctx context.Context) (types.Completion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	day, award, err := s.session.CompleteDailyChallenge()
	if err != nil {
		s.rejected(ctx, "complete_challenge", err)
		return types.Completion{}, err
	}

	metrics.RecordChallengeCompleted()
	s.updateGauges()
	s.enqueue(ctx, award)
	s.logger.Info(ctx, "challenge completed",
		logger.Int("day", day.Day),
		logger.Int("points", day.Points),
	)

	return types.Completion{
		Day:    day.Day,
		Task:   day.Task,
		Points: day.Points,
		Totals: toTotals(s.session.Totals()),
	}, nil
}

// Progress returns the seven-day progress list.
func (s *Service) Progress(_ context.Context) []types.ProgressDay {
	s.mu.Lock()
	defer s.mu.Unlock()
	return toProgress(s.session.Progress())
}

// Actions returns the action catalog grouped by category.
func (s *Service) Actions(_ context.Context) []types.ActionCategory {
	return toCategories(s.catalog.Categories())
}

// LogAction logs one catalogued action. A non-empty requestID makes the call
// idempotent: a replay returns the first entry flagged as duplicate.
func (s *Service) LogAction(ctx context.Context, actionID, requestID string) (types.LogResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if requestID != "" {
		if entry, seen := s.deduper.Lookup(ctx, requestID); seen {
			if entry.ActionID != actionID {
				err := fmt.Errorf("%w: %q logged %q", ErrRequestConflict, requestID, entry.ActionID)
				s.rejected(ctx, "log_action", err)
				return types.LogResult{}, err
			}
			metrics.RecordRequestDuplicate()
			s.logger.Debug(ctx, "duplicate request",
				logger.String("requestID", requestID),
				logger.String("entryID", entry.ID),
			)
			return types.LogResult{
				Entry:     toLogEntry(entry),
				Duplicate: true,
				Totals:    toTotals(s.session.Totals()),
			}, nil
		}
	}

	entry, award, err := s.session.LogAction(actionID)
	if err != nil {
		s.rejected(ctx, "log_action", err)
		return types.LogResult{}, err
	}
	if requestID != "" {
		s.deduper.SeenAndRecord(ctx, requestID, entry)
	}

	metrics.RecordActionLogged(entry.Category)
	s.updateGauges()
	s.enqueue(ctx, award)
	s.logger.Debug(ctx, "action logged",
		logger.String("action", entry.ActionID),
		logger.Int("points", entry.Points),
	)

	return types.LogResult{
		Entry:  toLogEntry(entry),
		Totals: toTotals(s.session.Totals()),
	}, nil
}

// Log returns up to limit entries, most recent first.
func (s *Service) Log(_ context.Context, limit int) ([]types.LogEntry, error) {
	if limit < 1 || limit > s.maxLogLimit {
		return nil, fmt.Errorf("%w: %d not in [1,%d]", ErrInvalidLimit, limit, s.maxLogLimit)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]types.LogEntry, 0, min(limit, s.session.EntryCount()))
	for e := range s.session.Entries() {
		if len(out) == limit {
			break
		}
		out = append(out, toLogEntry(e))
	}
	return out, nil
}

// MaxLogLimit returns the largest accepted log limit.
func (s *Service) MaxLogLimit() int { return s.maxLogLimit }

// Totals returns the running sums.
func (s *Service) Totals(_ context.Context) types.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return toTotals(s.session.Totals())
}

// History returns the points series for the last days days, ending today.
func (s *Service) History(ctx context.Context, days int) (types.History, error) {
	if days < 1 || days > s.maxHistoryDays {
		return types.History{}, fmt.Errorf("%w: %d not in [1,%d]", ErrInvalidLimit, days, s.maxHistoryDays)
	}

	s.mu.Lock()
	today := s.session.Today()
	s.mu.Unlock()

	points, err := s.history.Series(ctx, today, days)
	if err != nil {
		return types.History{}, err
	}
	return types.History{Days: days, Series: toSeries(points)}, nil
}

// View returns the selected view.
func (s *Service) View(_ context.Context) types.ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return types.ViewState{View: string(s.session.View())}
}

// SelectView switches the selected view.
func (s *Service) SelectView(ctx context.Context, view string) (types.ViewState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.session.SelectView(model.View(view)); err != nil {
		s.rejected(ctx, "select_view", err)
		return types.ViewState{}, err
	}
	return types.ViewState{View: string(s.session.View())}, nil
}

// StartNewDay rolls the session over to the next day.
func (s *Service) StartNewDay(_ context.Context) types.Rollover {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.session.StartNewDay()
	s.updateGauges()
	return types.Rollover{Today: today, Totals: toTotals(s.session.Totals())}
}

func (s *Service) rejected(ctx context.Context, op string, err error) {
	reason := "internal"
	switch {
	case errors.Is(err, challenge.ErrChallengeFinished):
		reason = "challenge_finished"
	case errors.Is(err, challenge.ErrAlreadyCompleted):
		reason = "already_completed"
	case errors.Is(err, catalog.ErrInvalidAction):
		reason = "invalid_action"
	case errors.Is(err, session.ErrInvalidView):
		reason = "invalid_view"
	case errors.Is(err, ErrRequestConflict):
		reason = "request_conflict"
	}
	metrics.RecordCommandRejected(reason)
	s.logger.Debug(ctx, "command rejected",
		logger.String("op", op),
		logger.String("reason", reason),
		logger.Error(err),
	)
}
