package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/outgoing/pkg/logger"
)

// maxWeekDays bounds the walk in case the server never reports finished.
const maxWeekDays = 7

// RunWeek completes the challenge day by day, rolling over between days,
// and verifies the cursor ends on day 7 with every reward paid.
// The server must be on day 1 with nothing completed.
func RunWeek(ctx context.Context, cfg *Config) (WeekReport, error) {
	log := logger.Named("sim.week")
	start := time.Now()
	c := NewClient(cfg)

	if err := c.Health(ctx); err != nil {
		return WeekReport{}, fmt.Errorf("service health check failed: %w", err)
	}
	cur, err := c.Challenge(ctx)
	if err != nil {
		return WeekReport{}, err
	}
	if cur.UnlockedDay != 1 || cur.CompletedToday {
		return WeekReport{}, fmt.Errorf("%w: unlocked day %d, completed today %t", ErrNotFresh, cur.UnlockedDay, cur.CompletedToday)
	}
	before, err := c.Totals(ctx)
	if err != nil {
		return WeekReport{}, err
	}

	var rep WeekReport
	earned := 0
	for !cur.Finished && rep.Days < maxWeekDays {
		done, err := c.Complete(ctx)
		if err != nil {
			return rep, fmt.Errorf("day %d: %w", cur.Day, err)
		}
		earned += done.Points
		rep.Days++
		log.Info(ctx, "challenge completed",
			logger.Int("day", done.Day),
			logger.Int("points", done.Points),
			logger.Int("totalPoints", done.Totals.TotalPoints),
		)

		roll, err := c.Rollover(ctx)
		if err != nil {
			return rep, err
		}
		if roll.Totals.DailyPoints != 0 {
			return rep, fmt.Errorf("%w: daily points %d after rollover to %s", ErrVerification, roll.Totals.DailyPoints, roll.Today)
		}
		if cur, err = c.Challenge(ctx); err != nil {
			return rep, err
		}
	}

	after, err := c.Totals(ctx)
	if err != nil {
		return rep, err
	}
	rep.PointsDelta = after.TotalPoints - before.TotalPoints
	rep.UnlockedDay = cur.UnlockedDay
	rep.Finished = cur.Finished
	rep.Duration = time.Since(start)

	switch {
	case !rep.Finished:
		return rep, fmt.Errorf("%w: challenge not finished after %d days", ErrVerification, rep.Days)
	case rep.UnlockedDay != maxWeekDays:
		return rep, fmt.Errorf("%w: unlocked day %d, want %d", ErrVerification, rep.UnlockedDay, maxWeekDays)
	case rep.PointsDelta != earned:
		return rep, fmt.Errorf("%w: total grew by %d, completions paid %d", ErrVerification, rep.PointsDelta, earned)
	case cfg.WeekPoints > 0 && rep.PointsDelta != cfg.WeekPoints:
		return rep, fmt.Errorf("%w: total grew by %d, want %d", ErrVerification, rep.PointsDelta, cfg.WeekPoints)
	}

	if _, err := c.Complete(ctx); err == nil {
		return rep, fmt.Errorf("%w: completion accepted after the last day", ErrVerification)
	}

	log.Info(ctx, "week verified",
		logger.Int("days", rep.Days),
		logger.Int("pointsDelta", rep.PointsDelta),
		logger.Duration("duration", rep.Duration),
	)
	return rep, nil
}
