package sim

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/outgoing/internal/domain/types"
	"github.com/okian/outgoing/pkg/logger"
)

// maxLogCheck caps how many log entries are fetched for the order check.
const maxLogCheck = 50

// submission is one POST of an action; replays reuse an earlier request id.
type submission struct {
	action    types.Action
	requestID string
}

// RunActions logs cfg.Actions random catalog actions with unique request ids,
// replays every cfg.ReplayEvery-th id, and verifies totals and log order.
func RunActions(ctx context.Context, cfg *Config) (ActionsReport, error) {
	log := logger.Named("sim.actions")
	start := time.Now()
	c := NewClient(cfg)

	if err := c.Health(ctx); err != nil {
		return ActionsReport{}, fmt.Errorf("service health check failed: %w", err)
	}
	cats, err := c.Actions(ctx)
	if err != nil {
		return ActionsReport{}, err
	}
	var catalog []types.Action
	for _, cat := range cats {
		catalog = append(catalog, cat.Actions...)
	}
	if len(catalog) == 0 {
		return ActionsReport{}, fmt.Errorf("%w: empty action catalog", ErrVerification)
	}
	before, err := c.Totals(ctx)
	if err != nil {
		return ActionsReport{}, err
	}

	originals, replays := plan(catalog, cfg.Actions, cfg.ReplayEvery)
	log.Info(ctx, "submitting actions",
		logger.Int("actions", len(originals)),
		logger.Int("replays", len(replays)),
		logger.Int("workers", cfg.Workers),
	)

	var rep ActionsReport
	var mu sync.Mutex
	created := make(map[string]string, len(originals)) // request id -> entry id
	expected := 0

	record := func(s submission, res types.LogResult, err error) {
		mu.Lock()
		defer mu.Unlock()
		rep.Submitted++
		switch {
		case err != nil:
			rep.Failed++
			log.Warn(ctx, "log action failed", logger.String("action", s.action.ID), logger.Error(err))
		case res.Duplicate:
			rep.Duplicates++
		default:
			rep.Created++
			expected += res.Entry.Points
			created[s.requestID] = res.Entry.ID
		}
	}

	submit(ctx, c, originals, cfg.Workers, record)
	// Replays go after every original so each one hits a recorded id.
	submit(ctx, c, replays, cfg.Workers, record)

	after, err := c.Totals(ctx)
	if err != nil {
		return rep, err
	}
	rep.PointsDelta = after.TotalPoints - before.TotalPoints
	rep.Duration = time.Since(start)

	var errs []error
	if rep.Failed > 0 {
		errs = append(errs, fmt.Errorf("%w: %d submissions failed", ErrVerification, rep.Failed))
	}
	if rep.Created != len(originals) {
		errs = append(errs, fmt.Errorf("%w: %d entries created, want %d", ErrVerification, rep.Created, len(originals)))
	}
	if rep.Duplicates != len(replays) {
		errs = append(errs, fmt.Errorf("%w: %d duplicates acknowledged, want %d", ErrVerification, rep.Duplicates, len(replays)))
	}
	if rep.PointsDelta != expected {
		errs = append(errs, fmt.Errorf("%w: total grew by %d, entries paid %d", ErrVerification, rep.PointsDelta, expected))
	}
	if err := checkLog(ctx, c, created); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return rep, err
	}

	log.Info(ctx, "actions verified",
		logger.Int("created", rep.Created),
		logger.Int("duplicates", rep.Duplicates),
		logger.Int("pointsDelta", rep.PointsDelta),
		logger.Duration("duration", rep.Duration),
	)
	return rep, nil
}

// plan picks n random actions with fresh request ids and the replays of every
// replayEvery-th one.
func plan(catalog []types.Action, n, replayEvery int) (originals, replays []submission) {
	originals = make([]submission, 0, n)
	for i := 0; i < n; i++ {
		s := submission{action: catalog[rand.IntN(len(catalog))], requestID: uuid.NewString()}
		originals = append(originals, s)
		if replayEvery > 0 && (i+1)%replayEvery == 0 {
			replays = append(replays, s)
		}
	}
	return originals, replays
}

// submit posts subs from a pool of workers and reports each outcome.
func submit(ctx context.Context, c *Client, subs []submission, workers int, record func(submission, types.LogResult, error)) {
	if workers < 1 {
		workers = 1
	}
	ch := make(chan submission, workers*2)
	var wg sync.WaitGroup
	var sent atomic.Int64

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for s := range ch {
				res, err := c.LogAction(ctx, s.action.ID, s.requestID)
				sent.Add(1)
				record(s, res, err)
			}
		}()
	}

	go func() {
		defer close(ch)
		for _, s := range subs {
			select {
			case <-ctx.Done():
				return
			case ch <- s:
			}
		}
	}()

	wg.Wait()
	logger.Get().Debug(ctx, "batch submitted", logger.Int("sent", int(sent.Load())), logger.Int("planned", len(subs)))
}

// checkLog verifies the newest entries are ours, newest first.
func checkLog(ctx context.Context, c *Client, created map[string]string) error {
	if len(created) == 0 {
		return nil
	}
	ours := make(map[string]bool, len(created))
	for _, id := range created {
		ours[id] = true
	}

	entries, err := c.Log(ctx, min(len(created), maxLogCheck))
	if err != nil {
		return err
	}
	for i, e := range entries {
		if !ours[e.ID] {
			return fmt.Errorf("%w: log entry %d (%s) was not created by this run", ErrVerification, i, e.ID)
		}
		if i > 0 && e.Timestamp.After(entries[i-1].Timestamp) {
			return fmt.Errorf("%w: log entry %d is newer than entry %d", ErrVerification, i, i-1)
		}
	}
	return nil
}
