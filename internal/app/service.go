// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"sync"
	"time"

	eventqueue "github.com/okian/outgoing/internal/adapters/mq/queue"
	workerpool "github.com/okian/outgoing/internal/adapters/mq/worker"
	repository "github.com/okian/outgoing/internal/adapters/repository"
	"github.com/okian/outgoing/internal/domain/catalog"
	"github.com/okian/outgoing/internal/domain/dedupe"
	"github.com/okian/outgoing/internal/domain/model"
	"github.com/okian/outgoing/internal/domain/session"
	"github.com/okian/outgoing/pkg/logger"
	"github.com/okian/outgoing/pkg/metrics"
)

// Default service configuration.
const (
	defaultWorkerCount    = 2
	defaultQueueSize      = 1024
	defaultDedupeSize     = 10000
	defaultMaxLogLimit    = 100
	defaultMaxHistoryDays = 90
	stopTimeout           = 5 * time.Second
)

// Service owns the single user session and the award pipeline behind it.
// Every session access is serialized by mu.
type Service struct {
	mu sync.Mutex

	// Core components
	session  *session.Session
	deduper  dedupe.Deduper[model.LogEntry]
	awards   *eventqueue.InMemoryQueue
	history  *repository.DailyStore
	pool     *workerpool.Pool
	cancelFn context.CancelFunc

	// Configuration
	catalog        *catalog.Catalog
	sessionOpts    []session.Option
	workerCount    int
	queueSize      int
	dedupeSize     int
	maxLogLimit    int
	maxHistoryDays int

	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of history workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the award queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many request ids are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithMaxLogLimit caps the number of log entries returned by one read.
func WithMaxLogLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxLogLimit = n
		}
	}
}

// WithMaxHistoryDays caps the length of the history series.
func WithMaxHistoryDays(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxHistoryDays = n
		}
	}
}

// WithCatalog replaces the built-in catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithClock sets the session time source.
func WithClock(c session.Clock) Option {
	return func(s *Service) {
		s.sessionOpts = append(s.sessionOpts, session.WithClock(c))
	}
}

// WithLocation sets the time zone of the day boundary.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		s.sessionOpts = append(s.sessionOpts, session.WithLocation(loc))
	}
}

// WithDayPolicy sets when a new day starts.
func WithDayPolicy(p session.Policy) Option {
	return func(s *Service) {
		s.sessionOpts = append(s.sessionOpts, session.WithPolicy(p))
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with a fresh session. Commands work before Start;
// awards are buffered until the workers run.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:    defaultWorkerCount,
		queueSize:      defaultQueueSize,
		dedupeSize:     defaultDedupeSize,
		maxLogLimit:    defaultMaxLogLimit,
		maxHistoryDays: defaultMaxHistoryDays,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.catalog == nil {
		s.catalog = catalog.Default()
	}

	s.session = session.New(s.catalog, s.sessionOpts...)
	s.session.OnRollover(s.onRollover)
	s.deduper = dedupe.NewInMemoryDeduper[model.LogEntry](dedupe.WithMaxSize(s.dedupeSize))
	s.awards = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))
	s.history = repository.NewDailyStore(repository.WithMaxDays(s.maxHistoryDays))

	s.updateGauges()
	return s
}

// Start launches the history workers.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting outgoing service...")

	// Workers outlive the request context that started them.
	if s.awards.IsClosed() {
		s.awards = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))
	}
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancelFn = cancel
	s.pool = workerpool.NewPool(s.workerCount, s.awards, s.history)
	s.pool.Start(runCtx)

	s.started = true
	s.logger.Info(ctx, "outgoing service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.String("today", s.session.Today()),
	)
	return nil
}

// Stop drains the award queue and stops the workers. Commands keep working
// afterwards but awards no longer reach the history.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	s.logger.Info(ctx, "stopping outgoing service...")
	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool did not drain", logger.Error(err))
	}
	s.cancelFn()

	s.started = false
	s.logger.Info(ctx, "outgoing service stopped")
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := context.Background()
	cur, err := s.session.CurrentChallenge()
	if err != nil {
		s.logger.Warn(ctx, "challenge state unavailable", logger.Error(err))
	}
	totals := s.session.Totals()
	workers := s.workerCount
	if s.pool != nil {
		workers = s.pool.Size()
	}

	stats := map[string]interface{}{
		"started":        s.started,
		"workerCount":    workers,
		"queueSize":      s.queueSize,
		"dedupeSize":     s.dedupeSize,
		"queueLength":    s.awards.Len(ctx),
		"dedupeEntries":  s.deduper.Size(),
		"historyDays":    s.history.Count(ctx),
		"historyTotal":   s.history.Total(ctx),
		"logEntries":     s.session.EntryCount(),
		"totalPoints":    totals.TotalPoints,
		"dailyPoints":    totals.DailyPoints,
		"unlockedDay":    cur.UnlockedDay,
		"completedToday": cur.CompletedToday,
		"finished":       cur.Finished,
		"today":          s.session.Today(),
		"view":           string(s.session.View()),
	}
	if s.pool != nil {
		stats["awardsProcessed"] = s.pool.Processed()
	}

	metrics.UpdateWorkerCount(workers)
	return stats
}

func (s *Service) onRollover(from, to string) {
	metrics.RecordDayRollover()
	s.logger.Info(context.Background(), "day rolled over",
		logger.String("from", from),
		logger.String("to", to),
	)
}

// enqueue hands an award to the history workers. Failure never undoes the command.
func (s *Service) enqueue(ctx context.Context, a model.Award) {
	if err := s.awards.Enqueue(ctx, a); err != nil {
		s.logger.Warn(ctx, "award not queued for history",
			logger.String("source", string(a.Source)),
			logger.String("ref", a.Ref),
			logger.Int("points", a.Points),
			logger.Error(err),
		)
	}
}

// updateGauges must be called with mu held or before the service is shared.
func (s *Service) updateGauges() {
	totals := s.session.Totals()
	cur, err := s.session.CurrentChallenge()
	if err == nil {
		metrics.UpdateUnlockedDay(cur.UnlockedDay)
	}
	metrics.UpdateTotals(totals.TotalPoints, totals.DailyPoints)
	metrics.UpdateLogEntries(s.session.EntryCount())
}
