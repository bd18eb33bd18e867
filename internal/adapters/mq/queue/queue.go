// Package queue carries awards from the session to the history workers.
package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/outgoing/internal/domain/model"
	"github.com/okian/outgoing/pkg/metrics"
)

const defaultQueueCapacity = 1024

// Award is the payload flowing through the queue.
type Award = model.Award

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds an award without blocking. It fails with ErrQueueFull
	// under backpressure and ErrQueueClosed after Close.
	Enqueue(ctx context.Context, a Award) error

	// Dequeue returns the channel workers read from. It is closed once the
	// queue is closed and drained.
	Dequeue(ctx context.Context) <-chan Award

	// Len returns the current number of queued awards.
	Len(ctx context.Context) int

	// Close stops accepting awards.
	Close() error

	IsClosed() bool
}

// InMemoryQueue implements Queue on a buffered channel. Consumers share one
// forwarding goroutine that keeps the queue gauges current.
type InMemoryQueue struct {
	awards   chan Award
	out      chan Award
	capacity int

	once   sync.Once
	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.awards = make(chan Award, q.capacity)
	q.out = make(chan Award)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	metrics.UpdateQueueUtilization(0.0)

	return q
}

// Enqueue adds an award to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, a Award) error {
	start := time.Now()
	defer func() {
		metrics.RecordQueueProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		q.enqueueFailed("closed")
		return ErrQueueClosed
	}
	if err := ctx.Err(); err != nil {
		q.enqueueFailed("context_cancelled")
		return fmt.Errorf("enqueue award: %w", err)
	}

	select {
	case q.awards <- a:
		metrics.RecordQueueEnqueue()
		q.updateGauges()
		return nil
	default:
		q.enqueueFailed("queue_full")
		return ErrQueueFull
	}
}

func (q *InMemoryQueue) enqueueFailed(reason string) {
	metrics.RecordQueueEnqueueError()
	metrics.RecordErrorByComponent("queue", reason)
}

func (q *InMemoryQueue) updateGauges() {
	size := len(q.awards)
	metrics.UpdateQueueSize(size)
	metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
}

// Dequeue returns the shared consumer channel. The forwarder stops when the
// queue is drained after Close or when ctx of the first caller is done.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Award {
	q.once.Do(func() {
		go q.forward(ctx)
	})
	return q.out
}

func (q *InMemoryQueue) forward(ctx context.Context) {
	defer close(q.out)
	for a := range q.awards {
		select {
		case q.out <- a:
			metrics.RecordQueueDequeue()
			q.updateGauges()
		case <-ctx.Done():
			return
		}
	}
}

// Len returns the current number of queued awards.
func (q *InMemoryQueue) Len(_ context.Context) int {
	q.updateGauges()
	return len(q.awards)
}

// Close stops accepting awards. Buffered awards are still delivered.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.awards)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
