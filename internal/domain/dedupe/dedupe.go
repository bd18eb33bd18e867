// Package dedupe remembers client request ids so replayed commands are not applied twice.
package dedupe

import (
	"context"
	"sync"
)

// Deduper records request ids together with the result they produced.
type Deduper[V any] interface {
	// Lookup returns the result recorded for id, if any.
	Lookup(ctx context.Context, id string) (V, bool)

	// SeenAndRecord atomically checks whether id was seen and records v if not.
	// When id was already seen it returns the earlier result and true.
	SeenAndRecord(ctx context.Context, id string, v V) (V, bool)

	Size() int64
}

// inMemoryDeduper keeps ids in a map. In bounded mode a ring of ids in
// insertion order evicts the oldest once the ring is full.
type inMemoryDeduper[V any] struct {
	mu      sync.Mutex
	seen    map[string]V
	ring    []string
	next    int
	maxSize int // <= 0 means unbounded
}

// NewInMemoryDeduper creates a new in-memory deduper.
func NewInMemoryDeduper[V any](opts ...Option) Deduper[V] {
	cfg := config{maxSize: 50000}
	for _, opt := range opts {
		opt(&cfg)
	}

	d := &inMemoryDeduper[V]{
		seen:    make(map[string]V),
		maxSize: cfg.maxSize,
	}
	if d.maxSize > 0 {
		d.ring = make([]string, 0, d.maxSize)
	}
	return d
}

func (d *inMemoryDeduper[V]) Lookup(_ context.Context, id string) (V, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	v, ok := d.seen[id]
	return v, ok
}

func (d *inMemoryDeduper[V]) SeenAndRecord(_ context.Context, id string, v V) (V, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if prev, ok := d.seen[id]; ok {
		return prev, true
	}

	if d.maxSize > 0 {
		if len(d.ring) < d.maxSize {
			d.ring = append(d.ring, id)
		} else {
			delete(d.seen, d.ring[d.next])
			d.ring[d.next] = id
			d.next = (d.next + 1) % d.maxSize
		}
	}
	d.seen[id] = v

	var zero V
	return zero, false
}

// Size returns the number of remembered ids.
func (d *inMemoryDeduper[V]) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.seen))
}
