// Package queue provides the bounded FIFO buffer of pending events
// awaiting delivery, with batch lease semantics for flush attempts.
//
// A flush removes a batch from the head with BeginBatch, delivers it, and
// either CommitBatch (discard, delivery succeeded or is unrecoverable) or
// AbortBatch (reinsert at the head in original order, delivery will be
// retried). At most one batch may be leased at a time.
package queue

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/randalmurphal/capture/pkg/capture/event"
)

// Sentinel errors for batch operations.
var (
	// ErrBatchInFlight indicates BeginBatch was called while a batch lease
	// is outstanding.
	ErrBatchInFlight = errors.New("batch already in flight")

	// ErrUnknownBatch indicates a commit or abort for a batch ID that is
	// not the outstanding lease.
	ErrUnknownBatch = errors.New("unknown batch")

	// ErrEmptyQueue indicates BeginBatch was called with nothing pending.
	ErrEmptyQueue = errors.New("queue is empty")
)

// Batch is a contiguous ordered slice of the pending queue leased for one
// delivery attempt.
type Batch struct {
	// ID identifies the lease for commit/abort.
	ID string

	// Events are the leased events in delivery order.
	Events []event.Event
}

// Queue is a bounded FIFO buffer of pending events.
// All operations are mutually exclusive; Queue is safe for concurrent use.
type Queue struct {
	mu       sync.Mutex
	pending  []event.Event
	maxSize  int
	inflight *Batch
	dropped  uint64
}

// New creates a queue bounded at maxSize events. A maxSize of zero or
// less disables the bound.
func New(maxSize int) *Queue {
	return &Queue{maxSize: maxSize}
}

// Enqueue appends an event at the tail. If the bound would be exceeded
// the oldest pending events are evicted first. Returns the number of
// events evicted.
func (q *Queue) Enqueue(evt event.Event) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.pending = append(q.pending, evt)
	return q.evictLocked()
}

// Len returns the number of pending events, excluding any leased batch.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// InFlight returns true if a batch lease is outstanding.
func (q *Queue) InFlight() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.inflight != nil
}

// Dropped returns the total number of events evicted under the bound.
func (q *Queue) Dropped() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}

// BeginBatch atomically removes up to max events from the head and leases
// them for delivery. Only one lease may be outstanding at a time.
func (q *Queue) BeginBatch(max int) (Batch, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.inflight != nil {
		return Batch{}, ErrBatchInFlight
	}
	if len(q.pending) == 0 {
		return Batch{}, ErrEmptyQueue
	}

	n := len(q.pending)
	if max > 0 && max < n {
		n = max
	}

	events := make([]event.Event, n)
	copy(events, q.pending[:n])
	q.pending = append(q.pending[:0], q.pending[n:]...)

	batch := Batch{ID: uuid.New().String(), Events: events}
	q.inflight = &batch
	return batch, nil
}

// CommitBatch permanently discards the leased batch.
func (q *Queue) CommitBatch(id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.inflight == nil || q.inflight.ID != id {
		return ErrUnknownBatch
	}
	q.inflight = nil
	return nil
}

// AbortBatch reinserts the leased batch's events at the head, in their
// original relative order, ahead of anything enqueued since. If the
// reinsertion overflows the bound the oldest events are evicted.
func (q *Queue) AbortBatch(id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.inflight == nil || q.inflight.ID != id {
		return ErrUnknownBatch
	}

	restored := q.inflight.Events
	q.pending = append(restored, q.pending...)
	q.inflight = nil
	q.evictLocked()
	return nil
}

// Events returns a point-in-time copy of all buffered events in delivery
// order, with any leased batch ahead of the pending tail. This is the
// view snapshots persist so a crash mid-flush cannot lose the in-flight
// batch.
func (q *Queue) Events() []event.Event {
	q.mu.Lock()
	defer q.mu.Unlock()

	var events []event.Event
	if q.inflight != nil {
		events = append(events, q.inflight.Events...)
	}
	events = append(events, q.pending...)
	out := make([]event.Event, len(events))
	copy(out, events)
	return out
}

// Restore replaces the pending contents with the given events, preserving
// their order and applying the bound. Any outstanding lease is discarded.
func (q *Queue) Restore(events []event.Event) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.pending = make([]event.Event, len(events))
	copy(q.pending, events)
	q.inflight = nil
	q.evictLocked()
}

// Clear discards all pending events and any outstanding lease.
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = nil
	q.inflight = nil
}

// evictLocked enforces the bound, dropping from the head.
// Caller must hold q.mu. Returns the number of events evicted.
func (q *Queue) evictLocked() int {
	if q.maxSize <= 0 || len(q.pending) <= q.maxSize {
		return 0
	}
	over := len(q.pending) - q.maxSize
	q.pending = append(q.pending[:0], q.pending[over:]...)
	q.dropped += uint64(over)
	return over
}
