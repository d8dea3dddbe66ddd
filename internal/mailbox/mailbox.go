package mailbox

import (
	"context"
	"sync"
)

// Mailbox is a single-slot buffer where the latest job always wins.
// It is NOT a queue: a burst of triggers while a run is in progress
// collapses into one pending run.
type Mailbox[T any] struct {
	mu sync.Mutex // serializes Put
	ch chan T
}

// New creates an empty mailbox.
func New[T any]() *Mailbox[T] {
	return &Mailbox[T]{ch: make(chan T, 1)}
}

// Put stores a job, replacing any pending one. It never blocks.
func (m *Mailbox[T]) Put(j T) {
	m.mu.Lock()
	defer m.mu.Unlock()

	select {
	case <-m.ch:
	default:
	}
	m.ch <- j
}

// Take blocks until a job is available or ctx is done.
func (m *Mailbox[T]) Take(ctx context.Context) (T, bool) {
	select {
	case j := <-m.ch:
		return j, true
	case <-ctx.Done():
		var zero T
		return zero, false
	}
}

// TryTake returns the pending job, if any. It never blocks.
func (m *Mailbox[T]) TryTake() (T, bool) {
	select {
	case j := <-m.ch:
		return j, true
	default:
		var zero T
		return zero, false
	}
}

// HasJob reports whether a job is currently waiting.
func (m *Mailbox[T]) HasJob() bool {
	return len(m.ch) > 0
}
