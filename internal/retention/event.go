package retention

import "sync"

// Kind classifies a selection event.
type Kind string

const (
	KindSkippedCurrentPeriod Kind = "SKIPPED_CURRENT_PERIOD"
	KindSkippedFuturePeriod  Kind = "SKIPPED_FUTURE_PERIOD"
	KindSkippedIncrement     Kind = "SKIPPED_INCREMENT"
	KindMalformedName        Kind = "MALFORMED_NAME"
)

// Event is emitted by the selector for every candidate it leaves out.
type Event struct {
	Kind   Kind
	Detail string
}

// EventSink receives selection events. Selection never writes text itself.
type EventSink interface {
	Emit(Event)
}

// SinkFunc adapts a function to EventSink.
type SinkFunc func(Event)

func (f SinkFunc) Emit(e Event) { f(e) }

type discardSink struct{}

func (discardSink) Emit(Event) {}

// Recorder collects events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Emit(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Count returns how many events of kind were recorded.
func (r *Recorder) Count(kind Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}
