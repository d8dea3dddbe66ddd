// Package retention selects monthly and yearly checkpoints from a set of
// snapshot names.
//
// Selection is a pure function of the names and the clock: it groups names
// by tag, keeps the latest snapshot of every finished month, drops
// incremental backups, and rolls the monthly survivors up into years.
package retention

import (
	"errors"
	"time"

	"github.com/raoulx24/backup-collector/internal/snapshot"
)

// Selector computes retention sets.
type Selector struct {
	classifier Classifier
	sink       EventSink
	now        func() time.Time
}

// Option configures a Selector.
type Option func(*Selector)

// WithClassifier replaces the default increment-marker classifier.
func WithClassifier(c Classifier) Option {
	return func(s *Selector) { s.classifier = c }
}

// WithEventSink routes selection events to sink.
func WithEventSink(sink EventSink) Option {
	return func(s *Selector) { s.sink = sink }
}

// WithClock sets the source of "now" used to find the current period.
func WithClock(now func() time.Time) Option {
	return func(s *Selector) { s.now = now }
}

// New creates a selector. Without options it uses the local clock, the
// default classifier and discards events.
func New(opts ...Option) *Selector {
	s := &Selector{
		classifier: defaultClassifier,
		sink:       discardSink{},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Plan is the outcome of a selection over one snapshot folder.
type Plan struct {
	Monthly []string
	Yearly  []string
}

// Plan runs the monthly pass, drops incrementals, then rolls the result up
// into years. The error reports malformed names; the plan covers the rest.
func (s *Selector) Plan(names []string) (Plan, error) {
	monthly, err := s.SelectMonthly(names)
	monthly = s.FilterFullBackups(monthly)

	yearly, yerr := s.SelectYearly(monthly)

	return Plan{Monthly: monthly, Yearly: yearly}, errors.Join(err, yerr)
}

// SelectMonthly keeps the latest snapshot of each tag for every finished
// month. Output is ordered by tag, then time.
func (s *Selector) SelectMonthly(names []string) ([]string, error) {
	return s.selectByBucket(names, Month)
}

// SelectYearly rolls monthly-retained names up into years. It must be fed
// the output of the monthly pass, not the raw snapshot list.
func (s *Selector) SelectYearly(monthlyRetained []string) ([]string, error) {
	return s.selectByBucket(monthlyRetained, Year)
}

// FilterFullBackups drops names whose tag the classifier considers
// incremental.
func (s *Selector) FilterFullBackups(selected []string) []string {
	var kept []string
	for _, raw := range selected {
		n, err := snapshot.Parse(raw)
		if err != nil {
			s.reportMalformed(err)
			continue
		}
		if !s.classifier.IsFullBackup(n.Tag) {
			s.sink.Emit(Event{Kind: KindSkippedIncrement, Detail: raw})
			continue
		}
		kept = append(kept, raw)
	}
	return kept
}

func (s *Selector) selectByBucket(names []string, width Width) ([]string, error) {
	groups, err := snapshot.GroupByTag(names)
	if err != nil {
		s.reportMalformed(err)
	}

	var result []string
	for _, tag := range groups.Tags() {
		for _, ts := range s.selectMaxPerBucket(tag, groups[tag], width) {
			result = append(result, snapshot.Name{Timestamp: ts, Tag: tag}.String())
		}
	}
	return result, err
}

func (s *Selector) reportMalformed(err error) {
	var errs []error
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	} else {
		errs = []error{err}
	}
	for _, e := range errs {
		s.sink.Emit(Event{Kind: KindMalformedName, Detail: e.Error()})
	}
}
