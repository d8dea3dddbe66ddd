// Package scheduler triggers collection runs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/raoulx24/backup-collector/internal/logging"
	"github.com/raoulx24/backup-collector/internal/mailbox"
	"github.com/raoulx24/backup-collector/internal/worker"
)

// Scheduler puts a job into the mailbox every time the cron expression
// fires. It never runs a collection itself.
//
// Common expressions:
//   - "0 4 1 * *"  - 04:00 on the first of every month
//   - "0 3 * * *"  - daily at 03:00
type Scheduler struct {
	mu      sync.Mutex
	cron    *cron.Cron
	spec    string
	entry   cron.EntryID
	mb      *mailbox.Mailbox[worker.Job]
	log     logging.Logger
	running bool
}

// New creates a scheduler for spec. An empty spec disables it.
func New(spec string, mb *mailbox.Mailbox[worker.Job], log logging.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		spec: spec,
		mb:   mb,
		log:  log,
	}
}

// Start registers the schedule and starts the cron loop. It stops when ctx
// is done.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.spec == "" {
		s.log.Info("schedule not configured, skipping scheduler")
		return nil
	}

	if err := s.register(s.spec); err != nil {
		return err
	}

	s.cron.Start()
	s.running = true
	s.log.Info("scheduler started", "schedule", s.spec)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Reschedule replaces the cron expression of a running scheduler.
func (s *Scheduler) Reschedule(spec string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if spec == s.spec {
		return nil
	}
	if _, err := cron.ParseStandard(spec); spec != "" && err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", spec, err)
	}

	if s.entry != 0 {
		s.cron.Remove(s.entry)
		s.entry = 0
	}
	s.spec = spec
	if spec == "" {
		s.log.Info("schedule cleared")
		return nil
	}

	if err := s.register(spec); err != nil {
		return err
	}
	if !s.running {
		s.cron.Start()
		s.running = true
	}
	s.log.Info("schedule updated", "schedule", spec)
	return nil
}

func (s *Scheduler) register(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", spec, err)
	}

	id, err := s.cron.AddFunc(spec, s.fire)
	if err != nil {
		return fmt.Errorf("failed to schedule collection: %w", err)
	}
	s.entry = id
	return nil
}

func (s *Scheduler) fire() {
	s.log.Debug("schedule fired")
	s.mb.Put(worker.Job{Reason: "schedule", At: time.Now()})
}

// Stop stops the cron loop.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		<-s.cron.Stop().Done()
		s.running = false
		s.log.Info("scheduler stopped")
	}
}

// IsRunning returns true if the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun returns the next scheduled trigger, or nil when none is set.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entry == 0 {
		return nil
	}
	next := s.cron.Entry(s.entry).Next
	return &next
}
