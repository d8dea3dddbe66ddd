package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/raoulx24/backup-collector/internal/logging"
	"github.com/raoulx24/backup-collector/internal/mailbox"
	"github.com/raoulx24/backup-collector/internal/worker"
)

func TestScheduler_Start(t *testing.T) {
	tests := []struct {
		name        string
		schedule    string
		wantRunning bool
		wantError   bool
	}{
		{name: "monthly schedule", schedule: "0 4 1 * *", wantRunning: true},
		{name: "daily schedule", schedule: "0 3 * * *", wantRunning: true},
		{name: "empty schedule - no error, not running", schedule: ""},
		{name: "invalid schedule", schedule: "every monday", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.schedule, mailbox.New[worker.Job](), logging.Nop())

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			err := s.Start(ctx)
			if (err != nil) != tt.wantError {
				t.Errorf("Start() error = %v, wantError %v", err, tt.wantError)
			}
			if s.IsRunning() != tt.wantRunning {
				t.Errorf("IsRunning() = %v, want %v", s.IsRunning(), tt.wantRunning)
			}

			if tt.wantRunning {
				next := s.NextRun()
				if next == nil {
					t.Fatal("NextRun() returned nil for running scheduler")
				}
				if !next.After(time.Now()) {
					t.Errorf("NextRun() = %v, want a future time", next)
				}
				s.Stop()
				if s.IsRunning() {
					t.Error("scheduler still running after Stop()")
				}
			}
		})
	}
}

func TestScheduler_FirePutsJob(t *testing.T) {
	mb := mailbox.New[worker.Job]()
	s := New("0 4 1 * *", mb, logging.Nop())

	s.fire()

	job, ok := mb.TryTake()
	if !ok {
		t.Fatal("fire() did not enqueue a job")
	}
	if job.Reason != "schedule" {
		t.Errorf("Reason = %q, want schedule", job.Reason)
	}
}

func TestScheduler_Reschedule(t *testing.T) {
	s := New("", mailbox.New[worker.Job](), logging.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if s.NextRun() != nil {
		t.Error("NextRun() should be nil without a schedule")
	}

	if err := s.Reschedule("not a schedule"); err == nil {
		t.Error("Reschedule() should reject an invalid expression")
	}

	if err := s.Reschedule("0 3 * * *"); err != nil {
		t.Fatalf("Reschedule() error = %v", err)
	}
	if !s.IsRunning() || s.NextRun() == nil {
		t.Error("scheduler should run after a schedule is set")
	}

	if err := s.Reschedule(""); err != nil {
		t.Fatalf("Reschedule(\"\") error = %v", err)
	}
	if s.NextRun() != nil {
		t.Error("NextRun() should be nil after clearing the schedule")
	}
	s.Stop()
}
