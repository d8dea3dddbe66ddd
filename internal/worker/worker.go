// Package worker executes collection runs requested through a mailbox.
package worker

import (
	"context"

	"github.com/raoulx24/backup-collector/internal/collector"
	"github.com/raoulx24/backup-collector/internal/logging"
	"github.com/raoulx24/backup-collector/internal/mailbox"
)

// Runner performs one collection pass.
type Runner interface {
	Run(ctx context.Context) (collector.Summary, error)
}

// Worker runs one collection at a time. Triggers arriving during a run
// collapse into a single follow-up run.
type Worker struct {
	runner Runner
	log    logging.Logger
	mb     *mailbox.Mailbox[Job]
}

// New creates a worker reading jobs from mb.
func New(runner Runner, log logging.Logger, mb *mailbox.Mailbox[Job]) *Worker {
	log.Debug("creating worker")
	return &Worker{
		runner: runner,
		log:    log,
		mb:     mb,
	}
}

// Start runs the worker loop until ctx is done.
func (w *Worker) Start(ctx context.Context) {
	w.log.Info("starting worker")
	for {
		job, ok := w.mb.Take(ctx)
		if !ok {
			w.log.Info("worker stopped")
			return
		}
		w.Handle(ctx, job)
	}
}

// Handle executes a single job. Run errors are logged, never fatal: the next
// trigger gets a fresh attempt.
func (w *Worker) Handle(ctx context.Context, job Job) {
	w.log.Info("collection triggered", "reason", job.Reason, "at", job.At)

	sum, err := w.runner.Run(ctx)
	if err != nil {
		w.log.Error("worker: collection failed", "run_id", sum.RunID, "error", err)
		return
	}
	w.log.Debug("worker: collection done", "run_id", sum.RunID, "copied", sum.Copied)
}
