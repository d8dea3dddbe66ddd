package main

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/raoulx24/backup-collector/internal/config"
	"github.com/raoulx24/backup-collector/internal/logging"
	"github.com/raoulx24/backup-collector/internal/mailbox"
	"github.com/raoulx24/backup-collector/internal/scheduler"
	"github.com/raoulx24/backup-collector/internal/watcher"
	"github.com/raoulx24/backup-collector/internal/worker"
)

// watchControl owns the watcher's lifecycle so a reload can turn watching
// on or off, or restart it on a new root or mode.
type watchControl struct {
	parent context.Context
	mb     *mailbox.Mailbox[worker.Job]
	log    logging.Logger

	mu     sync.Mutex
	w      *watcher.Watcher
	cancel context.CancelFunc
	done   chan struct{}
	mode   string
	root   string
}

func newWatchControl(ctx context.Context, mb *mailbox.Mailbox[worker.Job], log logging.Logger) *watchControl {
	return &watchControl{parent: ctx, mb: mb, log: log}
}

// apply starts, stops, restarts or updates the watcher to match cfg.
func (c *watchControl) apply(cfg *config.Config) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !cfg.Watch.Enabled {
		c.stopLocked()
		return
	}

	if c.w != nil && c.mode == cfg.Watch.Mode && c.root == cfg.Storage.Root {
		c.w.UpdateConfig(cfg.Watch, cfg.Storage)
		return
	}

	c.stopLocked()

	w := watcher.New(cfg.Watch, cfg.Storage, c.log, c.mb)
	ctx, cancel := context.WithCancel(c.parent)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := w.Start(ctx); err != nil {
			c.log.Error("watcher stopped", "error", err)
		}
	}()

	c.w, c.cancel, c.done = w, cancel, done
	c.mode, c.root = cfg.Watch.Mode, cfg.Storage.Root
	c.log.Info("watcher started", "mode", c.mode, "root", c.root)
}

func (c *watchControl) stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

func (c *watchControl) stopLocked() {
	if c.w == nil {
		return
	}
	c.cancel()
	<-c.done
	c.w, c.cancel, c.done = nil, nil, nil
	c.log.Info("watcher stopped")
}

func (c *watchControl) running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.w != nil
}

// reload applies cfg to a serving process. A logging section that fails to
// build keeps the previous output; the other sections still apply.
func (a *app) reload(cfg *config.Config, sched *scheduler.Scheduler, watch *watchControl) error {
	var errs []error

	if cfg.Logging != a.cfg.Logging {
		logg, closer, err := logging.New(cfg.Logging)
		if err != nil {
			errs = append(errs, fmt.Errorf("logging: %w", err))
			cfg.Logging = a.cfg.Logging
		} else if err := a.log.Replace(logg, closer); err != nil {
			a.log.Warn("closing previous log output", "error", err)
		}
	}

	a.collector.UpdateConfig(cfg)
	if err := sched.Reschedule(cfg.Schedule.Cron); err != nil {
		errs = append(errs, fmt.Errorf("schedule: %w", err))
	}
	watch.apply(cfg)

	a.cfg = cfg
	return errors.Join(errs...)
}
