// Package collector runs the retention pipeline over every server under the
// storage root and copies the selected snapshots into each server's monthly
// and yearly folders.
package collector

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/raoulx24/backup-collector/internal/config"
	"github.com/raoulx24/backup-collector/internal/fs"
	"github.com/raoulx24/backup-collector/internal/lockfile"
	"github.com/raoulx24/backup-collector/internal/logging"
	"github.com/raoulx24/backup-collector/internal/metrics"
	"github.com/raoulx24/backup-collector/internal/retention"
	"github.com/raoulx24/backup-collector/internal/walker"
)

// Collector materializes monthly and yearly retention sets.
type Collector struct {
	mu      sync.RWMutex
	cfg     *config.Config
	fs      fs.FS
	log     logging.Logger
	metrics *metrics.Collector
	now     func() time.Time
}

// New creates a collector. A nil filesystem uses the OS, nil metrics use a
// private registry.
func New(cfg *config.Config, log logging.Logger, m *metrics.Collector, filesystem fs.FS) *Collector {
	if filesystem == nil {
		filesystem = fs.New()
	}
	if m == nil {
		m = metrics.New(nil)
	}
	return &Collector{
		cfg:     cfg,
		fs:      filesystem,
		log:     log,
		metrics: m,
		now:     time.Now,
	}
}

// WithClock overrides the clock used to find the current period.
func (c *Collector) WithClock(now func() time.Time) *Collector {
	c.now = now
	return c
}

// UpdateConfig swaps the configuration used by the next run.
func (c *Collector) UpdateConfig(cfg *config.Config) {
	c.mu.Lock()
	c.cfg = cfg
	c.mu.Unlock()
}

// Run performs one full discover, select and copy pass.
func (c *Collector) Run(ctx context.Context) (Summary, error) {
	c.mu.RLock()
	cfg := *c.cfg
	c.mu.RUnlock()

	return c.run(ctx, cfg, cfg.Run.DryRun)
}

// Plan computes the retention sets without touching the filesystem.
func (c *Collector) Plan(ctx context.Context) (Summary, error) {
	c.mu.RLock()
	cfg := *c.cfg
	c.mu.RUnlock()

	return c.run(ctx, cfg, true)
}

func (c *Collector) run(ctx context.Context, cfg config.Config, dryRun bool) (sum Summary, err error) {
	started := c.now()
	sum = newSummary(uuid.NewString(), dryRun)
	log := c.log.With("run_id", sum.RunID)

	defer func() {
		c.finish(log, cfg, &sum, started, err)
	}()

	classifier, err := retention.NewClassifier(
		cfg.Retention.Classifier,
		cfg.Retention.IncrementPattern,
		cfg.Retention.FullMarker,
	)
	if err != nil {
		return sum, err
	}

	root := cfg.Storage.Root
	if !dryRun {
		lock, err := c.acquire(root, cfg.Storage.LockFile)
		if err != nil {
			return sum, err
		}
		defer func() {
			if rerr := lock.Release(); rerr != nil {
				log.Warn("releasing lock", "error", rerr)
			}
		}()
	}

	w := walker.New(root, c.fs, cfg.Storage.MonthlyDir, cfg.Storage.YearlyDir)
	servers, err := w.Servers()
	if err != nil {
		return sum, err
	}

	log.Info("collection started", "root", root, "servers", len(servers), "dry_run", dryRun)
	c.metrics.ResetSelected()

	var errs []error
	for _, srv := range servers {
		if err := ctx.Err(); err != nil {
			return sum, errors.Join(append(errs, err)...)
		}

		p := &pipeline{
			c:          c,
			cfg:        cfg,
			dryRun:     dryRun,
			walker:     w,
			server:     srv,
			classifier: classifier,
			sum:        &sum,
			log:        log.With("server", srv.Name),
			selected:   map[retention.Width]int{},
		}
		if err := p.run(ctx); err != nil {
			sum.Failed = append(sum.Failed, srv.Name)
			err = fmt.Errorf("server %s: %w", srv.Name, err)
			if cfg.Run.FailFast {
				return sum, err
			}
			log.Error("server failed", "server", srv.Name, "error", err)
			errs = append(errs, err)
			continue
		}
		sum.Servers++
	}

	return sum, errors.Join(errs...)
}

// acquire takes the run lock. "-" disables locking.
func (c *Collector) acquire(root, name string) (*lockfile.Lock, error) {
	if name == "-" {
		return nil, nil
	}
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, name)
	}
	return lockfile.Acquire(path)
}

func (c *Collector) finish(log logging.Logger, cfg config.Config, sum *Summary, started time.Time, err error) {
	finished := c.now()
	sum.Duration = finished.Sub(started)

	result := "success"
	if err != nil {
		result = "failure"
	}
	c.metrics.RecordRun(result, finished, sum.Duration)

	if cfg.Metrics.Textfile != "" {
		if werr := c.metrics.WriteTextfile(cfg.Metrics.Textfile); werr != nil {
			log.Warn("metrics not written", "error", werr)
		}
	}

	args := []any{
		"servers", sum.Servers,
		"monthly", sum.Monthly,
		"yearly", sum.Yearly,
		"copied", sum.Copied,
		"unchanged", sum.Unchanged,
		"duration", sum.Duration,
	}
	if err != nil {
		log.Error("collection failed", append(args, "error", err)...)
		return
	}
	log.Info("collection finished", args...)
}
