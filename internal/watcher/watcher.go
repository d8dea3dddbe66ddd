// Package watcher monitors the storage root and requests a collection run
// when new snapshot files appear.
package watcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/raoulx24/backup-collector/internal/config"
	"github.com/raoulx24/backup-collector/internal/logging"
	"github.com/raoulx24/backup-collector/internal/mailbox"
	"github.com/raoulx24/backup-collector/internal/worker"
)

// Watcher observes the source folders of every server. Changes inside the
// retention folders are ignored, otherwise each run would trigger the next.
type Watcher struct {
	mu sync.RWMutex

	root     string
	reserved []string
	interval time.Duration
	mode     string
	debounce time.Duration

	log logging.Logger

	last fingerprint
	seen bool

	mb *mailbox.Mailbox[worker.Job]
}

// New creates a watcher from the watch and storage configuration.
func New(cfg config.WatchConfig, storage config.StorageConfig, log logging.Logger, mb *mailbox.Mailbox[worker.Job]) *Watcher {
	return &Watcher{
		root:     storage.Root,
		reserved: []string{storage.MonthlyDir, storage.YearlyDir},
		interval: cfg.PollInterval,
		mode:     cfg.Mode,
		debounce: cfg.DebounceWindow,
		log:      log,
		mb:       mb,
	}
}

// Start chooses the correct watching strategy based on config.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.RLock()
	mode := w.mode
	root := w.root
	w.mu.RUnlock()

	switch mode {
	case "fsnotify":
		return w.StartFsNotify(ctx)

	case "poll":
		w.StartPolling(ctx)
		return nil

	case "auto":
		res := Probe(root)
		if res.FsnotifySupported {
			return w.StartFsNotify(ctx)
		}
		w.log.Warn("fsnotify disabled", "reason", res.Reason)
		w.StartPolling(ctx)
		return nil

	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
}

// trigger requests a run.
func (w *Watcher) trigger(why string) {
	w.log.Info("snapshots changed", "detail", why)
	w.mb.Put(worker.Job{Reason: "watch", At: time.Now()})
}
