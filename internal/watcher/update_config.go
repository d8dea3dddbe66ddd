package watcher

import (
	"github.com/raoulx24/backup-collector/internal/config"
)

// UpdateConfig updates watcher fields atomically for hot-reload. Mode and
// root changes take effect on the next Start.
func (w *Watcher) UpdateConfig(cfg config.WatchConfig, storage config.StorageConfig) {
	w.mu.Lock()
	defer w.mu.Unlock()

	rootChanged := storage.Root != w.root

	w.root = storage.Root
	w.reserved = []string{storage.MonthlyDir, storage.YearlyDir}
	w.interval = cfg.PollInterval
	w.mode = cfg.Mode
	w.debounce = cfg.DebounceWindow

	if rootChanged {
		w.last = fingerprint{}
		w.seen = false
	}
}
