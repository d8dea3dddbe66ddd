package watcher

import (
	"context"
	"time"
)

// StartPolling scans the tree once for a baseline, then again after every
// poll interval. The interval is re-read before each wait, so a reloaded
// pollInterval applies from the next scan on.
func (w *Watcher) StartPolling(ctx context.Context) {
	w.detect()

	timer := time.NewTimer(w.pollInterval())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			w.detect()
			timer.Reset(w.pollInterval())
		}
	}
}

func (w *Watcher) pollInterval() time.Duration {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.interval <= 0 {
		return time.Minute
	}
	return w.interval
}
