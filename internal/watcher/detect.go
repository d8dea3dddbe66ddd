package watcher

import (
	"fmt"
	"time"

	"github.com/raoulx24/backup-collector/internal/walker"
)

// fingerprint summarizes every source file under the root. Any new, removed
// or rewritten snapshot changes it.
type fingerprint struct {
	files  int
	bytes  int64
	latest time.Time
}

func (f fingerprint) String() string {
	return fmt.Sprintf("%d files, %d bytes, latest %s", f.files, f.bytes, f.latest.Format(time.RFC3339))
}

func (f fingerprint) same(o fingerprint) bool {
	return f.files == o.files && f.bytes == o.bytes && f.latest.Equal(o.latest)
}

func (w *Watcher) scan() (fingerprint, error) {
	w.mu.RLock()
	root := w.root
	reserved := w.reserved
	w.mu.RUnlock()

	wk := walker.New(root, nil, reserved...)
	servers, err := wk.Servers()
	if err != nil {
		return fingerprint{}, err
	}

	var fp fingerprint
	for _, srv := range servers {
		sources, err := wk.Sources(srv)
		if err != nil {
			return fingerprint{}, err
		}
		for _, src := range sources {
			for _, f := range src.Files {
				fp.files++
				fp.bytes += f.Size
				if f.ModTime.After(fp.latest) {
					fp.latest = f.ModTime
				}
			}
		}
	}
	return fp, nil
}

// detect triggers a run when the fingerprint moved since the last scan. The
// first scan only records a baseline.
func (w *Watcher) detect() {
	fp, err := w.scan()
	if err != nil {
		w.log.Error("watcher: scan failed", "error", err)
		return
	}

	w.mu.Lock()
	last, seen := w.last, w.seen
	w.last, w.seen = fp, true
	w.mu.Unlock()

	if !seen || last.same(fp) {
		return
	}
	w.trigger(fp.String())
}
