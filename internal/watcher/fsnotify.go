package watcher

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/raoulx24/backup-collector/internal/walker"
)

// StartFsNotify watches the root, every server folder and every source
// folder, and triggers a run once events have settled for the debounce
// window.
func (w *Watcher) StartFsNotify(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	w.mu.RLock()
	root := w.root
	debounce := w.debounce
	w.mu.RUnlock()

	if err := w.addTree(fw, root); err != nil {
		return err
	}

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				w.log.Error("events channel closed")
				return nil
			}

			level, relevant := w.classify(root, ev.Name)
			if !relevant {
				continue
			}
			w.log.Debug("event", "name", ev.Name, "op", ev.Op)

			// new server or source folders join the watch
			if ev.Has(fsnotify.Create) && level < levelFile {
				if st, err := os.Stat(ev.Name); err == nil && st.IsDir() {
					if err := fw.Add(ev.Name); err != nil {
						w.log.Warn("cannot watch directory", "path", ev.Name, "error", err)
					}
				}
			}

			name := ev.Name
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() { w.trigger(name) })

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Error("fsnotify error", "error", err)
		}
	}
}

const (
	levelServer = 1
	levelSource = 2
	levelFile   = 3
)

// classify returns how deep path lies below root and whether changes there
// matter: hidden entries, retention folders and anything below a source's
// files are ignored.
func (w *Watcher) classify(root, path string) (int, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return 0, false
	}

	parts := strings.Split(rel, string(filepath.Separator))
	for _, p := range parts {
		if strings.HasPrefix(p, ".") {
			return 0, false
		}
	}

	w.mu.RLock()
	reserved := w.reserved
	w.mu.RUnlock()

	if len(parts) >= levelSource && slices.Contains(reserved, parts[levelSource-1]) {
		return 0, false
	}
	if len(parts) > levelFile {
		return 0, false
	}
	return len(parts), true
}

func (w *Watcher) addTree(fw *fsnotify.Watcher, root string) error {
	if err := fw.Add(root); err != nil {
		return err
	}

	w.mu.RLock()
	reserved := w.reserved
	w.mu.RUnlock()

	wk := walker.New(root, nil, reserved...)
	servers, err := wk.Servers()
	if err != nil {
		return err
	}
	for _, srv := range servers {
		if err := fw.Add(srv.Path); err != nil {
			return err
		}
		sources, err := wk.Sources(srv)
		if err != nil {
			return err
		}
		for _, src := range sources {
			if src.Name == walker.ServerFiles {
				continue
			}
			if err := fw.Add(src.Path); err != nil {
				return err
			}
		}
	}
	return nil
}
