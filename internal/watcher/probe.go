package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ProbeResult reports whether fsnotify is usable and why.
type ProbeResult struct {
	FsnotifySupported bool   // true if events are delivered
	Reason            string // explanation when unsupported
}

// Probe checks whether fsnotify reliably reports events in dir by creating
// and renaming a hidden file there. Network mounts often fail this.
func Probe(dir string) ProbeResult {
	st, err := os.Stat(dir)
	if err != nil {
		return ProbeResult{false, fmt.Sprintf("stat failed: %v", err)}
	}
	if !st.IsDir() {
		return ProbeResult{false, "not a directory"}
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return ProbeResult{false, fmt.Sprintf("fsnotify unavailable: %v", err)}
	}
	defer fw.Close()

	if err := fw.Add(dir); err != nil {
		return ProbeResult{false, fmt.Sprintf("cannot watch directory: %v", err)}
	}

	tmp := filepath.Join(dir, ".collector-probe.tmp")
	final := filepath.Join(dir, ".collector-probe")

	f, err := os.Create(tmp)
	if err != nil {
		return ProbeResult{false, fmt.Sprintf("cannot create probe file: %v", err)}
	}
	f.Close()

	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return ProbeResult{false, fmt.Sprintf("rename failed: %v", err)}
	}
	defer os.Remove(final)

	timeout := time.After(200 * time.Millisecond)
	for {
		select {
		case ev := <-fw.Events:
			if ev.Op&(fsnotify.Rename|fsnotify.Create|fsnotify.Write) != 0 {
				return ProbeResult{true, ""}
			}
		case err := <-fw.Errors:
			return ProbeResult{false, fmt.Sprintf("fsnotify error: %v", err)}
		case <-timeout:
			return ProbeResult{false, "no events received (rename not reported)"}
		}
	}
}
