package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/raoulx24/backup-collector/internal/config"
	"github.com/raoulx24/backup-collector/internal/logging"
	"github.com/raoulx24/backup-collector/internal/mailbox"
	"github.com/raoulx24/backup-collector/internal/worker"
)

func newWatcher(root, mode string) (*Watcher, *mailbox.Mailbox[worker.Job]) {
	mb := mailbox.New[worker.Job]()
	w := New(
		config.WatchConfig{Mode: mode, PollInterval: 20 * time.Millisecond, DebounceWindow: 20 * time.Millisecond},
		config.StorageConfig{Root: root, MonthlyDir: "monthly", YearlyDir: "yearly"},
		logging.Nop(),
		mb,
	)
	return w, mb
}

func write(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(path), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestWatcher_Classify(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "srv", "storage")
	w, _ := newWatcher(root, "poll")

	tests := []struct {
		name      string
		path      string
		wantLevel int
		wantOK    bool
	}{
		{name: "server", path: filepath.Join(root, "web1"), wantLevel: levelServer, wantOK: true},
		{name: "source", path: filepath.Join(root, "web1", "mysql"), wantLevel: levelSource, wantOK: true},
		{name: "server folder snapshot", path: filepath.Join(root, "web1", "2017-01-01--00-00-00_a"), wantLevel: levelSource, wantOK: true},
		{name: "snapshot", path: filepath.Join(root, "web1", "mysql", "2017-01-01--00-00-00_a"), wantLevel: levelFile, wantOK: true},
		{name: "retention folder", path: filepath.Join(root, "web1", "monthly")},
		{name: "retention copy", path: filepath.Join(root, "web1", "yearly", "x")},
		{name: "temp copy", path: filepath.Join(root, "web1", "mysql", ".x.tmp-1")},
		{name: "lock file", path: filepath.Join(root, ".backup-collector.lock")},
		{name: "too deep", path: filepath.Join(root, "web1", "mysql", "a", "b")},
		{name: "root itself", path: root},
		{name: "outside", path: filepath.Join(string(filepath.Separator), "etc")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, ok := w.classify(root, tt.path)
			if ok != tt.wantOK || (ok && level != tt.wantLevel) {
				t.Errorf("classify(%s) = %d, %v, want %d, %v", tt.path, level, ok, tt.wantLevel, tt.wantOK)
			}
		})
	}
}

func TestWatcher_Detect(t *testing.T) {
	root := t.TempDir()
	w, mb := newWatcher(root, "poll")

	w.detect()
	if mb.HasJob() {
		t.Fatal("baseline scan must not trigger")
	}

	write(t, filepath.Join(root, "web1", "mysql", "2017-01-01--00-00-00_mydb.00.sql"))
	w.detect()
	job, ok := mb.TryTake()
	if !ok || job.Reason != "watch" {
		t.Fatalf("new snapshot did not trigger: %+v, %v", job, ok)
	}

	w.detect()
	if mb.HasJob() {
		t.Error("unchanged tree must not trigger")
	}

	// snapshots lying directly in a server folder count too
	write(t, filepath.Join(root, "web1", "2017-01-02--00-00-00_site.tar"))
	w.detect()
	if _, ok := mb.TryTake(); !ok {
		t.Error("server folder snapshot did not trigger")
	}

	// copies into retention folders are invisible
	write(t, filepath.Join(root, "web1", "monthly", "2017-01-01--00-00-00_mydb.00.sql"))
	w.detect()
	if mb.HasJob() {
		t.Error("retention folder change must not trigger")
	}
}

func TestWatcher_Polling(t *testing.T) {
	root := t.TempDir()
	w, mb := newWatcher(root, "poll")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	write(t, filepath.Join(root, "db1", "lxd", "2017-02-01--00-00-00_container.tar"))

	deadline := time.Now().Add(2 * time.Second)
	for !mb.HasJob() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if !mb.HasJob() {
		t.Fatal("poller did not trigger")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Start() error = %v", err)
	}
}

func TestWatcher_PollIntervalReload(t *testing.T) {
	root := t.TempDir()
	w, mb := newWatcher(root, "poll")
	w.UpdateConfig(
		config.WatchConfig{Mode: "poll", PollInterval: time.Hour, DebounceWindow: time.Second},
		config.StorageConfig{Root: root, MonthlyDir: "monthly", YearlyDir: "yearly"},
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.StartPolling(ctx)

	time.Sleep(50 * time.Millisecond)
	write(t, filepath.Join(root, "db1", "lxd", "2017-02-01--00-00-00_container.tar"))
	time.Sleep(100 * time.Millisecond)
	if mb.HasJob() {
		t.Fatal("hourly poller triggered early")
	}

	if got := w.pollInterval(); got != time.Hour {
		t.Errorf("pollInterval() = %v, want 1h", got)
	}
	w.UpdateConfig(
		config.WatchConfig{Mode: "poll", PollInterval: 0, DebounceWindow: time.Second},
		config.StorageConfig{Root: root, MonthlyDir: "monthly", YearlyDir: "yearly"},
	)
	if got := w.pollInterval(); got != time.Minute {
		t.Errorf("pollInterval() after zero interval = %v, want 1m", got)
	}
}

func TestWatcher_UnknownMode(t *testing.T) {
	w, _ := newWatcher(t.TempDir(), "inotify")
	if err := w.Start(context.Background()); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestProbe_NotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	write(t, file)

	if res := Probe(file); res.FsnotifySupported || res.Reason == "" {
		t.Errorf("Probe(file) = %+v", res)
	}
	if res := Probe(filepath.Join(t.TempDir(), "missing")); res.FsnotifySupported {
		t.Errorf("Probe(missing) = %+v", res)
	}
}
