package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector_Record(t *testing.T) {
	c := New(prometheus.NewRegistry())

	c.RecordEvent("SKIPPED_INCREMENT")
	c.RecordEvent("SKIPPED_INCREMENT")
	c.RecordCopy("web1", "monthly", "copied")
	c.RecordCopy("web1", "monthly", "unchanged")
	c.SetSelected("web1", "yearly", 3)
	c.RecordRun("success", time.Unix(1700000000, 0), 2*time.Second)

	if got := testutil.ToFloat64(c.events.WithLabelValues("SKIPPED_INCREMENT")); got != 2 {
		t.Errorf("events = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.copies.WithLabelValues("web1", "monthly", "copied")); got != 1 {
		t.Errorf("copied = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.selected.WithLabelValues("web1", "yearly")); got != 3 {
		t.Errorf("selected = %v, want 3", got)
	}
	if got := testutil.ToFloat64(c.lastRun); got != 1700000000 {
		t.Errorf("last run = %v", got)
	}
	if got := testutil.ToFloat64(c.lastDuration); got != 2 {
		t.Errorf("last duration = %v, want 2", got)
	}
}

func TestCollector_WriteTextfile(t *testing.T) {
	c := New(nil)
	c.RecordRun("failure", time.Now(), time.Second)

	path := filepath.Join(t.TempDir(), "backup_collector.prom")
	if err := c.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading textfile: %v", err)
	}
	if !strings.Contains(string(data), `backup_collector_runs_total{result="failure"} 1`) {
		t.Errorf("textfile = %s", data)
	}
}

func TestCollector_ResetSelected(t *testing.T) {
	c := New(nil)
	c.SetSelected("web1", "monthly", 5)
	c.SetSelected("db1", "monthly", 1)

	n, err := testutil.GatherAndCount(c.Registry(), "backup_collector_selected_snapshots")
	if err != nil || n != 2 {
		t.Fatalf("selected series = %d, %v, want 2", n, err)
	}

	c.ResetSelected()
	c.SetSelected("web1", "monthly", 5)

	n, err = testutil.GatherAndCount(c.Registry(), "backup_collector_selected_snapshots")
	if err != nil || n != 1 {
		t.Errorf("selected series after reset = %d, %v, want 1", n, err)
	}
}
