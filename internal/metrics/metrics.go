// Package metrics exposes collector runs as Prometheus metrics.
//
// The collector is a batch job, so metrics are not served over HTTP. After
// each run they are written in the text exposition format to a file that
// node_exporter's textfile collector picks up.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "backup_collector"

// Collector holds the run metrics.
type Collector struct {
	registry *prometheus.Registry

	runs         *prometheus.CounterVec
	events       *prometheus.CounterVec
	copies       *prometheus.CounterVec
	selected     *prometheus.GaugeVec
	lastRun      prometheus.Gauge
	lastDuration prometheus.Gauge
}

// New creates and registers the collector's metrics. A nil registry gets a
// fresh one.
func New(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Collection runs by result.",
		}, []string{"result"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selection_events_total",
			Help:      "Snapshots left out of a retention set, by reason.",
		}, []string{"kind"}),
		copies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "copies_total",
			Help:      "Retained snapshots copied into retention folders.",
		}, []string{"server", "period", "outcome"}),
		selected: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "selected_snapshots",
			Help:      "Snapshots selected for retention in the last run.",
		}, []string{"server", "period"}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished.",
		}),
		lastDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_duration_seconds",
			Help:      "Duration of the last run.",
		}),
	}

	registry.MustRegister(c.runs, c.events, c.copies, c.selected, c.lastRun, c.lastDuration)
	return c
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

func (c *Collector) RecordEvent(kind string) {
	c.events.WithLabelValues(kind).Inc()
}

func (c *Collector) RecordCopy(server, period, outcome string) {
	c.copies.WithLabelValues(server, period, outcome).Inc()
}

// ResetSelected forgets every server's selection, so servers gone from the
// storage root stop being reported.
func (c *Collector) ResetSelected() {
	c.selected.Reset()
}

// SetSelected records how many snapshots a server retained for period.
func (c *Collector) SetSelected(server, period string, n int) {
	c.selected.WithLabelValues(server, period).Set(float64(n))
}

// RecordRun marks a finished run.
func (c *Collector) RecordRun(result string, finished time.Time, d time.Duration) {
	c.runs.WithLabelValues(result).Inc()
	c.lastRun.Set(float64(finished.Unix()))
	c.lastDuration.Set(d.Seconds())
}

// WriteTextfile writes every metric to path atomically.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
