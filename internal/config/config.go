// Package config loads the collector's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultRoot is where the backup servers' folders live unless configured.
const DefaultRoot = "/var/cbackup/storage"

// RootEnv overrides Storage.Root.
const RootEnv = "BACKUP_COLLECTOR_ROOT"

type Config struct {
	Storage   StorageConfig   `yaml:"storage"`
	Retention RetentionConfig `yaml:"retention"`
	Run       RunConfig       `yaml:"run"`
	Schedule  ScheduleConfig  `yaml:"schedule"`
	Watch     WatchConfig     `yaml:"watch"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

type StorageConfig struct {
	Root       string `yaml:"root"`
	MonthlyDir string `yaml:"monthlyDir"`
	YearlyDir  string `yaml:"yearlyDir"`
	LockFile   string `yaml:"lockFile"` // relative to Root unless absolute; "-" disables
}

type RetentionConfig struct {
	Classifier       string `yaml:"classifier"` // "increment-marker", "none"
	IncrementPattern string `yaml:"incrementPattern"`
	FullMarker       string `yaml:"fullMarker"`
	StrictNames      bool   `yaml:"strictNames"`
}

type RunConfig struct {
	FailFast bool `yaml:"failFast"`
	DryRun   bool `yaml:"dryRun"`
}

type ScheduleConfig struct {
	Cron       string `yaml:"cron"` // standard 5-field expression, empty = no schedule
	RunOnStart bool   `yaml:"runOnStart"`
}

type WatchConfig struct {
	Enabled        bool          `yaml:"enabled"`
	Mode           string        `yaml:"mode"`           // "auto", "poll", "fsnotify"
	PollInterval   time.Duration `yaml:"pollInterval"`   // e.g. 1m
	DebounceWindow time.Duration `yaml:"debounceWindow"` // e.g. 30s
}

type LoggingConfig struct {
	Level      string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format     string `yaml:"format"` // "json", "text"
	File       string `yaml:"file"`   // empty = stderr
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
	Compress   bool   `yaml:"compress"`
}

type MetricsConfig struct {
	Textfile string `yaml:"textfile"` // node_exporter textfile path, empty = off
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{Run: RunConfig{FailFast: true}}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Storage.Root == "" {
		c.Storage.Root = DefaultRoot
	}
	if c.Storage.MonthlyDir == "" {
		c.Storage.MonthlyDir = "monthly"
	}
	if c.Storage.YearlyDir == "" {
		c.Storage.YearlyDir = "yearly"
	}
	if c.Storage.LockFile == "" {
		c.Storage.LockFile = ".backup-collector.lock"
	}
	if c.Retention.Classifier == "" {
		c.Retention.Classifier = "increment-marker"
	}
	if c.Watch.Mode == "" {
		c.Watch.Mode = "auto"
	}
	if c.Watch.PollInterval <= 0 {
		c.Watch.PollInterval = time.Minute
	}
	if c.Watch.DebounceWindow <= 0 {
		c.Watch.DebounceWindow = 30 * time.Second
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = 50
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Storage.Root) == "" {
		errs = append(errs, errors.New("storage.root is required"))
	}
	if c.Storage.MonthlyDir == c.Storage.YearlyDir {
		errs = append(errs, fmt.Errorf("storage.monthlyDir and storage.yearlyDir must differ (both %q)", c.Storage.MonthlyDir))
	}

	switch c.Retention.Classifier {
	case "increment-marker", "none":
	default:
		errs = append(errs, fmt.Errorf("retention.classifier: unknown classifier %q", c.Retention.Classifier))
	}
	if c.Retention.IncrementPattern != "" {
		if _, err := regexp.Compile(c.Retention.IncrementPattern); err != nil {
			errs = append(errs, fmt.Errorf("retention.incrementPattern: %w", err))
		}
	}

	if c.Schedule.Cron != "" {
		if _, err := cron.ParseStandard(c.Schedule.Cron); err != nil {
			errs = append(errs, fmt.Errorf("schedule.cron %q: %w", c.Schedule.Cron, err))
		}
	}

	switch c.Watch.Mode {
	case "auto", "poll", "fsnotify":
	default:
		errs = append(errs, fmt.Errorf("watch.mode: unknown mode %q", c.Watch.Mode))
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level: unknown level %q", c.Logging.Level))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format: unknown format %q", c.Logging.Format))
	}

	return errors.Join(errs...)
}
