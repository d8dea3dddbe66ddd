package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/raoulx24/backup-collector/internal/collector"
	"github.com/raoulx24/backup-collector/internal/config"
	"github.com/raoulx24/backup-collector/internal/logging"
	"github.com/raoulx24/backup-collector/internal/metrics"
)

var (
	// Global flags
	cfgFile string
	dryRun  bool
)

var rootCmd = &cobra.Command{
	Use:   "backup-collector",
	Short: "Collect monthly and yearly backup checkpoints",
	Long: `backup-collector selects the latest full backup of every finished month
and year for each server under the storage root and copies it into the
server's monthly/ and yearly/ folders.

Without a subcommand it performs a single pass and exits.`,
	SilenceUsage: true,
	RunE:         runOnce,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "plan only, do not create folders or copy")
}

// loadConfig reads the config file. The default path may be absent; an
// explicitly given one must exist.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cmd.Flags().Changed("config") {
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, err = config.LoadOptional(cfgFile)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if dryRun {
		cfg.Run.DryRun = true
	}
	return cfg, nil
}

// app bundles what every command needs.
type app struct {
	cfg       *config.Config
	log       *logging.Switch
	metrics   *metrics.Collector
	collector *collector.Collector
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logg, closer, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	logs := logging.NewSwitch(logg, closer)
	m := metrics.New(nil)

	return &app{
		cfg:       cfg,
		log:       logs,
		metrics:   m,
		collector: collector.New(cfg, logs, m, nil),
	}, nil
}

func (a *app) Close() {
	_ = a.log.Close()
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runOnce(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext()
	defer cancel()

	_, err = a.collector.Run(ctx)
	return err
}
