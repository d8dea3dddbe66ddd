package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/raoulx24/backup-collector/internal/config"
	"github.com/raoulx24/backup-collector/internal/mailbox"
	"github.com/raoulx24/backup-collector/internal/scheduler"
	"github.com/raoulx24/backup-collector/internal/worker"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Keep running and collect on schedule and on new snapshots",
	Long: `serve runs collections triggered by schedule.cron and, when watch.enabled
is set, by new snapshot files under the storage root. Triggers that arrive
while a collection is running collapse into one follow-up run.

SIGHUP reloads the configuration file, including logging and watch
settings.`,
	Args: cobra.NoArgs,
	RunE: serve,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext()
	defer cancel()

	// Mailbox for collection triggers
	mb := mailbox.New[worker.Job]()

	// Worker (one collection at a time)
	w := worker.New(a.collector, a.log, mb)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		w.Start(ctx)
	}()

	// Cron schedule
	sched := scheduler.New(a.cfg.Schedule.Cron, mb, a.log)
	if err := sched.Start(ctx); err != nil {
		return err
	}

	// Watcher (detects new snapshots and pushes into mailbox)
	watch := newWatchControl(ctx, mb, a.log)
	watch.apply(a.cfg)

	if a.cfg.Schedule.RunOnStart {
		mb.Put(worker.Job{Reason: "startup", At: time.Now()})
	}

	// Hot reload on SIGHUP
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGHUP)
		defer signal.Stop(sigCh)

		for {
			select {
			case <-ctx.Done():
				return
			case <-sigCh:
			}

			newCfg, err := reloadConfig()
			if err != nil {
				a.log.Error("config reload failed", "error", err)
				continue
			}

			if err := a.reload(newCfg, sched, watch); err != nil {
				a.log.Error("config partially reloaded", "error", err)
				continue
			}
			a.log.Info("config reloaded")
		}
	}()

	<-ctx.Done()
	a.log.Info("shutting down")
	sched.Stop()
	watch.stop()

	// let a running collection release its lock
	<-workerDone
	return nil
}

func reloadConfig() (*config.Config, error) {
	cfg, err := config.LoadOptional(cfgFile)
	if err != nil {
		return nil, err
	}
	if dryRun {
		cfg.Run.DryRun = true
	}
	return cfg, nil
}
