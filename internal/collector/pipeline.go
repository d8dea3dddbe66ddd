package collector

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/raoulx24/backup-collector/internal/config"
	"github.com/raoulx24/backup-collector/internal/fs"
	"github.com/raoulx24/backup-collector/internal/logging"
	"github.com/raoulx24/backup-collector/internal/retention"
	"github.com/raoulx24/backup-collector/internal/snapshot"
	"github.com/raoulx24/backup-collector/internal/walker"
)

// Stage names a step of the per-server pipeline. Stages run strictly in
// declaration order; the yearly selection consumes the monthly output.
type Stage string

const (
	StageDiscoverFiles Stage = "DISCOVER_FILES"
	StageGroupByTag    Stage = "GROUP_BY_TAG"
	StageSelectMonthly Stage = "SELECT_MONTHLY"
	StageClassifyFull  Stage = "CLASSIFY_FULL"
	StageCopyMonthly   Stage = "COPY_MONTHLY"
	StageSelectYearly  Stage = "SELECT_YEARLY"
	StageCopyYearly    Stage = "COPY_YEARLY"
	StageDone          Stage = "DONE"
)

// StageError reports the stage a server failed in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s: %v", e.Stage, e.Err) }

func (e *StageError) Unwrap() error { return e.Err }

// pipeline processes one server.
type pipeline struct {
	c          *Collector
	cfg        config.Config
	dryRun     bool
	walker     *walker.Walker
	server     walker.Server
	classifier retention.Classifier
	sum        *Summary
	log        logging.Logger

	selected map[retention.Width]int
}

func (p *pipeline) run(ctx context.Context) error {
	monthlyDir := filepath.Join(p.server.Path, p.cfg.Storage.MonthlyDir)
	yearlyDir := filepath.Join(p.server.Path, p.cfg.Storage.YearlyDir)

	if !p.dryRun {
		for _, dir := range []string{monthlyDir, yearlyDir} {
			if err := p.c.fs.EnsureDir(dir); err != nil {
				return &StageError{Stage: StageDiscoverFiles, Err: err}
			}
		}
	}

	sources, err := p.walker.Sources(p.server)
	if err != nil {
		return &StageError{Stage: StageDiscoverFiles, Err: err}
	}

	sel := retention.New(
		retention.WithClassifier(p.classifier),
		retention.WithEventSink(retention.SinkFunc(p.emit)),
		retention.WithClock(p.c.now),
	)

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.source(ctx, sel, src, monthlyDir, yearlyDir); err != nil {
			return err
		}
	}

	for _, width := range []retention.Width{retention.Month, retention.Year} {
		p.c.metrics.SetSelected(p.server.Name, width.String(), p.selected[width])
	}

	p.log.Debug("server done", "stage", StageDone, "sources", len(sources))
	return nil
}

func (p *pipeline) source(ctx context.Context, sel *retention.Selector, src walker.Source, monthlyDir, yearlyDir string) error {
	log := p.log.With("source", src.Name)
	p.sum.Sources++

	names, err := p.wellFormed(snapshot.Names(src.Files))
	if err != nil {
		return &StageError{Stage: StageGroupByTag, Err: err}
	}
	if len(names) == 0 {
		log.Debug("no snapshots")
		return nil
	}

	monthly, err := sel.SelectMonthly(names)
	if err != nil {
		return &StageError{Stage: StageSelectMonthly, Err: err}
	}

	monthly = sel.FilterFullBackups(monthly)
	log.Debug("monthly selected", "stage", StageClassifyFull, "count", len(monthly))

	if err := p.copyAll(ctx, log, src.Path, monthlyDir, monthly, retention.Month); err != nil {
		return &StageError{Stage: StageCopyMonthly, Err: err}
	}

	yearly, err := sel.SelectYearly(monthly)
	if err != nil {
		return &StageError{Stage: StageSelectYearly, Err: err}
	}

	if err := p.copyAll(ctx, log, src.Path, yearlyDir, yearly, retention.Year); err != nil {
		return &StageError{Stage: StageCopyYearly, Err: err}
	}

	p.sum.addPlan(SourcePlan{
		Server:  p.server.Name,
		Source:  src.Name,
		Monthly: monthly,
		Yearly:  yearly,
	})
	return nil
}

// wellFormed drops malformed names, reporting each one. In strict mode any
// malformed name fails the server instead.
func (p *pipeline) wellFormed(names []string) ([]string, error) {
	var ok []string
	var errs []error
	for _, n := range names {
		if _, err := snapshot.Parse(n); err != nil {
			p.emit(retention.Event{Kind: retention.KindMalformedName, Detail: err.Error()})
			errs = append(errs, err)
			continue
		}
		ok = append(ok, n)
	}

	if p.cfg.Retention.StrictNames && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return ok, nil
}

func (p *pipeline) copyAll(ctx context.Context, log logging.Logger, srcDir, dstDir string, names []string, width retention.Width) error {
	period := width.String()
	p.selected[width] += len(names)
	p.sum.addSelected(width, len(names))

	for _, name := range names {
		src := filepath.Join(srcDir, name)
		dst := filepath.Join(dstDir, name)

		if p.dryRun {
			log.Info("would copy", "period", period, "src", src, "dst", dst)
			continue
		}

		outcome, err := p.c.fs.CopyFile(ctx, src, dst)
		if err != nil {
			return err
		}
		p.c.metrics.RecordCopy(p.server.Name, period, outcome.String())
		p.sum.addCopy(outcome)

		if outcome == fs.Unchanged {
			log.Debug("already retained", "period", period, "dst", dst)
			continue
		}
		log.Info("copied", "period", period, "src", src, "dst", dst)
	}
	return nil
}

func (p *pipeline) emit(e retention.Event) {
	p.sum.addEvent(e.Kind)
	p.c.metrics.RecordEvent(string(e.Kind))
	p.log.Info("skipped", "kind", e.Kind, "detail", e.Detail)
}
