package collector

import (
	"time"

	"github.com/raoulx24/backup-collector/internal/fs"
	"github.com/raoulx24/backup-collector/internal/retention"
)

// SourcePlan is the retention set computed for one snapshot folder.
type SourcePlan struct {
	Server  string
	Source  string
	Monthly []string
	Yearly  []string
}

// Summary describes one run.
type Summary struct {
	RunID     string
	DryRun    bool
	Servers   int // completed
	Sources   int
	Monthly   int
	Yearly    int
	Copied    int
	Unchanged int
	Events    map[retention.Kind]int
	Failed    []string
	Plans     []SourcePlan
	Duration  time.Duration
}

func newSummary(runID string, dryRun bool) Summary {
	return Summary{
		RunID:  runID,
		DryRun: dryRun,
		Events: map[retention.Kind]int{},
	}
}

func (s *Summary) addEvent(kind retention.Kind) {
	s.Events[kind]++
}

func (s *Summary) addSelected(width retention.Width, n int) {
	if width == retention.Year {
		s.Yearly += n
		return
	}
	s.Monthly += n
}

func (s *Summary) addCopy(outcome fs.CopyOutcome) {
	if outcome == fs.Unchanged {
		s.Unchanged++
		return
	}
	s.Copied++
}

func (s *Summary) addPlan(p SourcePlan) {
	s.Plans = append(s.Plans, p)
}
