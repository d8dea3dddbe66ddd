package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/raoulx24/backup-collector/internal/collector"
	"github.com/raoulx24/backup-collector/internal/retention"
)

func TestPrintPlan(t *testing.T) {
	sum := collector.Summary{
		Monthly: 2,
		Yearly:  1,
		Events:  map[retention.Kind]int{retention.KindSkippedIncrement: 1},
		Plans: []collector.SourcePlan{{
			Server:  "web1",
			Source:  "mysql",
			Monthly: []string{"2016-11-30--00-00-00_mydb.00.sql", "2016-12-31--00-00-00_mydb.00.sql"},
			Yearly:  []string{"2016-12-31--00-00-00_mydb.00.sql"},
		}},
	}

	var buf bytes.Buffer
	printPlan(&buf, sum)
	out := buf.String()

	for _, want := range []string{
		"SERVER",
		"web1    mysql   monthly  2016-11-30--00-00-00_mydb.00.sql",
		"yearly   2016-12-31--00-00-00_mydb.00.sql",
		"2 monthly, 1 yearly, 1 SKIPPED_INCREMENT",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
