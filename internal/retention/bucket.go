package retention

import (
	"fmt"
	"slices"

	"github.com/raoulx24/backup-collector/internal/snapshot"
)

// Width is the calendar granularity of a retention bucket.
type Width int

const (
	Month Width = iota
	Year
)

// keyLen is the timestamp prefix that identifies a bucket: YYYY-MM or YYYY.
func (w Width) keyLen() int {
	if w == Year {
		return 4
	}
	return 7
}

func (w Width) String() string {
	if w == Year {
		return "yearly"
	}
	return "monthly"
}

// Key truncates a timestamp to its bucket key.
func (w Width) Key(ts string) string {
	if len(ts) < w.keyLen() {
		return ts
	}
	return ts[:w.keyLen()]
}

// SelectMaxPerBucket returns the latest timestamp of every bucket that lies
// strictly before the current period, in ascending order. The bucket holding
// now, and any bucket after it, is still open and left out.
func (s *Selector) SelectMaxPerBucket(timestamps []string, width Width) []string {
	return s.selectMaxPerBucket("", timestamps, width)
}

func (s *Selector) selectMaxPerBucket(tag string, timestamps []string, width Width) []string {
	sorted := slices.Clone(timestamps)
	slices.Sort(sorted)

	current := width.Key(s.now().Format(snapshot.TimestampLayout))

	var result []string
	for i := 0; i < len(sorted); {
		key := width.Key(sorted[i])
		j := i
		for j < len(sorted) && width.Key(sorted[j]) == key {
			j++
		}
		latest := sorted[j-1]
		i = j

		switch {
		case key == current:
			s.sink.Emit(Event{
				Kind:   KindSkippedCurrentPeriod,
				Detail: describe(width, tag, latest, "current period"),
			})
		case key > current:
			s.sink.Emit(Event{
				Kind:   KindSkippedFuturePeriod,
				Detail: describe(width, tag, latest, "period after "+current),
			})
		default:
			result = append(result, latest)
		}
	}

	return result
}

func describe(width Width, tag, ts, why string) string {
	name := ts
	if tag != "" {
		name = snapshot.Name{Timestamp: ts, Tag: tag}.String()
	}
	return fmt.Sprintf("%s: %s is in the %s", width, name, why)
}
