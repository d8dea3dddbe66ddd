package retention

import (
	"fmt"
	"regexp"
	"strings"
)

// Classifier decides from a snapshot tag alone whether it is a full backup.
// Implementations encode naming conventions of a backup source; they never
// look at file contents.
type Classifier interface {
	IsFullBackup(tag string) bool
}

const (
	// DefaultIncrementPattern matches tags carrying a two-digit increment
	// index, such as mydb.00.sql.
	DefaultIncrementPattern = `^\w+.\d{2}[.\w]+$`
	// DefaultFullMarker is the increment index of a full backup.
	DefaultFullMarker = "00"

	ClassifierIncrementMarker = "increment-marker"
	ClassifierNone            = "none"
)

// IncrementMarkerClassifier treats tags that match an increment pattern as
// incremental unless they contain the full marker. Tags without an increment
// scheme are full.
type IncrementMarkerClassifier struct {
	pattern *regexp.Regexp
	marker  string
}

var defaultClassifier = &IncrementMarkerClassifier{
	pattern: regexp.MustCompile(DefaultIncrementPattern),
	marker:  DefaultFullMarker,
}

// NewIncrementMarkerClassifier compiles pattern. Empty arguments fall back to
// the defaults.
func NewIncrementMarkerClassifier(pattern, marker string) (*IncrementMarkerClassifier, error) {
	if pattern == "" {
		pattern = DefaultIncrementPattern
	}
	if marker == "" {
		marker = DefaultFullMarker
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compiling increment pattern %q: %w", pattern, err)
	}
	return &IncrementMarkerClassifier{pattern: re, marker: marker}, nil
}

func (c *IncrementMarkerClassifier) IsFullBackup(tag string) bool {
	if !c.pattern.MatchString(tag) {
		return true
	}
	return strings.Contains(tag, c.marker)
}

// AlwaysFull keeps every snapshot.
type AlwaysFull struct{}

func (AlwaysFull) IsFullBackup(string) bool { return true }

// NewClassifier builds the classifier named by kind.
func NewClassifier(kind, pattern, marker string) (Classifier, error) {
	switch kind {
	case "", ClassifierIncrementMarker:
		return NewIncrementMarkerClassifier(pattern, marker)
	case ClassifierNone:
		return AlwaysFull{}, nil
	default:
		return nil, fmt.Errorf("unknown classifier %q", kind)
	}
}
