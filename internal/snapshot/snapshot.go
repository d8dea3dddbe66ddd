// Package snapshot parses backup snapshot file names of the form
// <timestamp>_<tag>.
package snapshot

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// TimestampLayout is the fixed-width timestamp at the start of every snapshot
// name, e.g. 2017-01-05--02-11-00. Zero padding makes lexical order
// chronological.
const TimestampLayout = "2006-01-02--15-04-05"

// Separator splits the timestamp from the tag. Only its first occurrence is
// significant; tags may contain it.
const Separator = "_"

// Name is a parsed snapshot file name.
type Name struct {
	Timestamp string
	Tag       string
}

// MalformedNameError reports a file name that is not <timestamp>_<tag>.
type MalformedNameError struct {
	Name   string
	Reason string
}

func (e *MalformedNameError) Error() string {
	return fmt.Sprintf("malformed snapshot name %q: %s", e.Name, e.Reason)
}

// Parse splits name on the first separator and validates the timestamp.
// Any directory part of name is ignored.
func Parse(name string) (Name, error) {
	base := filepath.Base(name)

	ts, tag, ok := strings.Cut(base, Separator)
	if !ok {
		return Name{}, &MalformedNameError{Name: base, Reason: "missing separator"}
	}
	if len(ts) != len(TimestampLayout) {
		return Name{}, &MalformedNameError{Name: base, Reason: "timestamp has wrong length"}
	}
	if _, err := time.Parse(TimestampLayout, ts); err != nil {
		return Name{}, &MalformedNameError{Name: base, Reason: "invalid timestamp"}
	}
	if tag == "" {
		return Name{}, &MalformedNameError{Name: base, Reason: "empty tag"}
	}

	return Name{Timestamp: ts, Tag: tag}, nil
}

// String reassembles the file name.
func (n Name) String() string {
	return n.Timestamp + Separator + n.Tag
}
