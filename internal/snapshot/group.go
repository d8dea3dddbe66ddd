package snapshot

import (
	"errors"
	"sort"
)

// Groups maps a tag to every timestamp seen with it, in input order.
type Groups map[string][]string

// GroupByTag parses names and groups their timestamps by tag. Duplicates are
// kept. Malformed names are left out of the result and reported together in
// the returned error; the well-formed ones are grouped regardless.
func GroupByTag(names []string) (Groups, error) {
	groups := Groups{}
	var errs []error

	for _, raw := range names {
		n, err := Parse(raw)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		groups[n.Tag] = append(groups[n.Tag], n.Timestamp)
	}

	return groups, errors.Join(errs...)
}

// Tags returns the group keys in sorted order.
func (g Groups) Tags() []string {
	tags := make([]string, 0, len(g))
	for tag := range g {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Len counts every timestamp across all groups.
func (g Groups) Len() int {
	total := 0
	for _, ts := range g {
		total += len(ts)
	}
	return total
}
