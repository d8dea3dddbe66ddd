package snapshot

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      Name
		wantError bool
	}{
		{
			name:  "simple tag",
			input: "2017-01-05--02-11-00_webfiles.tar.gz",
			want:  Name{Timestamp: "2017-01-05--02-11-00", Tag: "webfiles.tar.gz"},
		},
		{
			name:  "tag containing separator",
			input: "2017-01-05--02-11-00_my_db.00.sql",
			want:  Name{Timestamp: "2017-01-05--02-11-00", Tag: "my_db.00.sql"},
		},
		{
			name:  "directory part is ignored",
			input: "/var/cbackup/storage/web1/mysql/2017-01-05--02-11-00_mydb.01.sql",
			want:  Name{Timestamp: "2017-01-05--02-11-00", Tag: "mydb.01.sql"},
		},
		{name: "no separator", input: "2017-01-05--02-11-00", wantError: true},
		{name: "short timestamp", input: "2017-01-05_mydb.sql", wantError: true},
		{name: "invalid month", input: "2017-13-05--02-11-00_mydb.sql", wantError: true},
		{name: "empty tag", input: "2017-01-05--02-11-00_", wantError: true},
		{name: "not a snapshot", input: "README_first.txt", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if (err != nil) != tt.wantError {
				t.Fatalf("Parse(%q) error = %v, wantError %v", tt.input, err, tt.wantError)
			}
			if tt.wantError {
				var mne *MalformedNameError
				if !errors.As(err, &mne) {
					t.Fatalf("Parse(%q) error = %T, want *MalformedNameError", tt.input, err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestName_StringRoundTrip(t *testing.T) {
	in := "2017-02-01--00-00-00_lxd_container.tar"
	n, err := Parse(in)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if n.String() != in {
		t.Errorf("String() = %q, want %q", n.String(), in)
	}
}

func TestGroupByTag(t *testing.T) {
	names := []string{
		"2017-01-01--00-00-00_mydb.00.sql",
		"2017-01-15--00-00-00_mydb.01.sql",
		"2017-01-15--00-00-00_webfiles.tar.gz",
		"2017-01-01--00-00-00_mydb.00.sql",
		"garbage",
		"2017-02-01--00-00-00_webfiles.tar.gz",
	}

	groups, err := GroupByTag(names)
	if err == nil {
		t.Fatal("expected error for malformed name")
	}
	var mne *MalformedNameError
	if !errors.As(err, &mne) || mne.Name != "garbage" {
		t.Errorf("error = %v, want MalformedNameError for %q", err, "garbage")
	}

	if got := groups.Len(); got != len(names)-1 {
		t.Errorf("Len() = %d, want %d", got, len(names)-1)
	}

	want := map[string][]string{
		"mydb.00.sql":     {"2017-01-01--00-00-00", "2017-01-01--00-00-00"},
		"mydb.01.sql":     {"2017-01-15--00-00-00"},
		"webfiles.tar.gz": {"2017-01-15--00-00-00", "2017-02-01--00-00-00"},
	}
	if len(groups) != len(want) {
		t.Fatalf("got %d groups, want %d", len(groups), len(want))
	}
	for tag, ts := range want {
		got := groups[tag]
		if len(got) != len(ts) {
			t.Errorf("group %q = %v, want %v", tag, got, ts)
			continue
		}
		for i := range ts {
			if got[i] != ts[i] {
				t.Errorf("group %q = %v, want %v", tag, got, ts)
				break
			}
		}
	}

	tags := groups.Tags()
	if tags[0] != "mydb.00.sql" || tags[2] != "webfiles.tar.gz" {
		t.Errorf("Tags() = %v, want sorted", tags)
	}
}

func TestGroupByTag_Partition(t *testing.T) {
	names := []string{
		"2016-12-31--23-59-59_a",
		"2017-01-01--00-00-00_a",
		"2017-01-01--00-00-00_b",
		"2017-01-01--00-00-00_a_b",
	}

	groups, err := GroupByTag(names)
	if err != nil {
		t.Fatalf("GroupByTag() error = %v", err)
	}

	seen := map[string]int{}
	for tag, stamps := range groups {
		for _, ts := range stamps {
			seen[Name{Timestamp: ts, Tag: tag}.String()]++
		}
	}
	for _, n := range names {
		if seen[n] != 1 {
			t.Errorf("%q appears %d times across groups, want 1", n, seen[n])
		}
	}
}
