// Package fs defines the filesystem abstraction used by the collector.
// It provides the FS interface and the FileInfo type shared across the system.
package fs

import (
	"context"
	"os"
	"time"
)

type FileInfo struct {
	Path   string
	Name   string
	Size   int64
	MTime  time.Time
	Mode   os.FileMode
	Device uint64 // 0 when unknown
	Inode  uint64 // 0 when unknown
	IsDir  bool
}

// CopyOutcome tells whether CopyFile wrote anything.
type CopyOutcome int

const (
	Copied CopyOutcome = iota
	Unchanged
)

func (o CopyOutcome) String() string {
	if o == Unchanged {
		return "unchanged"
	}
	return "copied"
}

type FS interface {
	Stat(path string) (FileInfo, error)
	ReadDir(path string) ([]FileInfo, error)
	EnsureDir(path string) error
	CopyFile(ctx context.Context, src, dst string) (CopyOutcome, error)
}
