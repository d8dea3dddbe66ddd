package snapshot

import (
	"time"

	"github.com/raoulx24/backup-collector/internal/fs"
)

// Artifact describes a snapshot file found on disk.
type Artifact struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
}

// FromFileInfo constructs an Artifact from a directory listing entry.
func FromFileInfo(info fs.FileInfo) Artifact {
	return Artifact{
		Name:    info.Name,
		Path:    info.Path,
		ModTime: info.MTime,
		Size:    info.Size,
	}
}

// Names returns the base names of artifacts, preserving order.
func Names(artifacts []Artifact) []string {
	names := make([]string, len(artifacts))
	for i, a := range artifacts {
		names[i] = a.Name
	}
	return names
}
