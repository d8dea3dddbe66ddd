// Package walker discovers snapshot files under the storage root.
//
// The layout is fixed at two levels: <root>/<server>/<source>/<files>.
// Servers are enumerated first, then each server's source folders; the
// retention folders themselves are never treated as sources. Snapshot files
// lying directly in a server folder form the server's own source, named ".".
package walker

import (
	"fmt"
	"strings"

	"github.com/raoulx24/backup-collector/internal/fs"
	"github.com/raoulx24/backup-collector/internal/snapshot"
)

// Server is a top-level folder under the storage root.
type Server struct {
	Name string
	Path string
}

// Source is one snapshot folder of a server, e.g. <root>/web1/mysql.
type Source struct {
	Server Server
	Name   string
	Path   string
	Files  []snapshot.Artifact
}

// ServerFiles names the source made of files lying directly in a server
// folder.
const ServerFiles = "."

// Walker lists servers and their sources.
type Walker struct {
	root     string
	fs       fs.FS
	reserved map[string]bool
}

// New creates a walker over root. reserved names the per-server folders the
// collector writes into.
func New(root string, filesystem fs.FS, reserved ...string) *Walker {
	if filesystem == nil {
		filesystem = fs.New()
	}
	r := make(map[string]bool, len(reserved))
	for _, name := range reserved {
		r[name] = true
	}
	return &Walker{root: root, fs: filesystem, reserved: r}
}

// Servers lists server folders in name order.
func (w *Walker) Servers() ([]Server, error) {
	entries, err := w.fs.ReadDir(w.root)
	if err != nil {
		return nil, fmt.Errorf("listing servers in %s: %w", w.root, err)
	}

	var servers []Server
	for _, e := range entries {
		if !e.IsDir || hidden(e.Name) {
			continue
		}
		servers = append(servers, Server{Name: e.Name, Path: e.Path})
	}
	return servers, nil
}

// Sources lists the snapshot folders of srv with their files. When the
// server folder holds files of its own, they come first as the ServerFiles
// source.
func (w *Walker) Sources(srv Server) ([]Source, error) {
	entries, err := w.fs.ReadDir(srv.Path)
	if err != nil {
		return nil, fmt.Errorf("listing sources of %s: %w", srv.Name, err)
	}

	var sources []Source
	if own := artifacts(entries); len(own) > 0 {
		sources = append(sources, Source{Server: srv, Name: ServerFiles, Path: srv.Path, Files: own})
	}

	for _, e := range entries {
		if !e.IsDir || hidden(e.Name) || w.reserved[e.Name] {
			continue
		}

		files, err := w.files(e.Path)
		if err != nil {
			return nil, err
		}
		sources = append(sources, Source{Server: srv, Name: e.Name, Path: e.Path, Files: files})
	}
	return sources, nil
}

func (w *Walker) files(dir string) ([]snapshot.Artifact, error) {
	entries, err := w.fs.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots in %s: %w", dir, err)
	}
	return artifacts(entries), nil
}

// artifacts keeps the visible regular files of a listing.
func artifacts(entries []fs.FileInfo) []snapshot.Artifact {
	var files []snapshot.Artifact
	for _, e := range entries {
		if e.IsDir || hidden(e.Name) {
			continue
		}
		files = append(files, snapshot.FromFileInfo(e))
	}
	return files
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
