package fs

import (
	"context"
	"os"
	"path/filepath"
	"sort"
)

type OSFS struct{}

// the concrete implementation of FS backed by the local OS filesystem.
// Platform-specific details (such as device and inode extraction) are handled in build-tagged files.

func New() *OSFS {
	return &OSFS{}
}

func (o *OSFS) Stat(path string) (FileInfo, error) {
	st, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, err
	}
	return fromOS(path, st), nil
}

// ReadDir lists path sorted by name. Entries that vanish between listing and
// stat are skipped.
func (o *OSFS) ReadDir(path string) ([]FileInfo, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	infos := make([]FileInfo, 0, len(entries))
	for _, ent := range entries {
		full := filepath.Join(path, ent.Name())
		st, err := os.Stat(full)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		infos = append(infos, fromOS(full, st))
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

func (o *OSFS) EnsureDir(path string) error {
	return ensureDir(path)
}

func (o *OSFS) CopyFile(ctx context.Context, src, dst string) (CopyOutcome, error) {
	return copyFile(ctx, o, src, dst)
}

func fromOS(path string, st os.FileInfo) FileInfo {
	dev, ino := fileID(st)
	return FileInfo{
		Path:   path,
		Name:   st.Name(),
		Size:   st.Size(),
		MTime:  st.ModTime(),
		Mode:   st.Mode().Perm(),
		Device: dev,
		Inode:  ino,
		IsDir:  st.IsDir(),
	}
}
