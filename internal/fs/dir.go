package fs

import (
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
)

// ensureDir creates a single directory level. An existing directory is fine;
// an existing file in its place is not.
func ensureDir(path string) error {
	err := os.Mkdir(path, 0o755)
	if err == nil {
		return nil
	}

	if errors.Is(err, iofs.ErrExist) {
		st, serr := os.Stat(path)
		if serr == nil && st.IsDir() {
			return nil
		}
		if serr == nil {
			err = fmt.Errorf("path exists and is not a directory")
		}
	}

	return &DirectoryCreateError{Path: path, Err: err}
}
