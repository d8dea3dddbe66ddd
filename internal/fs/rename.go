package fs

import "os"

// finalize moves a fully written temp file over its destination. Both live in
// the same directory, so the rename is atomic on POSIX filesystems.
func finalize(tmp, dst string) error {
	return os.Rename(tmp, dst)
}
