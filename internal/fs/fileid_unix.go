//go:build unix

package fs

import (
	"os"
	"syscall"
)

// fileID returns the device and inode behind info. A snapshot replaced while
// it is copied (rotated, restored from elsewhere) gets a new pair.
func fileID(info os.FileInfo) (dev, ino uint64) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, 0
	}
	return uint64(st.Dev), uint64(st.Ino)
}
