package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// copies a snapshot into a retention folder. The data lands in a temp file
// next to dst and is renamed into place, so dst is either absent, the old
// copy, or a complete new one. Mode and mtime of src are carried over.

var errSourceChanged = errors.New("source changed during copy")

func copyFile(ctx context.Context, f FS, src, dst string) (CopyOutcome, error) {
	if err := ctx.Err(); err != nil {
		return Copied, err
	}

	orig, err := f.Stat(src)
	if err != nil {
		return Copied, &CopyError{Src: src, Dst: dst, Err: err}
	}

	if cur, err := f.Stat(dst); err == nil && sameContent(orig, cur) {
		return Unchanged, nil
	}

	if err := copyOnce(src, dst, orig); err != nil {
		return Copied, &CopyError{Src: src, Dst: dst, Err: err}
	}

	now, err := f.Stat(src)
	if err != nil {
		return Copied, &CopyError{Src: src, Dst: dst, Err: err}
	}
	if sourceChanged(orig, now) {
		_ = os.Remove(dst)
		return Copied, &CopyError{Src: src, Dst: dst, Err: errSourceChanged}
	}

	return Copied, nil
}

// sameContent is the cheap check used to skip copies made by an earlier run.
func sameContent(src, dst FileInfo) bool {
	return !dst.IsDir && src.Size == dst.Size && src.MTime.Equal(dst.MTime)
}

func sourceChanged(orig, now FileInfo) bool {
	if now.Inode != 0 && orig.Inode != 0 {
		if now.Inode != orig.Inode || now.Device != orig.Device {
			return true
		}
	}
	if now.MTime.After(orig.MTime) {
		return true
	}
	if now.Size != orig.Size {
		return true
	}
	return false
}

func copyOnce(src, dst string, info FileInfo) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".tmp-*")
	if err != nil {
		return err
	}
	tmp := out.Name()
	defer func() {
		_ = out.Close()
		_ = os.Remove(tmp)
	}()

	n, err := io.Copy(out, in)
	if err != nil {
		return err
	}
	if n != info.Size {
		return fmt.Errorf("size mismatch: expected %d bytes, wrote %d bytes", info.Size, n)
	}
	if err := out.Sync(); err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmp, info.Mode); err != nil {
		return err
	}
	if err := os.Chtimes(tmp, info.MTime, info.MTime); err != nil {
		return err
	}

	return finalize(tmp, dst)
}
