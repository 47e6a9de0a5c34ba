package bundle

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cratekit/podforge/internal/paths"
)

// Copies a single file, creating the destination's parent directory and
// preserving the source's permission bits. Failures report both paths.
func CopyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("%w: %s -> %s: %w", ErrCopy, src, dst, err)
	}

	if err := os.MkdirAll(filepath.Dir(dst), paths.DefaultDirMode); err != nil {
		return fmt.Errorf("%w: %s -> %s: %w", ErrCopy, src, dst, err)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("%w: %s -> %s: %w", ErrCopy, src, dst, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("%w: %s -> %s: %w", ErrCopy, src, dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("%w: %s -> %s: %w", ErrCopy, src, dst, err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("%w: %s -> %s: %w", ErrCopy, src, dst, err)
	}
	return nil
}

// Copies a directory tree. Existing destination files are overwritten;
// existing directories are reused.
func CopyDir(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("%w: walking %s: %w", ErrCopy, src, err)
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrCopy, path, err)
		}
		dest := filepath.Join(dst, rel)

		if d.IsDir() {
			if err := os.MkdirAll(dest, paths.DefaultDirMode); err != nil {
				return fmt.Errorf("%w: %s: %w", ErrFileSystemOperation, dest, err)
			}
			return nil
		}
		return CopyFile(path, dest)
	})
}

// Moves a file, falling back to copy-and-remove when the source and
// destination are on different filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := CopyFile(src, dst); err != nil {
		return err
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("%w: removing %s after copy: %w", ErrFileSystemOperation, src, err)
	}
	return nil
}

// Reports whether two files have identical content.
func sameContent(a, b string) (bool, error) {
	ab, err := os.ReadFile(a)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %w", ErrFileSystemOperation, a, err)
	}
	bb, err := os.ReadFile(b)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %w", ErrFileSystemOperation, b, err)
	}
	return string(ab) == string(bb), nil
}
