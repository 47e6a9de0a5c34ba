package bundle

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cratekit/podforge/internal/paths"
)

// How Compose treats a relative path that exists in more than one source.
type ConflictPolicy int

const (
	// Reject the merge when overlapping files differ. Identical content
	// is copied once. The merged bundle is only semantically correct when
	// overlapping sidecar content is byte-identical across contributing
	// targets, so divergence is a hard error, not a silent overwrite.
	MustMatch ConflictPolicy = iota

	// Later sources silently win. Only for callers that know overlapping
	// content is disposable.
	Overwrite
)

// Unions the directory trees in sources into dst.
//
// Sources are applied in order. Under [MustMatch], a file whose relative
// path was already produced by an earlier source (or a previous run) must
// have byte-identical content; any divergence fails with
// [ErrContentMismatch] naming the offending path. Missing sources are the
// caller's concern; every listed source must exist.
func Compose(dst string, sources []string, policy ConflictPolicy) error {
	for _, src := range sources {
		err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
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

			if policy == MustMatch {
				if _, statErr := os.Lstat(dest); statErr == nil {
					same, cmpErr := sameContent(path, dest)
					if cmpErr != nil {
						return cmpErr
					}
					if !same {
						return fmt.Errorf("%w: %s (from %s)", ErrContentMismatch, rel, src)
					}
					return nil
				}
			}

			return CopyFile(path, dest)
		})
		if err != nil {
			return err
		}
	}
	return nil
}
