package bundle

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cratekit/podforge/internal/paths"
	"github.com/cratekit/podforge/internal/target"
	"github.com/cratekit/podforge/internal/toolchain"
)

// Sidecar subtrees unioned across contributing targets during a merge.
// The framework binary itself is combined by lipo, not copied.
var mergedSubtrees = []string{"Headers", "PrivateHeaders", "Modules"}

// Merges one module's per-target frameworks into a platform-level
// framework at dist/<variant>.
//
// The contributing targets' binaries are combined into one universal
// binary; the non-binary subtrees are unioned under the must-match policy,
// so per-target divergence in headers or module descriptors fails the
// merge instead of being silently clobbered. A single-target variant is a
// plain directory copy. Returns the merged framework directory.
func MergeVariant(ctx context.Context, tc toolchain.Toolchain, distDir string, v target.Variant, module string) (string, error) {
	fwName := FrameworkName(module)
	outDir := filepath.Join(distDir, v.Name, fwName)

	slog.Debug("merging variant", "variant", v.Name, "module", module, "targets", len(v.Targets))

	// Degenerate merge: a single contributing target needs no combination.
	// When the variant shares its name with the target (the iOS device
	// variant), the per-target framework already is the variant framework;
	// copying a directory onto itself would truncate every file in it.
	if len(v.Targets) == 1 {
		src := filepath.Join(distDir, string(v.Targets[0]), fwName)
		if src == outDir {
			return outDir, nil
		}
		if err := CopyDir(src, outDir); err != nil {
			return "", err
		}
		return outDir, nil
	}

	if err := os.MkdirAll(outDir, paths.DefaultDirMode); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrFileSystemOperation, outDir, err)
	}

	binaries := make([]string, 0, len(v.Targets))
	for _, tgt := range v.Targets {
		binaries = append(binaries, filepath.Join(distDir, string(tgt), fwName, module))
	}
	if err := tc.Lipo(ctx, binaries, filepath.Join(outDir, module)); err != nil {
		return "", fmt.Errorf("variant %s: %w", v.Name, err)
	}

	for _, subtree := range mergedSubtrees {
		var sources []string
		for _, tgt := range v.Targets {
			src := filepath.Join(distDir, string(tgt), fwName, subtree)
			if _, err := os.Stat(src); err == nil {
				sources = append(sources, src)
			}
		}
		if len(sources) == 0 {
			continue
		}
		if err := Compose(filepath.Join(outDir, subtree), sources, MustMatch); err != nil {
			return "", fmt.Errorf("variant %s: unioning %s: %w", v.Name, subtree, err)
		}
	}

	return outDir, nil
}
