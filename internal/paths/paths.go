package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (

	// Name used for directory and file naming.
	toolName = "podforge"

	// Default permission mode for directories.
	DefaultDirMode os.FileMode = 0755

	// Default permission mode for files.
	DefaultFileMode os.FileMode = 0644

	// Name of the output directory holding per-target, per-variant and
	// umbrella bundles.
	DistDirName = "dist"
)

// Path to the scratch directory for transient build output.
//
// The Swift compilation step emits its object and module sidecar files
// into a per-invocation subdirectory of this path before they are moved
// into their framework.
//
//	Linux:   ~/.cache/podforge
//	macOS:   ~/Library/Caches/podforge
func Scratch() string {
	return filepath.Join(xdg.CacheHome, toolName)
}

// Creates a fresh per-invocation work directory under the scratch root.
//
// The caller owns the returned directory and must remove it when done.
func ScratchDir(pattern string) (string, error) {
	root := Scratch()
	if err := os.MkdirAll(root, DefaultDirMode); err != nil {
		return "", err
	}
	return os.MkdirTemp(root, pattern)
}
