package bundle

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cratekit/podforge/internal/cargo"
	"github.com/cratekit/podforge/internal/paths"
)

// Inputs for synthesizing one library's per-target interface framework.
type Spec struct {
	Library    string // Crate target name (e.g. "divvun-spell").
	TargetDir  string // Per-target output directory, dist/<target>.
	HeadersDir string // Directory holding the library's public C headers.
	StaticLib  string // Collected static library, dist/<target>/lib<sys>.a.
}

// Builds the low-level interface framework for one (library, target) pair.
//
// The framework exposes the C API: a verbatim copy of the public headers,
// a module descriptor declaring the umbrella header and link name, and the
// static library as the framework binary. Returns the framework directory.
func BuildFFIFramework(spec Spec) (string, error) {
	sys := cargo.SysName(spec.Library)
	module := FFIModuleName(spec.Library)
	fwDir := filepath.Join(spec.TargetDir, FrameworkName(module))

	slog.Debug("synthesizing interface framework", "module", module, "dir", fwDir)

	headersDir := filepath.Join(fwDir, "Headers")
	modulesDir := filepath.Join(fwDir, "Modules")
	for _, dir := range []string{fwDir, headersDir, modulesDir} {
		if err := os.MkdirAll(dir, paths.DefaultDirMode); err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrFileSystemOperation, dir, err)
		}
	}

	if err := CopyDir(spec.HeadersDir, headersDir); err != nil {
		return "", err
	}

	if err := CopyFile(spec.StaticLib, filepath.Join(fwDir, module)); err != nil {
		return "", err
	}

	modulemap := fmt.Sprintf("framework module %s {\n    header \"%s.h\"\n    link \"%s\"\n}", module, sys, module)
	if err := os.WriteFile(filepath.Join(modulesDir, "module.modulemap"), []byte(modulemap), paths.DefaultFileMode); err != nil {
		return "", fmt.Errorf("%w: writing module descriptor: %w", ErrFileSystemOperation, err)
	}

	return fwDir, nil
}
