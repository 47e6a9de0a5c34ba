package cargo

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"slices"

	"github.com/cratekit/podforge/internal/target"
)

// Compiles the workspace's static libraries, one invocation per target.
type Compiler struct {
	// Directory containing the Cargo.toml to build.
	Dir string

	// Cargo's target directory, from the workspace metadata. Built
	// libraries are found under <TargetDir>/<target>/release.
	TargetDir string

	// Extra arguments appended to `cargo build`, already normalized via
	// [NormalizeArgs].
	Args []string
}

// Validates caller-supplied cargo arguments and applies build defaults.
//
// The pipeline owns target selection exclusively, so an explicit --target
// is rejected as a usage error. Unless the caller asked otherwise, the
// build defaults to optimized ("--release") and library-only ("--lib").
func NormalizeArgs(args []string) ([]string, error) {
	if slices.Contains(args, "--target") {
		return nil, ErrTargetOverride
	}

	normalized := slices.Clone(args)
	if !slices.Contains(normalized, "--release") {
		normalized = append(normalized, "--release")
	}
	if !slices.Contains(normalized, "--lib") {
		normalized = append(normalized, "--lib")
	}
	return normalized, nil
}

// Runs `cargo build` for one target.
//
// Build output streams to the user's terminal. A nonzero exit or spawn
// failure is fatal for the run.
func (c *Compiler) Build(ctx context.Context, tgt target.Target) error {
	args := append([]string{"build"}, c.Args...)
	args = append(args, "--target", string(tgt))

	slog.Debug("cargo build", "target", tgt, "dir", c.Dir, "args", args)

	cmd := exec.CommandContext(ctx, cargoBin(), args...)
	cmd.Dir = c.Dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: target %s: %w", ErrBuild, tgt, err)
	}
	return nil
}

// Returns the path of the static library cargo produced for a target.
func (c *Compiler) StaticLibPath(tgt target.Target, libName string) string {
	return filepath.Join(c.TargetDir, string(tgt), "release", "lib"+SysName(libName)+".a")
}

// Returns the cargo executable, honoring the CARGO override used when the
// tool is invoked as a cargo subcommand.
func cargoBin() string {
	if bin := os.Getenv("CARGO"); bin != "" {
		return bin
	}
	return "cargo"
}
