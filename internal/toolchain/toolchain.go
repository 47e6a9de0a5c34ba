package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Extensions of the module sidecar files swiftc emits next to the object
// file: documentation, binary interface, source info, ABI descriptor and
// textual interface.
var SidecarExts = []string{"swiftdoc", "swiftmodule", "swiftsourceinfo", "abi.json", "swiftinterface"}

// One Swift bindings compilation for a single target.
type SwiftCompile struct {
	SDK              string   // SDK name resolved from the target (e.g. "iphoneos").
	DeploymentTriple string   // Swift target triple with minimum OS version.
	ModuleName       string   // Module name; also names the object and sidecar files.
	SearchPath       string   // Framework search path (-F), the target's dist directory.
	Sources          []string // Swift source files to compile.
	WorkDir          string   // Directory the object and sidecars are written into.
}

// The external Apple build tools the pipeline drives.
type Toolchain interface {
	// Returns the filesystem path of the named SDK.
	SDKPath(ctx context.Context, sdk string) (string, error)

	// Combines per-architecture binaries into one universal binary.
	Lipo(ctx context.Context, inputs []string, output string) error

	// Compiles Swift sources into one relocatable object plus the fixed
	// module sidecar files, all written into req.WorkDir. Returns the
	// object path.
	CompileSwift(ctx context.Context, req SwiftCompile) (string, error)

	// Appends an object file to a static archive.
	ArchiveInsert(ctx context.Context, archive, object string) error

	// Combines framework bundles into one XCFramework at
	// <outDir>/<name>.xcframework and returns that path.
	CreateXCFramework(ctx context.Context, name string, frameworks []string, outDir string) (string, error)
}

// Runs an external tool, classifying any failure.
//
// A missing executable maps to [ErrToolNotFound], a nonzero exit to
// [ErrToolFailed] with the captured stderr, and anything else to
// [ErrToolIO]. A non-empty dir sets the working directory.
func run(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	switch {
	case err == nil:
		return stdout.String(), nil
	case errors.Is(err, exec.ErrNotFound):
		return "", fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return "", fmt.Errorf("%w: %s: exit code %d: %s",
			ErrToolFailed, name, exitErr.ExitCode(), strings.TrimSpace(stderr.String()))
	}

	return "", fmt.Errorf("%w: %s: %w", ErrToolIO, name, err)
}
