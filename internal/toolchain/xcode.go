package toolchain

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

// The real Apple toolchain, backed by the host's xcrun, lipo, swiftc, ar
// and xcodebuild executables.
type Xcode struct{}

var _ Toolchain = Xcode{}

// Resolves the filesystem path of an SDK via xcrun.
func (Xcode) SDKPath(ctx context.Context, sdk string) (string, error) {
	out, err := run(ctx, "", "xcrun", "--show-sdk-path", "--sdk", sdk)
	if err != nil {
		return "", fmt.Errorf("resolving sdk %s: %w", sdk, err)
	}
	return strings.TrimSpace(out), nil
}

// Combines binaries into a universal binary with `lipo -create`.
func (Xcode) Lipo(ctx context.Context, inputs []string, output string) error {
	args := append([]string{"-create", "-output", output}, inputs...)
	if _, err := run(ctx, "", "lipo", args...); err != nil {
		return fmt.Errorf("combining %d binaries into %s: %w", len(inputs), output, err)
	}
	return nil
}

// Compiles Swift bindings for one target.
//
// Two swiftc invocations run in req.WorkDir: the first emits a static
// relocatable object, the second emits the module with library evolution
// enabled so the textual interface and ABI sidecars are produced. All
// output files land in the work directory, named after the module.
func (x Xcode) CompileSwift(ctx context.Context, req SwiftCompile) (string, error) {
	sdkPath, err := x.SDKPath(ctx, req.SDK)
	if err != nil {
		return "", err
	}

	objName := req.ModuleName + ".o"
	slog.Debug("swiftc emit-object", "module", req.ModuleName, "triple", req.DeploymentTriple)

	args := append([]string{
		"-emit-library", "-emit-object", "-static",
		"-sdk", sdkPath,
		"-target", req.DeploymentTriple,
		"-module-name", req.ModuleName,
		"-o", objName,
		"-F", req.SearchPath,
	}, req.Sources...)
	if _, err := run(ctx, req.WorkDir, "swiftc", args...); err != nil {
		return "", fmt.Errorf("compiling bindings object for %s: %w", req.ModuleName, err)
	}

	slog.Debug("swiftc emit-module", "module", req.ModuleName, "triple", req.DeploymentTriple)

	args = append([]string{
		"-emit-module", "-static",
		"-sdk", sdkPath,
		"-enable-library-evolution",
		"-emit-parseable-module-interface",
		"-target", req.DeploymentTriple,
		"-module-name", req.ModuleName,
		"-F", req.SearchPath,
	}, req.Sources...)
	if _, err := run(ctx, req.WorkDir, "swiftc", args...); err != nil {
		return "", fmt.Errorf("emitting module interface for %s: %w", req.ModuleName, err)
	}

	return filepath.Join(req.WorkDir, objName), nil
}

// Appends an object file to a static archive with `ar q`.
func (Xcode) ArchiveInsert(ctx context.Context, archive, object string) error {
	if _, err := run(ctx, "", "ar", "q", archive, object); err != nil {
		return fmt.Errorf("inserting %s into %s: %w", object, archive, err)
	}
	return nil
}

// Composes framework bundles into one XCFramework via xcodebuild.
func (Xcode) CreateXCFramework(ctx context.Context, name string, frameworks []string, outDir string) (string, error) {
	output := filepath.Join(outDir, name+".xcframework")

	args := []string{"-create-xcframework", "-output", output}
	for _, fw := range frameworks {
		args = append(args, "-framework", fw)
	}

	if _, err := run(ctx, "", "xcodebuild", args...); err != nil {
		return "", fmt.Errorf("assembling %s: %w", output, err)
	}
	return output, nil
}
