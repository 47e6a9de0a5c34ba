package bundle

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cratekit/podforge/internal/cargo"
	"github.com/cratekit/podforge/internal/paths"
	"github.com/cratekit/podforge/internal/target"
	"github.com/cratekit/podforge/internal/toolchain"
)

// Inputs for deriving one library's per-target wrapper framework.
type WrapperSpec struct {
	Library     string             // Crate target name.
	Target      target.Target      // Target this framework is built for.
	TargetDir   string             // Per-target output directory, dist/<target>.
	Sources     []string           // Swift bindings source files.
	MinVersions target.MinVersions // Deployment versions for the Swift triple.
}

// Derives the wrapper framework from the interface framework for one
// (library, target) pair.
//
// The interface framework's tree is duplicated, its public headers are
// demoted to PrivateHeaders and its binary renamed to the wrapper module.
// The wrapper's public module descriptor is intentionally empty; a private
// descriptor keeps the original header and link name reachable for the
// bindings. The Swift bindings are compiled against the target into one
// relocatable object, inserted into the wrapper binary, and the emitted
// per-architecture module sidecars are relocated into the framework. The
// compilation runs in a scratch directory that is removed on every exit
// path, so a failure partway leaves no transient object or stray sidecar
// behind. Returns the framework directory.
func BuildWrapperFramework(ctx context.Context, tc toolchain.Toolchain, spec WrapperSpec) (string, error) {
	sys := cargo.SysName(spec.Library)
	module := WrapperModuleName(spec.Library)
	ffiModule := FFIModuleName(spec.Library)

	fwDir := filepath.Join(spec.TargetDir, FrameworkName(module))
	ffiFwDir := filepath.Join(spec.TargetDir, FrameworkName(ffiModule))

	slog.Debug("synthesizing wrapper framework", "module", module, "dir", fwDir)

	if err := CopyDir(ffiFwDir, fwDir); err != nil {
		return "", err
	}

	if err := os.Rename(filepath.Join(fwDir, "Headers"), filepath.Join(fwDir, "PrivateHeaders")); err != nil {
		return "", fmt.Errorf("%w: demoting headers: %w", ErrFileSystemOperation, err)
	}
	if err := os.Rename(filepath.Join(fwDir, ffiModule), filepath.Join(fwDir, module)); err != nil {
		return "", fmt.Errorf("%w: renaming binary: %w", ErrFileSystemOperation, err)
	}

	modulesDir := filepath.Join(fwDir, "Modules")

	// The wrapper's public surface is opaque at the modulemap layer; the
	// Swift module interface is the real public API.
	public := fmt.Sprintf("framework module %s {\n}", module)
	if err := os.WriteFile(filepath.Join(modulesDir, "module.modulemap"), []byte(public), paths.DefaultFileMode); err != nil {
		return "", fmt.Errorf("%w: writing public module descriptor: %w", ErrFileSystemOperation, err)
	}

	private := fmt.Sprintf("framework module %s_Private {\n    header \"%s.h\"\n    link \"%s\"\n}", module, sys, module)
	if err := os.WriteFile(filepath.Join(modulesDir, "module.private.modulemap"), []byte(private), paths.DefaultFileMode); err != nil {
		return "", fmt.Errorf("%w: writing private module descriptor: %w", ErrFileSystemOperation, err)
	}

	if err := compileBindings(ctx, tc, spec, fwDir, module); err != nil {
		return "", err
	}

	return fwDir, nil
}

// Compiles the Swift bindings and embeds the results into the framework.
//
// The object is appended to the wrapper binary and each module sidecar is
// moved into Modules/<module>.swiftmodule under its architecture name.
func compileBindings(ctx context.Context, tc toolchain.Toolchain, spec WrapperSpec, fwDir, module string) error {
	res, err := target.Resolve(spec.Target, spec.MinVersions)
	if err != nil {
		return err
	}
	arch, err := target.Arch(spec.Target)
	if err != nil {
		return err
	}

	searchPath, err := filepath.Abs(spec.TargetDir)
	if err != nil {
		return fmt.Errorf("%w: resolving search path: %w", ErrFileSystemOperation, err)
	}

	workDir, err := paths.ScratchDir(module + "-*")
	if err != nil {
		return fmt.Errorf("%w: creating scratch directory: %w", ErrFileSystemOperation, err)
	}
	defer os.RemoveAll(workDir)

	objPath, err := tc.CompileSwift(ctx, toolchain.SwiftCompile{
		SDK:              res.SDK,
		DeploymentTriple: res.DeploymentTriple,
		ModuleName:       module,
		SearchPath:       searchPath,
		Sources:          spec.Sources,
		WorkDir:          workDir,
	})
	if err != nil {
		return err
	}

	if err := tc.ArchiveInsert(ctx, filepath.Join(fwDir, module), objPath); err != nil {
		return err
	}
	if err := os.Remove(objPath); err != nil {
		return fmt.Errorf("%w: removing transient object: %w", ErrFileSystemOperation, err)
	}

	swiftmodDir := filepath.Join(fwDir, "Modules", module+".swiftmodule")
	if err := os.MkdirAll(swiftmodDir, paths.DefaultDirMode); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrFileSystemOperation, swiftmodDir, err)
	}

	for _, ext := range toolchain.SidecarExts {
		src := filepath.Join(workDir, module+"."+ext)
		dst := filepath.Join(swiftmodDir, arch+"."+ext)
		if err := moveFile(src, dst); err != nil {
			return err
		}
	}

	// Stray outputs like <module>.private.swiftinterface vanish with the
	// scratch directory.
	return nil
}
