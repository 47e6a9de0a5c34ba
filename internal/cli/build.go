package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cratekit/podforge/internal/cargo"
	"github.com/cratekit/podforge/internal/paths"
	"github.com/cratekit/podforge/internal/pipeline"
	"github.com/cratekit/podforge/internal/project"
	"github.com/cratekit/podforge/internal/target"
	"github.com/cratekit/podforge/internal/toolchain"
	"github.com/cratekit/podforge/internal/vendoring"
)

// Represents the 'podforge build' command.
type BuildCmd struct {
	IOS          bool     `name:"ios" help:"Build the iOS targets only."`
	MacOS        bool     `name:"macos" help:"Build the macOS targets only."`
	ManifestPath string   `help:"Path to the crate's Cargo.toml." placeholder:"PATH"`
	Workers      int      `help:"Parallel target builds. Defaults to the CPU count."`
	CargoArgs    []string `arg:"" optional:"" passthrough:"" help:"Extra arguments forwarded to cargo build."`
}

// Executes the build command.
//
// Resolves the crate (vendored subtree first, then the manifest flag),
// then runs the full pipeline: static libraries per target, framework
// synthesis, variant merging, and distributable assembly.
func (c *BuildCmd) Run(ctx context.Context) error {
	cfg, err := project.Load(".")
	if err != nil {
		return err
	}

	manifest := c.ManifestPath
	vendored := vendoring.HasCrate(".")
	if vendored {
		manifest = filepath.Join(vendoring.Prefix, "Cargo.toml")
	}

	meta, err := cargo.LoadMetadata(ctx, manifest)
	if err != nil {
		return err
	}
	pkg, libs, err := meta.StaticLibs()
	if err != nil {
		return err
	}

	// A vendored project collects artifacts next to the podspec;
	// otherwise they land beside the crate's target directory.
	distDir := paths.DistDirName
	if !vendored {
		distDir = filepath.Join(filepath.Dir(meta.TargetDirectory), paths.DistDirName)
	}
	if err := os.MkdirAll(distDir, paths.DefaultDirMode); err != nil {
		return fmt.Errorf("creating %s: %w", distDir, err)
	}

	cargoArgs := append(cfg.CargoArgs, c.CargoArgs...)
	if features := pkg.PodConfig().Features; len(features) > 0 {
		cargoArgs = append(cargoArgs, "--features", strings.Join(features, ","))
	}
	cargoArgs, err = cargo.NormalizeArgs(cargoArgs)
	if err != nil {
		return err
	}

	libraries := make([]string, 0, len(libs))
	for _, lib := range libs {
		libraries = append(libraries, lib.Name)
	}

	workers := c.Workers
	if workers == 0 {
		workers = cfg.Workers
	}

	p := pipeline.New(
		&cargo.Compiler{Dir: pkg.Dir(), TargetDir: meta.TargetDirectory, Args: cargoArgs},
		toolchain.Xcode{},
		pipeline.Options{
			Dist:        distDir,
			Selection:   target.Select(c.IOS, c.MacOS),
			MinVersions: cfg.ResolveMinVersions(),
			Libraries:   libraries,
			HeadersDir:  filepath.Join(pkg.Dir(), "headers"),
			BindingsDir: filepath.Join(pkg.Dir(), "bindings"),
			Workers:     workers,
		},
	)
	return p.Run(ctx)
}
