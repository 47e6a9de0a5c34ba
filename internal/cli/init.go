package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cratekit/podforge/internal/cargo"
	"github.com/cratekit/podforge/internal/paths"
	"github.com/cratekit/podforge/internal/podspec"
	"github.com/cratekit/podforge/internal/vendoring"
)

// Represents the 'podforge init' command.
type InitCmd struct {
	Name          string `help:"Override the pod name derived from the crate." placeholder:"NAME"`
	ManifestPath  string `help:"Path to the crate's Cargo.toml." placeholder:"PATH"`
	SubtreeURL    string `help:"Vendor the crate from this git URL as a subtree." placeholder:"URL"`
	SubtreeBranch string `short:"b" help:"Branch of the subtree repository." default:"main"`
}

// Executes the init command.
//
// Optionally vendors the crate as a git subtree, then generates
// <Name>.podspec from the crate's metadata and stages it.
func (c *InitCmd) Run(ctx context.Context) error {
	if c.SubtreeURL != "" {
		if err := vendoring.Init(ctx, ".", c.SubtreeURL, c.SubtreeBranch); err != nil {
			return err
		}
	}

	if err := os.MkdirAll("src", paths.DefaultDirMode); err != nil {
		return fmt.Errorf("creating src: %w", err)
	}

	manifest := c.ManifestPath
	if c.SubtreeURL != "" {
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

	spec := podspec.FromPackage(pkg)
	spec.DisableBitcode()
	for _, lib := range libs {
		spec.AddLibrary(lib.Name)
	}

	// Name precedence: flag, then the crate's pod metadata, then the
	// camel-cased crate name.
	if name := pkg.PodConfig().Name; name != "" {
		spec.Name = name
	}
	if c.Name != "" {
		spec.Name = c.Name
	}

	slog.Info("writing podspec", "file", spec.Filename())
	if err := os.WriteFile(spec.Filename(), []byte(spec.String()), paths.DefaultFileMode); err != nil {
		return fmt.Errorf("writing %s: %w", spec.Filename(), err)
	}

	// Staging is best-effort; init works outside version control too.
	if err := vendoring.Stage(ctx, ".", spec.Filename()); err != nil {
		slog.Debug("could not stage podspec", "error", err)
	}
	return nil
}
