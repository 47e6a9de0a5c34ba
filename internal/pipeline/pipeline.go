package pipeline

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/cratekit/podforge/internal/bundle"
	"github.com/cratekit/podforge/internal/target"
	"github.com/cratekit/podforge/internal/toolchain"
)

// Produces one target's static libraries and reports where they land.
type Compiler interface {
	// Compiles the workspace for a single target.
	Build(ctx context.Context, tgt target.Target) error

	// Location of a library's compiled static archive for a target.
	// Purely computed; the file exists only after a successful Build.
	StaticLibPath(tgt target.Target, library string) string
}

// Everything a single run needs beyond the compiler and the toolchain.
type Options struct {
	Dist        string             // Distribution root, usually <crate>/dist.
	Selection   target.Selection   // Which platform families to build.
	MinVersions target.MinVersions // Deployment versions for all targets.
	Libraries   []string           // Crate target names to bundle.
	HeadersDir  string             // Public C headers shipped in the frameworks.
	BindingsDir string             // Directory scanned for .swift bindings.
	Workers     int                // Parallel target fan-out; <=0 means NumCPU.
}

// Drives a full run: compile every target, synthesize per-target
// frameworks, merge them into platform variants, and assemble the final
// distributable bundles.
type Pipeline struct {
	compiler Compiler
	tools    toolchain.Toolchain
	opts     Options
}

func New(compiler Compiler, tools toolchain.Toolchain, opts Options) *Pipeline {
	return &Pipeline{compiler: compiler, tools: tools, opts: opts}
}

// Executes the four stages in order. The compile stage runs targets in
// parallel and is joined before any synthesis starts, so a compiler
// failure on one target never leaves half-synthesized frameworks for
// the others. Synthesis also fans out per target; merging and assembly
// are cheap and run sequentially.
func (p *Pipeline) Run(ctx context.Context) error {
	targets := p.opts.Selection.Targets()
	variants := p.opts.Selection.Variants()

	slog.Info("starting pipeline",
		"targets", len(targets),
		"variants", len(variants),
		"libraries", strings.Join(p.opts.Libraries, ","))

	artifacts, err := p.compile(ctx, targets)
	if err != nil {
		return err
	}

	sources, err := swiftSources(p.opts.BindingsDir)
	if err != nil {
		return err
	}

	if err := p.synthesize(ctx, targets, artifacts, sources); err != nil {
		return err
	}
	if err := p.merge(ctx, variants); err != nil {
		return err
	}
	return p.assemble(ctx, variants)
}

func (p *Pipeline) workers() int {
	if p.opts.Workers > 0 {
		return p.opts.Workers
	}
	return runtime.NumCPU()
}

// Runs fn once per target with bounded parallelism. Once any task has
// failed, tasks that have not started yet return without launching
// their external process; tasks already running keep the parent context
// and finish naturally.
func (p *Pipeline) forEachTarget(ctx context.Context, targets []target.Target, fn func(context.Context, target.Target) error) error {
	g, gate := errgroup.WithContext(ctx)
	g.SetLimit(p.workers())
	for _, tgt := range targets {
		tgt := tgt
		g.Go(func() error {
			if gate.Err() != nil {
				return nil
			}
			return fn(ctx, tgt)
		})
	}
	return g.Wait()
}

// Stage one: compile every target and collect the static archives into
// dist/<target>/. Returns the collected archive paths keyed by target
// and library.
func (p *Pipeline) compile(ctx context.Context, targets []target.Target) (map[target.Target]map[string]string, error) {
	var mu sync.Mutex
	artifacts := make(map[target.Target]map[string]string, len(targets))

	err := p.forEachTarget(ctx, targets, func(ctx context.Context, tgt target.Target) error {
		slog.Info("compiling target", "target", tgt)
		if err := p.compiler.Build(ctx, tgt); err != nil {
			return fmt.Errorf("%w: target %s: %w", ErrCompile, tgt, err)
		}

		collected := make(map[string]string, len(p.opts.Libraries))
		for _, lib := range p.opts.Libraries {
			src := p.compiler.StaticLibPath(tgt, lib)
			dst := filepath.Join(p.opts.Dist, string(tgt), filepath.Base(src))
			if err := bundle.CopyFile(src, dst); err != nil {
				return fmt.Errorf("%w: target %s: %w", ErrCollect, tgt, err)
			}
			collected[lib] = dst
		}

		mu.Lock()
		artifacts[tgt] = collected
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return artifacts, nil
}

// Stage two: synthesize the interface and wrapper frameworks for every
// (library, target) pair. The wrapper is derived from the interface
// framework, so the two builds for one pair are ordered; pairs across
// targets run in parallel.
func (p *Pipeline) synthesize(ctx context.Context, targets []target.Target, artifacts map[target.Target]map[string]string, sources []string) error {
	return p.forEachTarget(ctx, targets, func(ctx context.Context, tgt target.Target) error {
		targetDir := filepath.Join(p.opts.Dist, string(tgt))
		for _, lib := range p.opts.Libraries {
			if _, err := bundle.BuildFFIFramework(bundle.Spec{
				Library:    lib,
				TargetDir:  targetDir,
				HeadersDir: p.opts.HeadersDir,
				StaticLib:  artifacts[tgt][lib],
			}); err != nil {
				return fmt.Errorf("%w: %s for %s: %w", ErrSynthesize, lib, tgt, err)
			}

			if _, err := bundle.BuildWrapperFramework(ctx, p.tools, bundle.WrapperSpec{
				Library:     lib,
				Target:      tgt,
				TargetDir:   targetDir,
				Sources:     sources,
				MinVersions: p.opts.MinVersions,
			}); err != nil {
				return fmt.Errorf("%w: %s for %s: %w", ErrSynthesize, lib, tgt, err)
			}
		}
		return nil
	})
}

// Stage three: merge the per-target frameworks into one framework per
// (library, module, variant).
func (p *Pipeline) merge(ctx context.Context, variants []target.Variant) error {
	for _, lib := range p.opts.Libraries {
		for _, module := range moduleNames(lib) {
			for _, v := range variants {
				if _, err := bundle.MergeVariant(ctx, p.tools, p.opts.Dist, v, module); err != nil {
					return fmt.Errorf("%w: %s: %w", ErrMerge, module, err)
				}
			}
		}
	}
	return nil
}

// Stage four: bundle each module's variant frameworks into a single
// distributable at dist/<module>.xcframework. A stale bundle from a
// previous run is removed first; the assembler refuses to overwrite.
func (p *Pipeline) assemble(ctx context.Context, variants []target.Variant) error {
	for _, lib := range p.opts.Libraries {
		for _, module := range moduleNames(lib) {
			frameworks := make([]string, 0, len(variants))
			for _, v := range variants {
				frameworks = append(frameworks, filepath.Join(p.opts.Dist, v.Name, bundle.FrameworkName(module)))
			}

			out := filepath.Join(p.opts.Dist, module+".xcframework")
			if err := os.RemoveAll(out); err != nil {
				return fmt.Errorf("%w: removing stale %s: %w", ErrAssemble, out, err)
			}

			bundlePath, err := p.tools.CreateXCFramework(ctx, module, frameworks, p.opts.Dist)
			if err != nil {
				return fmt.Errorf("%w: %s: %w", ErrAssemble, module, err)
			}
			slog.Info("assembled distributable bundle", "module", module, "path", bundlePath)
		}
	}
	return nil
}

// Both module flavors bundled for a library: the Swift wrapper and the
// low-level C interface.
func moduleNames(library string) []string {
	return []string{bundle.WrapperModuleName(library), bundle.FFIModuleName(library)}
}

// Walks dir for .swift files, sorted by the walk's lexical order so a
// run is deterministic.
func swiftSources(dir string) ([]string, error) {
	var sources []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".swift") {
			sources = append(sources, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: scanning %s: %w", ErrNoBindings, dir, err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoBindings, dir)
	}
	return sources, nil
}
