package cargo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
)

// Workspace metadata as reported by `cargo metadata`.
type Metadata struct {
	Packages         []Package `json:"packages"`
	WorkspaceMembers []string  `json:"workspace_members"`
	TargetDirectory  string    `json:"target_directory"`
}

// One package in the cargo workspace.
type Package struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Version      string          `json:"version"`
	Description  string          `json:"description"`
	License      string          `json:"license"`
	Repository   string          `json:"repository"`
	Authors      []string        `json:"authors"`
	ManifestPath string          `json:"manifest_path"`
	Targets      []BuildTarget   `json:"targets"`
	Metadata     json.RawMessage `json:"metadata"`
}

// One build target declared by a package (lib, staticlib, bin, ...).
type BuildTarget struct {
	Name string   `json:"name"`
	Kind []string `json:"kind"`
}

// Returns the directory containing the package's Cargo.toml.
func (p Package) Dir() string {
	return filepath.Dir(p.ManifestPath)
}

// Returns the library name with dashes replaced by underscores, the form
// cargo uses for produced artifact file names.
func SysName(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

// Loads workspace metadata by running `cargo metadata`.
//
// An empty manifestPath lets cargo discover the manifest from the working
// directory.
func LoadMetadata(ctx context.Context, manifestPath string) (*Metadata, error) {
	args := []string{"metadata", "--format-version", "1", "--no-deps"}
	if manifestPath != "" {
		args = append(args, "--manifest-path", manifestPath)
	}

	cmd := exec.CommandContext(ctx, cargoBin(), args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %w: %s", ErrMetadata, err, strings.TrimSpace(stderr.String()))
	}

	var meta Metadata
	if err := json.Unmarshal(stdout.Bytes(), &meta); err != nil {
		return nil, fmt.Errorf("%w: decoding output: %w", ErrMetadata, err)
	}

	return &meta, nil
}

// Returns the first workspace package declaring staticlib targets, along
// with those targets.
//
// Packages outside the workspace (dependencies) are ignored. Fails with
// [ErrNoStaticLib] when no workspace package produces a static library.
func (m *Metadata) StaticLibs() (Package, []BuildTarget, error) {
	for _, pkg := range m.Packages {
		if !slices.Contains(m.WorkspaceMembers, pkg.ID) {
			continue
		}

		var libs []BuildTarget
		for _, t := range pkg.Targets {
			if slices.Contains(t.Kind, "staticlib") {
				libs = append(libs, t)
			}
		}
		if len(libs) > 0 {
			return pkg, libs, nil
		}
	}

	return Package{}, nil, ErrNoStaticLib
}
