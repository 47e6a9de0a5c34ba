// Package project loads the optional podforge.yaml project file, which
// carries settings a Cargo manifest has no place for: the published pod
// name, deployment version floors, and extra cargo arguments.
package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/cratekit/podforge/internal/target"
)

// Project file name, looked up in the working directory.
const FileName = "podforge.yaml"

// A configuration file that cannot be read or parsed. A missing file is
// not an error; the zero configuration applies.
var ErrConfig = errors.New("reading project configuration")

type Versions struct {
	IOS   string `yaml:"ios"`
	MacOS string `yaml:"macos"`
}

type Config struct {
	// Published pod name. Overrides the name derived from the crate.
	Name string `yaml:"name"`

	// Deployment version floors. Unset fields keep the defaults.
	MinVersions Versions `yaml:"min_versions"`

	// Extra arguments appended to every cargo build invocation.
	CargoArgs []string `yaml:"cargo_args"`

	// Parallel target fan-out. Zero means one worker per CPU.
	Workers int `yaml:"workers"`
}

// Loads dir's project file. Absence yields the zero configuration.
func Load(dir string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %s: %w", ErrConfig, FileName, err)
	}
	return cfg, nil
}

// Deployment versions with defaults filled in for unset fields.
func (c Config) ResolveMinVersions() target.MinVersions {
	min := target.DefaultMinVersions()
	if c.MinVersions.IOS != "" {
		min.IOS = c.MinVersions.IOS
	}
	if c.MinVersions.MacOS != "" {
		min.MacOS = c.MinVersions.MacOS
	}
	return min
}
