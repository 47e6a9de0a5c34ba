// Package buildinfo exposes build-time identity injected via linker
// flags: version, release stage, and git commit.
package buildinfo

import (
	"fmt"
	"runtime"
	"strings"
)

// Tool name, used for CLI identity and log grouping.
const Name = "podforge"

// Placeholder for variables a local (non-pipeline) build leaves unset.
const undefined = "(undefined)"

var (
	version   = "" // Release version (e.g. "1.2.3"), set via ldflags.
	stage     = "" // Release stage or git branch, set via ldflags.
	gitCommit = "" // Git commit hash, set via ldflags.
)

// Returns the release version, without any "v" prefix. Unset in local
// builds.
func Version() string {
	v := strings.ToLower(strings.TrimSpace(version))
	if v == "" {
		return undefined
	}
	return strings.TrimPrefix(v, "v")
}

// Returns the release stage, normally the git branch the release was
// cut from.
func Stage() string {
	s := strings.TrimSpace(stage)
	if s == "" {
		return undefined
	}
	return strings.ToLower(s)
}

// Returns the git commit hash the binary was built from.
func GitCommit() string {
	c := strings.TrimSpace(gitCommit)
	if c == "" {
		return undefined
	}
	return c
}

// Whether this binary was built outside the release pipeline. Release
// builds set all three identity variables.
func IsLocal() bool {
	return strings.TrimSpace(version) == "" ||
		strings.TrimSpace(stage) == "" ||
		strings.TrimSpace(gitCommit) == ""
}

// Returns the full version string: "<version>+<stage> <commit> [<arch>]",
// with the stage omitted for main-branch releases. Local builds report
// "(local)".
func String() string {
	if IsLocal() {
		return "(local)"
	}

	s := Stage()
	if s == "main" {
		s = ""
	} else {
		s = "+" + s
	}

	return fmt.Sprintf("%s%s %s [%s]", Version(), s, GitCommit(), runtime.GOARCH)
}
