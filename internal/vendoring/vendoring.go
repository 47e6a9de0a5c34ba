// Package vendoring manages the git subtree that embeds the upstream
// crate in a pod project.
package vendoring

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const (
	// Subtree prefix and remote name for the vendored crate.
	Prefix = "crate"

	// Marker file recording the upstream URL for later pulls.
	MarkerFile = ".crate-remote"
)

var (
	ErrGit = errors.New("running git")

	// The project has no vendored crate to operate on.
	ErrNoVendoredCrate = errors.New("no vendored crate")
)

// Whether dir contains a vendored crate subtree.
func HasCrate(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, Prefix))
	return err == nil && info.IsDir()
}

// Vendors the crate at url into dir as a git subtree on the given
// branch, recording url in the marker file. A directory without any
// commits is bootstrapped first: a .gitignore excluding dist/ is
// committed so the subtree has a parent to attach to.
func Init(ctx context.Context, dir, url, branch string) error {
	if branch == "" {
		branch = "main"
	}

	if err := git(ctx, dir, "rev-parse", "HEAD"); err != nil {
		if err := bootstrap(ctx, dir); err != nil {
			return err
		}
	}

	if err := git(ctx, dir, "remote", "add", "-f", Prefix, url); err != nil {
		return err
	}
	if err := git(ctx, dir, "subtree", "add", "--prefix", Prefix, Prefix, branch, "--squash"); err != nil {
		return err
	}

	marker := filepath.Join(dir, MarkerFile)
	if err := os.WriteFile(marker, []byte(url), 0644); err != nil {
		return fmt.Errorf("%w: writing %s: %w", ErrGit, MarkerFile, err)
	}
	if err := git(ctx, dir, "add", MarkerFile); err != nil {
		return err
	}
	return git(ctx, dir, "commit", "-m", "Add "+MarkerFile)
}

// Pulls the latest upstream changes into the vendored subtree, using
// the URL recorded in the marker file.
func Update(ctx context.Context, dir string) error {
	if !HasCrate(dir) {
		return fmt.Errorf("%w: %s", ErrNoVendoredCrate, filepath.Join(dir, Prefix))
	}

	remote, err := Remote(dir)
	if err != nil {
		return err
	}
	return git(ctx, dir, "subtree", "pull", "--prefix", Prefix, remote, "main", "--squash")
}

// Reads the upstream URL recorded by Init.
func Remote(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, MarkerFile))
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: missing %s", ErrNoVendoredCrate, MarkerFile)
	}
	if err != nil {
		return "", fmt.Errorf("%w: reading %s: %w", ErrGit, MarkerFile, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Stages a file in dir's git index. Failures are non-fatal for the
// callers; a project outside version control still gets its files.
func Stage(ctx context.Context, dir, path string) error {
	return git(ctx, dir, "add", path)
}

// Creates the first commit so a subtree can be added: a .gitignore
// excluding the dist tree, committed to a fresh repository.
func bootstrap(ctx context.Context, dir string) error {
	ignore := filepath.Join(dir, ".gitignore")

	if _, err := os.Stat(ignore); errors.Is(err, fs.ErrNotExist) {
		if err := os.WriteFile(ignore, []byte("dist/\n"), 0644); err != nil {
			return fmt.Errorf("%w: writing .gitignore: %w", ErrGit, err)
		}
	}

	for _, args := range [][]string{
		{"init"},
		{"reset"},
		{"add", ".gitignore"},
		{"commit", "-m", "Initial commit"},
	} {
		if err := git(ctx, dir, args...); err != nil {
			return err
		}
	}
	return nil
}

func git(ctx context.Context, dir string, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: git %s: %w: %s", ErrGit, strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
