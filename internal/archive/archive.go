// Package archive assembles the distributable tarball a release points
// at: the podspec, license and readme files, the Swift sources, and the
// built dist tree.
package archive

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/gobwas/glob"
	"github.com/opencontainers/go-digest"
)

// Archive file name; podspec source URLs are templated against it.
const Name = "podforge.tgz"

var (
	ErrArchive = errors.New("writing distribution archive")

	// The dist tree is absent; there is nothing to distribute.
	ErrNoDist = errors.New("no dist directory to archive")
)

// Top-level files bundled alongside the src and dist trees.
var rootPatterns = []glob.Glob{
	glob.MustCompile("*.podspec"),
	glob.MustCompile("LICENSE*"),
	glob.MustCompile("README*"),
}

// Writes dir's distribution archive to outPath and records its SHA-256
// next to it in <outPath>.digest. The dist tree must exist; the src
// tree is included when present. Returns the archive digest.
func Create(dir, outPath string) (digest.Digest, error) {
	entries, err := selectEntries(dir)
	if err != nil {
		return "", err
	}

	out, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrArchive, err)
	}
	defer out.Close()

	digester := digest.SHA256.Digester()
	gz := gzip.NewWriter(io.MultiWriter(out, digester.Hash()))
	tw := tar.NewWriter(gz)

	for _, entry := range entries {
		if err := writeEntry(tw, dir, entry); err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrArchive, entry, err)
		}
	}

	if err := tw.Close(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrArchive, err)
	}
	if err := gz.Close(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrArchive, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrArchive, err)
	}

	dgst := digester.Digest()
	if err := os.WriteFile(outPath+".digest", []byte(dgst.String()+"\n"), 0644); err != nil {
		return "", fmt.Errorf("%w: recording digest: %w", ErrArchive, err)
	}
	return dgst, nil
}

// Picks the relative paths to bundle: glob-matched root files sorted
// for a stable archive layout, then src (if present) and dist.
func selectEntries(dir string) ([]string, error) {
	listing, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArchive, err)
	}

	var entries []string
	for _, item := range listing {
		if item.IsDir() {
			continue
		}
		for _, pattern := range rootPatterns {
			if pattern.Match(item.Name()) {
				entries = append(entries, item.Name())
				break
			}
		}
	}
	sort.Strings(entries)

	if _, err := os.Stat(filepath.Join(dir, "src")); err == nil {
		entries = append(entries, "src")
	}
	if _, err := os.Stat(filepath.Join(dir, "dist")); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoDist, dir)
	}
	return append(entries, "dist"), nil
}

// Writes one root entry, recursing through directories.
func writeEntry(tw *tar.Writer, dir, entry string) error {
	root := filepath.Join(dir, entry)
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)

		if err := tw.WriteHeader(header); err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(tw, f)
		return err
	})
}
