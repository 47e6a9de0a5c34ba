package cli

import (
	"context"
	"log/slog"

	"github.com/cratekit/podforge/internal/archive"
)

// Represents the 'podforge bundle' command.
type BundleCmd struct{}

// Executes the bundle command.
//
// Packs the podspec, license and readme files, the Swift sources, and
// the dist tree into the release archive a podspec's source URL points
// at, and records the archive's digest next to it.
func (c *BundleCmd) Run(ctx context.Context) error {
	dgst, err := archive.Create(".", archive.Name)
	if err != nil {
		return err
	}

	slog.Info("wrote release archive", "file", archive.Name, "digest", dgst)
	return nil
}
