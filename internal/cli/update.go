package cli

import (
	"context"

	"github.com/cratekit/podforge/internal/vendoring"
)

// Represents the 'podforge update' command.
type UpdateCmd struct{}

// Executes the update command, pulling upstream changes into the
// vendored crate subtree.
func (c *UpdateCmd) Run(ctx context.Context) error {
	return vendoring.Update(ctx, ".")
}
