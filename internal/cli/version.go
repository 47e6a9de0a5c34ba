package cli

import (
	"context"
	"fmt"

	"github.com/cratekit/podforge/internal/buildinfo"
)

// Represents the 'podforge version' command.
type VersionCmd struct{}

// Executes the version command.
func (c *VersionCmd) Run(ctx context.Context) error {
	fmt.Println(buildinfo.String())
	return nil
}
