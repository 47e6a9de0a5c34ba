package main

import (
	"log/slog"
	"os"

	"github.com/cratekit/podforge/internal/buildinfo"
	"github.com/cratekit/podforge/internal/cli"
)

// The entry point for the podforge tool.
//
// Initializes logging and executes the root command. If any error
// occurs during execution, it exits with a non-zero code.
func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	slog.Debug("build", "version", buildinfo.String())

	if err := cli.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}
