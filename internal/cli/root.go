package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/cratekit/podforge/internal/buildinfo"
)

// Represents the root command for the podforge tool.
var RootCmd struct {
	Quiet   bool       `short:"q" help:"Suppress informational output."`
	Verbose bool       `short:"v" help:"Enable verbose output."`
	Debug   bool       `short:"d" help:"Enable debug output."`
	Build   BuildCmd   `cmd:"" help:"Compile the crate for every Apple target and assemble the distributable bundles."`
	Init    InitCmd    `cmd:"" help:"Generate a podspec, optionally vendoring the crate as a git subtree."`
	Update  UpdateCmd  `cmd:"" help:"Pull the latest upstream changes into the vendored crate."`
	Bundle  BundleCmd  `cmd:"" help:"Pack the podspec, sources, and dist tree into a release archive."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// Parses arguments, configures logging, and runs the selected subcommand.
func Execute() error {

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kongCtx := kong.Parse(&RootCmd,
		kong.Name(buildinfo.Name),
		kong.Description("Builds Rust static libraries for Apple platforms and packages them as CocoaPods-ready frameworks."),
		kong.UsageOnError(),
		kong.Vars{
			"version": buildinfo.String(),
		},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	configureLogger()

	return kongCtx.Run()
}

// Configures the global logger based on CLI flags.
func configureLogger() {
	level := slog.LevelInfo
	if RootCmd.Debug {
		level = slog.LevelDebug
	} else if RootCmd.Quiet {
		level = slog.LevelWarn
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: RootCmd.Verbose,
	})))
}
