// Parses flags and dispatches the podforge subcommands.
//
// The tool accepts the following global flags:
//
//	-q, --quiet     Suppress informational output.
//	-v, --verbose   Enable verbose output.
//	-d, --debug     Enable debug output.
//
// After parsing, the global logger is reconfigured to reflect the final
// level before the selected subcommand runs.
package cli
