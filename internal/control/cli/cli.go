// Package cli provides the command-line interface for the workbench.
package cli

// CommandLineOpts are the options and subcommands, for `go-flags` to parse
// command line args into.
type CommandLineOpts struct {
	Version bool `short:"v" long:"version" description:"Show the program version"`

	RunCommand     RunCommand     `command:"run" subcommands-optional:"true"`
	InspectCommand InspectCommand `command:"inspect" subcommands-optional:"true"`
	VersionCommand VersionCommand `command:"version" subcommands-optional:"true"`
}

// Opts holds the parsed command line.
var Opts CommandLineOpts
