package cli

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
)

// Set via ldflags for release builds.
var (
	version = "development"
	hash    = ""
)

// VersionCommand is the `version` command line command.
type VersionCommand struct{}

// Execute executes the version command.
// (This gets called by `go-flags` when `version` is provided on the command
// line)
func (command *VersionCommand) Execute(args []string) error {
	if err := writeVersion(os.Stdout); err != nil {
		return err
	}
	os.Exit(0)
	return nil
}

func writeVersion(w io.Writer) error {
	_, err := fmt.Fprintf(w, "workbench %s (%s)\n", version, revision())
	return err
}

// revision is the ldflags hash or, lacking that, the VCS revision the binary
// was built from.
func revision() string {
	if hash != "" {
		return hash
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" {
			return setting.Value
		}
	}
	return "unknown"
}
