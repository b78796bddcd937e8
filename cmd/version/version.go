package version

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/sidkik/jconf/pkg/version"
)

// Mocked for unit testing.
var (
	stdout         io.Writer = os.Stdout
	readBuildInfo            = debug.ReadBuildInfo
)

// New creates a new `version` command.
func New() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of jconf",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(stdout, "jconf version: %s\n", getVersion())
		},
	}
}

// getVersion falls back to the module version recorded by `go install` when
// the version wasn't set at link time.
func getVersion() string {
	if version.Version != version.EmptyValue {
		return version.Version
	}

	if info, ok := readBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return version.EmptyValue
}
