package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sidkik/jconf/cmd/list"
	syncCmd "github.com/sidkik/jconf/cmd/sync"
	"github.com/sidkik/jconf/cmd/util"
	"github.com/sidkik/jconf/cmd/version"
	"github.com/sidkik/jconf/cmd/watch"
	"github.com/sidkik/jconf/pkg/sync"
)

// verboseLogKey is the environment variable used to enable verbose logging.
// When it's set to `true`, Debug events are logged, rather than just Info and
// above.
const verboseLogKey = "JCONF_LOG_VERBOSE"

// Execute runs the main CLI process.
func Execute() {
	if err := newRootCommand().Execute(); err != nil {
		util.HandleFatalError(err)
	}
}

func newRootCommand() *cobra.Command {
	// Running jconf without a subcommand is the same as `jconf sync`.
	rootCmd := syncCmd.New(sync.ModeSync)
	rootCmd.Use = "jconf"
	rootCmd.Short = "Mirror configuration files into a single directory"
	rootCmd.Long = "jconf copies configuration files between where programs " +
		"expect them and a directory\nthat can be version controlled. " +
		"For each file, the side modified last wins."
	rootCmd.SilenceUsage = true

	// The call to rootCmd.Execute prints the error, so we silence errors
	// here to avoid double printing.
	rootCmd.SilenceErrors = true
	rootCmd.PersistentPreRun = setupLogging

	util.AddFlags(rootCmd.PersistentFlags())
	rootCmd.AddCommand(
		syncCmd.New(sync.ModeSync),
		syncCmd.New(sync.ModePull),
		syncCmd.New(sync.ModePush),
		watch.New(),
		list.New(),
		version.New(),
	)
	return rootCmd
}

func setupLogging(cmd *cobra.Command, _ []string) {
	verbose, err := cmd.Flags().GetBool(util.VerboseFlag)
	if err != nil {
		log.WithError(err).Debug("Failed to get verbose flag")
	}

	if verbose || os.Getenv(verboseLogKey) == "true" {
		log.SetLevel(log.DebugLevel)
	}
}
