package sync

import (
	"fmt"
	"io"
	"os"

	"github.com/buger/goterm"
	"github.com/spf13/cobra"

	"github.com/sidkik/jconf/cmd/util"
	"github.com/sidkik/jconf/pkg/config"
	"github.com/sidkik/jconf/pkg/sync"
)

// Mocked for unit testing.
var stdout io.Writer = os.Stdout

var descriptions = map[sync.Mode]string{
	sync.ModeSync: "Copy whichever side of each config was modified last",
	sync.ModePull: "Copy the configs from their origin into the output directory",
	sync.ModePush: "Copy the configs from the output directory back to their origin",
}

// New creates a new command that runs the engine in `mode`.
func New(mode sync.Mode) *cobra.Command {
	return &cobra.Command{
		Use:   mode.String(),
		Short: descriptions[mode],
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			opts, err := util.OptionsFromFlags(cmd.Flags())
			if err != nil {
				util.HandleFatalError(err)
			}

			if err := Run(mode, opts); err != nil {
				util.HandleFatalError(err)
			}
		},
	}
}

// Run loads the configs selected by `opts` and syncs them in `mode`.
func Run(mode sync.Mode, opts util.Options) error {
	configs, outputRoot, err := util.LoadConfigs(opts)
	if err != nil {
		return err
	}
	return SyncConfigs(configs, outputRoot, mode, opts)
}

// SyncConfigs syncs already loaded configs and prints a line for each config
// that finished. If a config fails, the configs before it are still printed.
func SyncConfigs(configs []config.Config, outputRoot string, mode sync.Mode, opts util.Options) error {
	engine := sync.Engine{DryRun: opts.DryRun}
	results, err := engine.Run(configs, outputRoot, mode, opts.Force)
	for _, result := range results {
		fmt.Fprintln(stdout, formatResult(mode, result, opts.DryRun))
	}
	return err
}

func formatResult(mode sync.Mode, result sync.Result, dryRun bool) string {
	var msg string
	switch {
	case !result.Changed():
		msg = "no change"
	case mode == sync.ModePull:
		msg = fmt.Sprintf("pulled %d", result.Pulled)
	case mode == sync.ModePush:
		msg = fmt.Sprintf("pushed %d", result.Pushed)
	default:
		msg = fmt.Sprintf("pulled %d, pushed %d", result.Pulled, result.Pushed)
	}

	color := goterm.GREEN
	if !result.Changed() {
		color = goterm.BLACK
	}

	line := fmt.Sprintf("%s: %s", goterm.Bold(result.Name), goterm.Color(msg, color))
	if dryRun {
		line = "(dry run) " + line
	}
	return line
}
