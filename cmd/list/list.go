package list

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/buger/goterm"
	"github.com/spf13/cobra"

	"github.com/sidkik/jconf/cmd/util"
	"github.com/sidkik/jconf/pkg/errors"
	"github.com/sidkik/jconf/pkg/sync"
)

// Mocked for unit testing.
var stdout io.Writer = os.Stdout

// New creates a new `list` command.
func New() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the configs and where they are synced",
		Long: "Print the resolved origin directory, the include and exclude globs, " +
			"and the linked directory of each config.",
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			opts, err := util.OptionsFromFlags(cmd.Flags())
			if err != nil {
				util.HandleFatalError(err)
			}

			if err := run(opts); err != nil {
				util.HandleFatalError(err)
			}
		},
	}
}

func run(opts util.Options) error {
	configs, err := util.ResolveConfigs(opts)
	if err != nil {
		return err
	}

	outputRoot, err := filepath.Abs(opts.Output)
	if err != nil {
		return errors.WithContext(err, "output path")
	}

	out := goterm.NewTable(0, 10, 5, ' ', 0)
	fmt.Fprintln(out, "NAME\tORIGIN\tINCLUDE\tEXCLUDE\tLINKED")
	for _, cfg := range configs {
		exclude := cfg.ExcludeGlob
		if exclude == "" {
			exclude = "-"
		}
		fmt.Fprintf(out, "%s\t%s\t%s\t%s\t%s\n", cfg.Name, cfg.BasePath,
			cfg.IncludeGlob, exclude, sync.LinkedPath(outputRoot, cfg.Name))
	}

	_, err = fmt.Fprint(stdout, out.String())
	return err
}
