package watch

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	syncCmd "github.com/sidkik/jconf/cmd/sync"
	"github.com/sidkik/jconf/cmd/util"
	"github.com/sidkik/jconf/pkg/config"
	"github.com/sidkik/jconf/pkg/errors"
	"github.com/sidkik/jconf/pkg/fswatch"
	"github.com/sidkik/jconf/pkg/sync"
)

const (
	// debounceInterval is how long the trees must be quiet after a change
	// before syncing. Editors often write a file in several steps.
	debounceInterval = 500 * time.Millisecond

	// pollInterval is how often to sync when nothing has changed. Changes to
	// directories that didn't exist when the watcher was created are only
	// picked up by polling.
	pollInterval = 30 * time.Second
)

// Mocked for unit testing.
var (
	clock      = clockwork.NewRealClock()
	watchFiles = watchFilesImpl
	wait       = waitForChange
)

// New creates a new `watch` command.
func New() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Sync the configs whenever they change",
		Long: "Sync the configs, and then sync again whenever a file in an " +
			"origin or linked directory changes.\nThe config file is re-read " +
			"before every sync.",
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			opts, err := util.OptionsFromFlags(cmd.Flags())
			if err != nil {
				util.HandleFatalError(err)
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			if err := run(ctx, opts); err != nil {
				util.HandleFatalError(err)
			}
		},
	}
}

func run(ctx context.Context, opts util.Options) error {
	var configs []config.Config
	var outputRoot string
	for firstPass := true; ; firstPass = false {
		loaded, loadedRoot, err := util.LoadConfigs(opts)
		switch {
		case err == nil:
			configs, outputRoot = loaded, loadedRoot
			if err := syncCmd.SyncConfigs(configs, outputRoot, sync.ModeSync, opts); err != nil {
				// A config might be failing because the user is in the
				// middle of editing it, so keep watching.
				log.WithError(err).Warn("Sync failed")
			}
		case firstPass:
			return err
		default:
			// The config file might be half written. Keep watching the
			// configs from the last good read until it parses again.
			log.WithError(err).Warn("Failed to reload configs")
		}

		// The watcher is recreated after each sync so that it picks up the
		// directories the sync created.
		events, closeWatcher, err := watchFiles(configs, outputRoot)
		if err != nil {
			return errors.WithContext(err, "watch files")
		}

		changed := wait(ctx, events)
		if err := closeWatcher(); err != nil {
			log.WithError(err).Warn("Failed to close file watcher")
		}
		if !changed {
			return nil
		}
	}
}

// waitForChange blocks until the trees change and then settle, or until the
// poll interval passes. It returns false if the context is cancelled first.
func waitForChange(ctx context.Context, events <-chan struct{}) bool {
	timer := clock.NewTimer(pollInterval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.Chan():
		log.Debug("Polling for changes")
		return true
	case <-events:
	}

	resetTimer(timer, debounceInterval)
	for {
		select {
		case <-ctx.Done():
			return false
		case <-events:
			resetTimer(timer, debounceInterval)
		case <-timer.Chan():
			return true
		}
	}
}

// resetTimer resets a timer whose channel hasn't been received from.
func resetTimer(timer clockwork.Timer, d time.Duration) {
	if !timer.Stop() {
		<-timer.Chan()
	}
	timer.Reset(d)
}

func watchFilesImpl(configs []config.Config, outputRoot string) (<-chan struct{}, func() error, error) {
	watcher, err := fswatch.Watch(configs, outputRoot)
	if err != nil {
		return nil, nil, err
	}
	return watcher.Events, watcher.Close, nil
}
