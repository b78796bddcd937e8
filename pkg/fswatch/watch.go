package fswatch

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/sidkik/jconf/pkg/config"
	"github.com/sidkik/jconf/pkg/errors"
	"github.com/sidkik/jconf/pkg/sync"
)

var fs = afero.NewOsFs()

// Watcher sends an event on Events whenever a file in a watched tree changes.
// Bursts of changes are combined into a single event.
type Watcher struct {
	Events chan struct{}

	watcher *fsnotify.Watcher
}

// Watch watches the origin and linked trees of each config. Directories that
// don't exist yet aren't watched, so callers should call Watch again after
// syncing to pick up newly created directories.
func Watch(configs []config.Config, outputRoot string) (*Watcher, error) {
	pathsToWatch, err := getPathsToWatch(configs, outputRoot)
	if err != nil {
		return nil, errors.WithContext(err, "get paths")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WithContext(err, "create watcher")
	}

	for _, path := range pathsToWatch {
		if err := watcher.Add(path); err != nil {
			// Close the watcher so that we release the file handlers for the
			// previously added paths.
			if err := watcher.Close(); err != nil {
				log.WithError(err).Warn("Failed to close file watcher")
			}

			return nil, errors.WithContext(err, fmt.Sprintf("watch %q", path))
		}
	}

	go logErrors(watcher.Errors)
	return &Watcher{
		Events:  combineUpdates(watcher.Events),
		watcher: watcher,
	}, nil
}

// Close stops watching. Events is not closed.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func combineUpdates(updates <-chan fsnotify.Event) chan struct{} {
	combined := make(chan struct{}, 1)
	go func() {
		for event := range updates {
			log.WithField("event", event).Debug("File changed")
			select {
			case combined <- struct{}{}:
			default:
			}
		}
	}()
	return combined
}

func logErrors(errs <-chan error) {
	for err := range errs {
		log.WithError(err).Warn("File watcher error")
	}
}

// getPathsToWatch returns the directories to watch for each config. fsnotify
// reports changes to the direct children of a directory, so trees whose
// include glob can match nested files are watched recursively.
func getPathsToWatch(configs []config.Config, outputRoot string) ([]string, error) {
	pathSet := map[string]struct{}{}
	for _, cfg := range configs {
		recursive := strings.Contains(cfg.IncludeGlob, "/")
		roots := []string{cfg.BasePath, sync.LinkedPath(outputRoot, cfg.Name)}
		for _, root := range roots {
			fi, err := fs.Stat(root)
			if err != nil {
				if os.IsNotExist(err) {
					log.WithField("path", root).Debug("Not watching missing directory")
					continue
				}
				return nil, errors.WithContext(err, "stat")
			}
			if !fi.IsDir() {
				continue
			}

			pathSet[root] = struct{}{}
			if !recursive {
				continue
			}

			subdirs, err := getSubdirectories(root)
			if err != nil {
				return nil, errors.WithContext(err, "get subdirs")
			}
			for _, subdir := range subdirs {
				pathSet[subdir] = struct{}{}
			}
		}
	}

	var paths []string
	for path := range pathSet {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths, nil
}

// getSubdirectories walks `dir` without following symlinks.
func getSubdirectories(dir string) (paths []string, err error) {
	err = afero.Walk(fs, dir, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return errors.WithContext(err, "walk error")
		}

		if path != dir && fi.IsDir() {
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}
