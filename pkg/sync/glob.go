package sync

import (
	iofs "io/fs"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"

	"github.com/sidkik/jconf/pkg/errors"
)

// Walker lists the paths under a base directory that match an include glob
// and don't match an exclude glob. Both globs are relative to the base
// directory, and `**` matches any number of directories.
//
// An exclude glob without a `/` matches at any depth, so `*.log` excludes
// `sub/b.log` as well as `b.log`.
type Walker struct {
	base     string
	include  string
	excludes []string
}

// NewWalker validates the globs and returns a Walker rooted at `base`. An
// empty `exclude` excludes nothing. A leading `/` on either glob anchors it at
// `base`, which is where globs are anchored anyway.
func NewWalker(base, include, exclude string) (*Walker, error) {
	for _, pattern := range []string{include, exclude} {
		if pattern != "" && !doublestar.ValidatePattern(pattern) {
			return nil, errors.GlobPatternError{Pattern: pattern, Err: doublestar.ErrBadPattern}
		}
	}

	w := &Walker{
		base:    base,
		include: trimRoot(include),
	}
	if exclude = trimRoot(exclude); exclude != "" {
		w.excludes = []string{exclude}
		if !strings.Contains(exclude, "/") {
			w.excludes = append(w.excludes, "**/"+exclude)
		}
	}
	return w, nil
}

func trimRoot(pattern string) string {
	return strings.TrimLeft(filepath.ToSlash(pattern), "/")
}

func (w *Walker) excluded(path string) bool {
	for _, exclude := range w.excludes {
		if doublestar.MatchUnvalidated(exclude, path) {
			return true
		}
	}
	return false
}

// Walk calls `fn` with the path of each match, relative to the base
// directory. The filesystem is read as the walk progresses, so `fn` sees
// matches before the whole tree has been listed. Directories are visited in
// lexical order, and Walk can be called again to list the tree afresh.
//
// A base directory that doesn't exist has no matches.
func (w *Walker) Walk(fn func(relPath string) error) error {
	exists, err := afero.DirExists(fs, w.base)
	if err != nil {
		return errors.IOError{Op: "stat", Path: w.base, Err: err}
	}
	if !exists {
		return nil
	}

	root := afero.NewIOFS(afero.NewBasePathFs(fs, w.base))
	var fnErr error
	err = doublestar.GlobWalk(root, w.include, func(path string, _ iofs.DirEntry) error {
		if w.excluded(path) {
			return nil
		}

		if err := fn(filepath.FromSlash(path)); err != nil {
			fnErr = err
			return err
		}
		return nil
	}, doublestar.WithFailOnIOErrors(), doublestar.WithNoFollow())

	switch {
	case fnErr != nil:
		return fnErr
	case err != nil:
		return errors.IOError{Op: "walk", Path: w.base, Err: err}
	}
	return nil
}
