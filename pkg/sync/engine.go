package sync

import (
	"io"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/sidkik/jconf/pkg/errors"
)

// Engine copies files from one tree to another.
type Engine struct {
	// DryRun counts the files that would be copied without writing anything.
	DryRun bool
}

// Sync copies the files under `from` that match the globs into `to`. A file
// is copied if `force` is set, if it doesn't exist in `to`, or if the source
// was modified strictly after the destination. It returns the number of
// files copied.
//
// Sync stops at the first error. Files that were already copied stay copied.
func (e Engine) Sync(from, to, include, exclude string, force bool) (int, error) {
	walker, err := NewWalker(from, include, exclude)
	if err != nil {
		return 0, err
	}

	var copied int
	err = walker.Walk(func(relPath string) error {
		didCopy, err := e.syncFile(from, to, relPath, force)
		if err != nil {
			return err
		}
		if didCopy {
			copied++
		}
		return nil
	})
	return copied, err
}

func (e Engine) syncFile(fromBase, toBase, relPath string, force bool) (bool, error) {
	from := filepath.Join(fromBase, relPath)
	to := filepath.Join(toBase, relPath)

	fromInfo, err := lstat(from)
	if err != nil {
		return false, errors.IOError{Op: "stat", Path: from, Err: err}
	}

	// Directories get created as needed when their files are copied.
	if fromInfo.IsDir() || fromInfo.Mode()&os.ModeSymlink != 0 {
		log.WithField("path", from).Debug("Skipping non-regular file")
		return false, nil
	}

	shouldCopy := force
	toInfo, err := fs.Stat(to)
	switch {
	case os.IsNotExist(err):
		shouldCopy = true
	case err != nil:
		return false, errors.IOError{Op: "stat", Path: to, Err: err}
	case fromInfo.ModTime().After(toInfo.ModTime()):
		shouldCopy = true
	}

	if !shouldCopy {
		return false, nil
	}

	logger := log.WithFields(log.Fields{"from": from, "to": to})
	if e.DryRun {
		logger.Debug("Would copy file")
		return true, nil
	}

	if err := copyFile(from, to, fromInfo); err != nil {
		return false, err
	}
	logger.Debug("Copied file")
	return true, nil
}

func copyFile(src, dst string, srcInfo os.FileInfo) error {
	dstParent := filepath.Dir(dst)
	dstParentExists, err := afero.DirExists(fs, dstParent)
	if err != nil {
		return errors.IOError{Op: "stat", Path: dstParent, Err: err}
	}

	if !dstParentExists {
		if err := fs.MkdirAll(dstParent, 0755); err != nil {
			return errors.IOError{Op: "make parent", Path: dstParent, Err: err}
		}
	}

	srcFile, err := fs.Open(src)
	if err != nil {
		return errors.IOError{Op: "open source", Path: src, Err: err}
	}
	defer srcFile.Close()

	dstFile, err := fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return errors.IOError{Op: "open destination", Path: dst, Err: err}
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		dstFile.Close()
		return errors.IOError{Op: "copy", Path: dst, Err: err}
	}

	if err := dstFile.Close(); err != nil {
		return errors.IOError{Op: "close", Path: dst, Err: err}
	}

	// An existing destination keeps its old mode through OpenFile.
	if err := fs.Chmod(dst, srcInfo.Mode().Perm()); err != nil {
		return errors.IOError{Op: "set file mode", Path: dst, Err: err}
	}

	// Change the modification time as the last step so that it doesn't get
	// reset by other file operations.
	if err := fs.Chtimes(dst, time.Now(), srcInfo.ModTime()); err != nil {
		return errors.IOError{Op: "set modification time", Path: dst, Err: err}
	}
	return nil
}
