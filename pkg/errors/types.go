package errors

import (
	"fmt"
)

// MissingFieldError represents a missing required field.
type MissingFieldError struct {
	Field string
}

func (err MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", err.Field)
}

// FileNotFound represents when we were unable to access a file
// because the path didn't exist.
type FileNotFound struct {
	Path string
}

func (err FileNotFound) Error() string {
	return fmt.Sprintf("%q does not exist", err.Path)
}

// EnvVarMissing is returned when a path references an environment variable
// that isn't set.
type EnvVarMissing struct {
	Name string
}

func (err EnvVarMissing) Error() string {
	return fmt.Sprintf("environment variable $%s is not set", err.Name)
}

// InvalidDirectorySpec is returned when a path's trailing slash disagrees
// with what's on disk. Directories must be written with a trailing slash, and
// paths with a trailing slash must be directories.
type InvalidDirectorySpec struct {
	Path   string
	Reason string
}

func (err InvalidDirectorySpec) Error() string {
	return fmt.Sprintf("invalid path %q: %s", err.Path, err.Reason)
}

// InvalidFileName is returned when the final segment of a file path is empty
// or isn't valid text.
type InvalidFileName struct {
	Path string
}

func (err InvalidFileName) Error() string {
	return fmt.Sprintf("%q does not end in a valid file name", err.Path)
}

// UnknownConfigName is returned when a config is selected that isn't defined
// in the config file.
type UnknownConfigName struct {
	Name string
}

func (err UnknownConfigName) Error() string {
	return fmt.Sprintf("config %q does not exist in the config file", err.Name)
}

// FriendlyMessage implements Friendly.
func (err UnknownConfigName) FriendlyMessage() string {
	return fmt.Sprintf("Passed config %q does not exist in the config file.\n"+
		"Run `jconf list` to see the configured names.", err.Name)
}

// GlobPatternError is returned for a malformed include or exclude pattern.
type GlobPatternError struct {
	Pattern string
	Err     error
}

func (err GlobPatternError) Error() string {
	return fmt.Sprintf("bad glob pattern %q: %s", err.Pattern, err.Err)
}

func (err GlobPatternError) Unwrap() error {
	return err.Err
}

// IOError wraps a filesystem failure encountered while syncing.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (err IOError) Error() string {
	return fmt.Sprintf("%s %q: %s", err.Op, err.Path, err.Err)
}

func (err IOError) Unwrap() error {
	return err.Err
}
