package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/sidkik/jconf/pkg/errors"
)

// DefaultInclude matches every file under the base path, recursively.
const DefaultInclude = "**/*"

const (
	reasonNotDirectory  = "paths ending in a slash must be existing directories"
	reasonMissingSlash  = "directories must end with a trailing slash"
	reasonMissingParent = "the parent directory does not exist"
)

// Env looks up the value of an environment variable. It has the same
// signature as os.LookupEnv so that tests can swap in a map.
type Env func(name string) (string, bool)

// OSEnv reads from the process environment.
var OSEnv Env = os.LookupEnv

// MapEnv returns an Env backed by `vars`.
func MapEnv(vars map[string]string) Env {
	return func(name string) (string, bool) {
		val, ok := vars[name]
		return val, ok
	}
}

// RawPathKind tags which form a RawPathSpec was written in.
type RawPathKind int

const (
	// StringPath is a bare path such as `~/.bashrc`.
	StringPath RawPathKind = iota

	// TablePath is a `{path, include, exclude}` table.
	TablePath
)

// RawPathSpec is a path as written in the config file, before any
// environment expansion or filesystem inspection.
type RawPathSpec struct {
	Kind RawPathKind

	Path    string
	Include string
	Exclude string

	// HasPath is false when a table was written without a `path` key.
	HasPath bool
}

// NewStringPath creates a RawPathSpec for a bare path.
func NewStringPath(path string) RawPathSpec {
	return RawPathSpec{Kind: StringPath, Path: path, HasPath: true}
}

// NewTablePath creates a RawPathSpec for a table with a path.
func NewTablePath(path, include, exclude string) RawPathSpec {
	return RawPathSpec{
		Kind:    TablePath,
		Path:    path,
		Include: include,
		Exclude: exclude,
		HasPath: true,
	}
}

// UnmarshalJSON decodes either a string or a `{path, include, exclude}`
// table. Unknown table keys are ignored.
func (raw *RawPathSpec) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return errors.New("expected a string or a table `{ path, include?, exclude? }`, got null")
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*raw = NewStringPath(str)
		return nil
	}

	var table map[string]interface{}
	if err := json.Unmarshal(data, &table); err != nil || table == nil {
		return errors.New("expected a string or a table `{ path, include?, exclude? }`, got %s", data)
	}

	parsed := RawPathSpec{Kind: TablePath}
	for key, val := range table {
		var field *string
		switch key {
		case "path":
			field = &parsed.Path
			parsed.HasPath = true
		case "include":
			field = &parsed.Include
		case "exclude":
			field = &parsed.Exclude
		default:
			continue
		}

		str, ok := val.(string)
		if !ok {
			return errors.New("field %q must be a string", key)
		}
		*field = str
	}
	*raw = parsed
	return nil
}

// PathSpec is a RawPathSpec resolved against the environment and the
// filesystem. BasePath is always an absolute path to a directory, and the
// globs are relative to it.
type PathSpec struct {
	BasePath    string
	IncludeGlob string

	// ExcludeGlob is empty when nothing is excluded.
	ExcludeGlob string
}

func (spec PathSpec) String() string {
	if spec.ExcludeGlob == "" {
		return fmt.Sprintf("%s [%s]", spec.BasePath, spec.IncludeGlob)
	}
	return fmt.Sprintf("%s [%s, except %s]", spec.BasePath, spec.IncludeGlob, spec.ExcludeGlob)
}

// Resolve expands the variables in `raw` and decides whether it names a
// directory or a single file.
//
// A path ending in `/` must be an existing directory, and everything under it
// is included by default. A path without a trailing slash must not be a
// directory. Its final segment becomes the include glob and its parent
// becomes the base path.
func Resolve(raw RawPathSpec, env Env) (PathSpec, error) {
	if !raw.HasPath {
		return PathSpec{}, errors.MissingFieldError{Field: "path"}
	}

	path, err := expandVars(raw.Path, env)
	if err != nil {
		return PathSpec{}, err
	}

	spec := PathSpec{
		IncludeGlob: raw.Include,
		ExcludeGlob: raw.Exclude,
	}
	if strings.HasSuffix(path, "/") {
		if !isDir(path) {
			return PathSpec{}, errors.InvalidDirectorySpec{
				Path:   path,
				Reason: reasonNotDirectory,
			}
		}
		spec.BasePath = path
	} else {
		if isDir(path) {
			return PathSpec{}, errors.InvalidDirectorySpec{
				Path:   path,
				Reason: reasonMissingSlash,
			}
		}

		dir, name := filepath.Split(path)
		if name == "" || name == "." || name == ".." || !utf8.ValidString(name) {
			return PathSpec{}, errors.InvalidFileName{Path: path}
		}

		// The file is the only thing synced, so a table's include is
		// ignored.
		spec.IncludeGlob = name
		spec.BasePath = dir
		if spec.BasePath == "" {
			spec.BasePath = "."
		}
		if !isDir(spec.BasePath) {
			return PathSpec{}, errors.InvalidDirectorySpec{
				Path:   spec.BasePath,
				Reason: reasonMissingParent,
			}
		}
	}

	if spec.IncludeGlob == "" {
		spec.IncludeGlob = DefaultInclude
	}

	spec.BasePath, err = filepath.Abs(spec.BasePath)
	if err != nil {
		return PathSpec{}, errors.WithContext(err, "absolute path")
	}

	for _, pattern := range []string{spec.IncludeGlob, spec.ExcludeGlob} {
		if pattern != "" && !doublestar.ValidatePattern(pattern) {
			return PathSpec{}, errors.GlobPatternError{
				Pattern: pattern,
				Err:     doublestar.ErrBadPattern,
			}
		}
	}
	return spec, nil
}

// expandVars replaces a leading `$NAME` with the variable's value, and then a
// leading `~` with $HOME.
func expandVars(path string, env Env) (string, error) {
	if strings.HasPrefix(path, "$") {
		name, rest, hasRest := strings.Cut(path[1:], "/")
		val, ok := env(name)
		if !ok {
			return "", errors.EnvVarMissing{Name: name}
		}

		path = val
		if hasRest {
			path = val + "/" + rest
		}
	}

	if strings.HasPrefix(path, "~") {
		home, ok := env("HOME")
		if !ok {
			panic("$HOME must be set to expand ~ in config paths")
		}

		if _, rest, hasRest := strings.Cut(path, "/"); hasRest {
			path = home + "/" + rest
		} else {
			path = home
		}
	}
	return path, nil
}
