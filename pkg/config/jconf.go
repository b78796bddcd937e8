package config

import (
	"sort"

	"github.com/sidkik/jconf/pkg/errors"
)

const (
	// DefaultConfigPath is where the CLI looks for the config file when no
	// path is given.
	DefaultConfigPath = "./jconf.yaml"

	// InitialConfigVersion is assumed for config files that don't declare a
	// version.
	InitialConfigVersion = "1"

	// SupportedConfigVersions is the range of config file versions that this
	// binary understands.
	SupportedConfigVersions = ">= 1, < 2"
)

// File is the parsed contents of a jconf config file.
type File struct {
	Version string                 `json:"version,omitempty"`
	Configs map[string]RawPathSpec `json:"configs"`

	// Only populated and consumed by jconf. Never set by user.
	path string
}

// GetPath returns the filepath that the config was parsed from.
func (f File) GetPath() string {
	return f.path
}

func (f File) getVersion() string {
	return f.Version
}

// Entry pairs a config name with its path as written in the config file.
type Entry struct {
	Name string
	Spec RawPathSpec
}

// Config is an Entry whose path has been resolved.
type Config struct {
	Name string
	PathSpec
}

// ParseFile parses the config file at `path`.
func ParseFile(path string) (File, error) {
	file := File{
		path:    path,
		Version: InitialConfigVersion,
	}
	if err := parseConfig(path, &file, SupportedConfigVersions); err != nil {
		if _, ok := err.(errors.FileNotFound); ok {
			return File{}, errors.NewFriendlyError("Config file %q does not exist.\n"+
				"Pass the path to your config file with --file.", path)
		}
		return File{}, errors.WithContext(err, "parse")
	}
	return file, nil
}

// Reduce returns the entries named by `selected`, in the order they were
// selected. If `selected` is nil, every entry is returned, sorted by name.
// Selecting a name that isn't in `all` fails without returning any entries.
func Reduce(all map[string]RawPathSpec, selected []string) ([]Entry, error) {
	if selected == nil {
		var entries []Entry
		for name, spec := range all {
			entries = append(entries, Entry{Name: name, Spec: spec})
		}
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Name < entries[j].Name
		})
		return entries, nil
	}

	// Entries are taken out of `remaining` as they're selected, so selecting
	// the same name twice fails.
	remaining := map[string]RawPathSpec{}
	for name, spec := range all {
		remaining[name] = spec
	}

	var entries []Entry
	for _, name := range selected {
		spec, ok := remaining[name]
		if !ok {
			return nil, errors.UnknownConfigName{Name: name}
		}
		delete(remaining, name)
		entries = append(entries, Entry{Name: name, Spec: spec})
	}
	return entries, nil
}

// ResolveAll resolves the path of each entry. It stops at the first entry that
// fails to resolve.
func ResolveAll(entries []Entry, env Env) ([]Config, error) {
	var configs []Config
	for _, entry := range entries {
		spec, err := Resolve(entry.Spec, env)
		if err != nil {
			return nil, errors.WithContext(err, "resolve "+entry.Name)
		}
		configs = append(configs, Config{Name: entry.Name, PathSpec: spec})
	}
	return configs, nil
}
