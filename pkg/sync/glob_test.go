package sync

import (
	"sort"
	"testing"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sidkik/jconf/pkg/errors"
)

func TestWalker(t *testing.T) {
	files := []string{
		"/nvim/init.lua",
		"/nvim/lazy-lock.json",
		"/nvim/lua/plugins.lua",
		"/nvim/lua/config/keymaps.lua",
		"/nvim/.netrwhist",
	}

	tests := []struct {
		name     string
		include  string
		exclude  string
		expPaths []string
	}{
		{
			name:    "Everything",
			include: "**/*",
			expPaths: []string{".netrwhist", "init.lua", "lazy-lock.json", "lua",
				"lua/config", "lua/config/keymaps.lua", "lua/plugins.lua"},
		},
		{
			name:     "TopLevelOnly",
			include:  "*.lua",
			expPaths: []string{"init.lua"},
		},
		{
			name:    "RecursiveExtension",
			include: "**/*.lua",
			expPaths: []string{"init.lua", "lua/config/keymaps.lua",
				"lua/plugins.lua"},
		},
		{
			name:     "ExcludeDirectoryContents",
			include:  "**/*.lua",
			exclude:  "lua/**",
			expPaths: []string{"init.lua"},
		},
		{
			name:    "ExcludeDotFiles",
			include: "**/*",
			exclude: ".*",
			expPaths: []string{"init.lua", "lazy-lock.json", "lua",
				"lua/config", "lua/config/keymaps.lua", "lua/plugins.lua"},
		},
		{
			name:     "ExcludeFileNameAtAnyDepth",
			include:  "**/*.lua",
			exclude:  "keymaps.lua",
			expPaths: []string{"init.lua", "lua/plugins.lua"},
		},
		{
			name:     "ExcludeExtensionAtAnyDepth",
			include:  "**/*",
			exclude:  "*.lua",
			expPaths: []string{".netrwhist", "lazy-lock.json", "lua", "lua/config"},
		},
		{
			name:     "RootedInclude",
			include:  "/*.lua",
			expPaths: []string{"init.lua"},
		},
		{
			name:     "RootedExclude",
			include:  "**/*.lua",
			exclude:  "/lua/**",
			expPaths: []string{"init.lua"},
		},
		{
			name:     "SingleFile",
			include:  "lazy-lock.json",
			expPaths: []string{"lazy-lock.json"},
		},
		{
			name:    "MissingFile",
			include: "does-not-exist",
		},
	}

	fs = afero.NewMemMapFs()
	for _, path := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte("contents"), 0644))
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			walker, err := NewWalker("/nvim", test.include, test.exclude)
			require.NoError(t, err)

			paths, err := walkPaths(walker)
			assert.NoError(t, err)

			// Sort for consistency.
			sort.Strings(paths)
			assert.Equal(t, test.expPaths, paths)
		})
	}
}

func TestWalkerIsRestartable(t *testing.T) {
	fs = afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/dir/a", []byte("a"), 0644))

	walker, err := NewWalker("/dir", "**/*", "")
	require.NoError(t, err)

	paths, err := walkPaths(walker)
	assert.NoError(t, err)
	assert.Equal(t, []string{"a"}, paths)

	// New files are seen by later walks.
	require.NoError(t, afero.WriteFile(fs, "/dir/b", []byte("b"), 0644))
	paths, err = walkPaths(walker)
	assert.NoError(t, err)
	sort.Strings(paths)
	assert.Equal(t, []string{"a", "b"}, paths)
}

func TestWalkerStopsOnCallbackError(t *testing.T) {
	fs = afero.NewMemMapFs()
	for _, path := range []string{"/dir/a", "/dir/b", "/dir/c"} {
		require.NoError(t, afero.WriteFile(fs, path, []byte("contents"), 0644))
	}

	walker, err := NewWalker("/dir", "*", "")
	require.NoError(t, err)

	stop := errors.New("stop")
	var visited int
	err = walker.Walk(func(string) error {
		visited++
		return stop
	})
	assert.Equal(t, stop, err)
	assert.Equal(t, 1, visited)
}

func TestWalkerMissingBase(t *testing.T) {
	fs = afero.NewMemMapFs()
	walker, err := NewWalker("/does-not-exist", "**/*", "")
	require.NoError(t, err)

	paths, err := walkPaths(walker)
	assert.NoError(t, err)
	assert.Empty(t, paths)
}

func TestNewWalkerBadPattern(t *testing.T) {
	_, err := NewWalker("/dir", "**/*", "[abc")
	assert.Equal(t, errors.GlobPatternError{Pattern: "[abc", Err: doublestar.ErrBadPattern}, err)

	_, err = NewWalker("/dir", "{a,b", "")
	assert.Equal(t, errors.GlobPatternError{Pattern: "{a,b", Err: doublestar.ErrBadPattern}, err)
}

func walkPaths(w *Walker) ([]string, error) {
	var paths []string
	err := w.Walk(func(path string) error {
		paths = append(paths, path)
		return nil
	})
	return paths, err
}
