package sync

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sidkik/jconf/pkg/config"
	"github.com/sidkik/jconf/pkg/errors"
)

var (
	shellConfig = config.Config{
		Name: "shell",
		PathSpec: config.PathSpec{
			BasePath:    "/home/kevin",
			IncludeGlob: ".bashrc",
		},
	}
	nvimConfig = config.Config{
		Name: "nvim",
		PathSpec: config.PathSpec{
			BasePath:    "/home/kevin/.config/nvim",
			IncludeGlob: config.DefaultInclude,
			ExcludeGlob: "**/*.log",
		},
	}
)

func TestRunPull(t *testing.T) {
	fs = afero.NewMemMapFs()
	bashrc := mockFile{path: "/home/kevin/.bashrc", contents: "alias ll='ls -l'", mode: 0644, modTime: older}
	writeFiles(t,
		bashrc,
		mockFile{path: "/home/kevin/.profile", contents: "profile", mode: 0644, modTime: older},
	)

	results, err := Engine{}.Run([]config.Config{shellConfig}, "/out", ModePull, false)
	assert.NoError(t, err)
	assert.Equal(t, []Result{{Name: "shell", Pulled: 1}}, results)

	bashrc.path = "/out/shell/.bashrc"
	assertFile(t, bashrc)
	assertDoesNotExist(t, "/out/shell/.profile")
}

func TestRunPush(t *testing.T) {
	fs = afero.NewMemMapFs()
	linked := mockFile{path: "/out/nvim/init.lua", contents: "new", mode: 0644, modTime: older}
	writeFiles(t,
		linked,
		mockFile{path: "/out/nvim/debug.log", contents: "log", mode: 0644, modTime: older},
		mockFile{path: "/home/kevin/.config/nvim/init.lua", contents: "old", mode: 0644, modTime: newer},
	)

	// The origin is newer, so nothing is pushed without force.
	results, err := Engine{}.Run([]config.Config{nvimConfig}, "/out", ModePush, false)
	assert.NoError(t, err)
	assert.Equal(t, []Result{{Name: "nvim"}}, results)
	assert.False(t, results[0].Changed())

	results, err = Engine{}.Run([]config.Config{nvimConfig}, "/out", ModePush, true)
	assert.NoError(t, err)
	assert.Equal(t, []Result{{Name: "nvim", Pushed: 1}}, results)

	linked.path = "/home/kevin/.config/nvim/init.lua"
	assertFile(t, linked)
	assertDoesNotExist(t, "/home/kevin/.config/nvim/debug.log")
}

func TestRunSyncNewerWins(t *testing.T) {
	fs = afero.NewMemMapFs()
	origin := mockFile{path: "/home/kevin/.config/nvim/a.txt", contents: "origin", mode: 0644, modTime: older}
	linked := mockFile{path: "/out/nvim/a.txt", contents: "linked", mode: 0644, modTime: newer}
	onlyOrigin := mockFile{path: "/home/kevin/.config/nvim/b.txt", contents: "b", mode: 0644, modTime: older}
	writeFiles(t, origin, linked, onlyOrigin)

	results, err := Engine{}.Run([]config.Config{nvimConfig}, "/out", ModeSync, false)
	assert.NoError(t, err)
	assert.Equal(t, []Result{{Name: "nvim", Pulled: 1, Pushed: 1}}, results)

	linked.path = origin.path
	assertFile(t, linked)
	onlyOrigin.path = "/out/nvim/b.txt"
	assertFile(t, onlyOrigin)
}

func TestRunSyncIsIdempotent(t *testing.T) {
	fs = afero.NewMemMapFs()
	writeFiles(t,
		randomFile(mockFile{path: "/home/kevin/.bashrc", modTime: newer}),
		randomFile(mockFile{path: "/out/shell/.bashrc", modTime: older}),
		randomFile(mockFile{path: "/home/kevin/.config/nvim/init.lua"}),
		randomFile(mockFile{path: "/out/nvim/lua/plugins.lua"}),
	)

	configs := []config.Config{shellConfig, nvimConfig}
	results, err := Engine{}.Run(configs, "/out", ModeSync, false)
	assert.NoError(t, err)
	assert.Equal(t, []Result{
		{Name: "shell", Pulled: 1},
		{Name: "nvim", Pulled: 1, Pushed: 1},
	}, results)

	results, err = Engine{}.Run(configs, "/out", ModeSync, false)
	assert.NoError(t, err)
	for _, result := range results {
		assert.False(t, result.Changed(), result.Name)
	}
}

func TestRunSyncIgnoresForce(t *testing.T) {
	fs = afero.NewMemMapFs()
	writeFiles(t,
		mockFile{path: "/home/kevin/.bashrc", contents: "same", mode: 0644, modTime: older},
		mockFile{path: "/out/shell/.bashrc", contents: "same", mode: 0644, modTime: older},
	)

	results, err := Engine{}.Run([]config.Config{shellConfig}, "/out", ModeSync, true)
	assert.NoError(t, err)
	assert.Equal(t, []Result{{Name: "shell"}}, results)
}

func TestRunStopsAtFirstError(t *testing.T) {
	fs = afero.NewMemMapFs()
	writeFiles(t, randomFile(mockFile{path: "/home/kevin/.bashrc"}))

	badConfig := config.Config{
		Name: "bad",
		PathSpec: config.PathSpec{
			BasePath:    "/home/kevin",
			IncludeGlob: "[abc",
		},
	}

	results, err := Engine{}.Run([]config.Config{shellConfig, badConfig, nvimConfig}, "/out", ModePull, false)
	assert.Error(t, err)
	assert.IsType(t, errors.GlobPatternError{}, errors.RootCause(err))
	assert.Equal(t, []Result{{Name: "shell", Pulled: 1}}, results)

	// The files copied before the failure stay copied.
	exists, err := afero.Exists(fs, "/out/shell/.bashrc")
	require.NoError(t, err)
	assert.True(t, exists)
}
