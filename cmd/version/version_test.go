package version

import (
	"bytes"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sidkik/jconf/pkg/version"
)

func TestGetVersion(t *testing.T) {
	defer func() {
		version.Version = version.EmptyValue
		readBuildInfo = debug.ReadBuildInfo
	}()

	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Main: debug.Module{Version: "v0.3.0"}}, true
	}
	assert.Equal(t, "v0.3.0", getVersion())

	version.Version = "v0.4.0"
	assert.Equal(t, "v0.4.0", getVersion())

	version.Version = version.EmptyValue
	readBuildInfo = func() (*debug.BuildInfo, bool) { return nil, false }
	assert.Equal(t, version.EmptyValue, getVersion())
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	stdout = &out
	version.Version = "v0.4.0"
	defer func() { version.Version = version.EmptyValue }()

	cmd := New()
	cmd.SetArgs([]string{})
	assert.NoError(t, cmd.Execute())
	assert.Equal(t, "jconf version: v0.4.0\n", out.String())
}
