package buildinfo

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func stubBuildInfo(t *testing.T, bi *debug.BuildInfo) {
	t.Helper()
	orig := readBuildInfo
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, bi != nil }
	t.Cleanup(func() {
		readBuildInfo = orig
		Set("", "", "", "")
	})
}

func TestExplicitValuesWin(t *testing.T) {
	stubBuildInfo(t, &debug.BuildInfo{GoVersion: "go1.25.0"})
	Set("v1.0.0", "deadbeef", "2026-06-01", "goreleaser")

	assert.Equal(t, Info{Version: "v1.0.0", Commit: "deadbeef", Date: "2026-06-01", BuiltBy: "goreleaser"}, Get())
}

func TestMissingValuesFromBuildInfo(t *testing.T) {
	stubBuildInfo(t, &debug.BuildInfo{
		GoVersion: "go1.25.0",
		Settings:  []debug.BuildSetting{{Key: "vcs.revision", Value: "abc123"}},
	})
	Set("", "", "", "")

	info := Get()
	assert.Equal(t, "dev", info.Version)
	assert.Equal(t, "abc123", info.Commit)
	assert.Equal(t, "unknown", info.Date)
	assert.Equal(t, "go1.25.0", info.BuiltBy)
}

func TestNoBuildInfo(t *testing.T) {
	stubBuildInfo(t, nil)
	Set("1.2.3", "", "", "")

	assert.Equal(t, Info{Version: "1.2.3", Commit: "none", Date: "unknown", BuiltBy: "unknown"}, Get())
}

func TestString(t *testing.T) {
	info := Info{Version: "1.2.3", Commit: "abc", Date: "today", BuiltBy: "ci"}
	assert.Equal(t, "gitplus version 1.2.3\ncommit: abc\nbuilt at: today\nbuilt by: ci", info.String())
}
