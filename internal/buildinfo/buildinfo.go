// Package buildinfo holds build metadata for the gitplus binary. The linker
// sets the variables in cmd/gitplus and main() forwards them with Set.
package buildinfo

import (
	"fmt"
	"runtime/debug"
	"sync"
)

const (
	unsetVersion = "dev"
	unsetCommit  = "none"
	unsetDate    = "unknown"
	unsetBuilder = "unknown"
)

// Info is the metadata reported by `gitplus version`.
type Info struct {
	Version string
	Commit  string
	Date    string
	BuiltBy string
}

var (
	mu      sync.RWMutex
	current = Info{Version: unsetVersion, Commit: unsetCommit, Date: unsetDate, BuiltBy: unsetBuilder}

	readBuildInfo = debug.ReadBuildInfo
)

// Set stores linker-provided metadata. Empty values keep the defaults.
func Set(version, commit, date, builtBy string) {
	mu.Lock()
	defer mu.Unlock()
	current = Info{
		Version: orDefault(version, unsetVersion),
		Commit:  orDefault(commit, unsetCommit),
		Date:    orDefault(date, unsetDate),
		BuiltBy: orDefault(builtBy, unsetBuilder),
	}
}

// Get returns the metadata, filling a missing commit from the VCS revision
// and a missing builder from the Go version recorded in the binary.
func Get() Info {
	mu.RLock()
	info := current
	mu.RUnlock()

	if info.Commit != unsetCommit && info.BuiltBy != unsetBuilder {
		return info
	}
	bi, ok := readBuildInfo()
	if !ok {
		return info
	}
	if info.Commit == unsetCommit {
		for _, setting := range bi.Settings {
			if setting.Key == "vcs.revision" && setting.Value != "" {
				info.Commit = setting.Value
			}
		}
	}
	if info.BuiltBy == unsetBuilder && bi.GoVersion != "" {
		info.BuiltBy = bi.GoVersion
	}
	return info
}

func (i Info) String() string {
	return fmt.Sprintf("gitplus version %s\ncommit: %s\nbuilt at: %s\nbuilt by: %s", i.Version, i.Commit, i.Date, i.BuiltBy)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
