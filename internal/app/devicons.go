package app

import (
	"io/fs"
	"time"

	devicons "github.com/epilande/go-devicons"
)

// entryInfo presents a browser entry as fs.FileInfo, which is all devicons
// needs to choose a glyph. Nothing is stat-ed again.
type entryInfo struct{ e entry }

func (i entryInfo) Name() string       { return i.e.name }
func (i entryInfo) Size() int64        { return 0 }
func (i entryInfo) ModTime() time.Time { return time.Time{} }
func (i entryInfo) IsDir() bool        { return i.e.isDir }
func (i entryInfo) Sys() any           { return nil }

func (i entryInfo) Mode() fs.FileMode {
	if i.e.isDir {
		return fs.ModeDir | 0o755
	}
	return 0o644
}

// iconPrefix returns the entry's icon followed by a space, or "" when
// devicons has nothing for it.
func iconPrefix(e entry) string {
	if e.name == "" {
		return ""
	}
	icon := devicons.IconForInfo(entryInfo{e: e}).Icon
	if icon == "" {
		return ""
	}
	return icon + " "
}
