// Package models defines the data objects shared across gitplus packages.
package models

import (
	"os"
	"path/filepath"
)

// Severity classifies a notification.
type Severity string

const (
	SeverityInfo  Severity = "info"
	SeverityError Severity = "error"
)

// TargetEntry is a file or directory selected by the user.
type TargetEntry struct {
	Path  string // Absolute path on disk
	IsDir bool   // Directories render with a trailing separator
}

// NewTargetEntry builds a TargetEntry for path, stat-ing it to fill IsDir.
// Missing paths are treated as files.
func NewTargetEntry(path string) TargetEntry {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	path = filepath.Clean(path)
	info, err := os.Stat(path)
	return TargetEntry{Path: path, IsDir: err == nil && info.IsDir()}
}

// Name returns the base name of the entry.
func (t TargetEntry) Name() string {
	return filepath.Base(t.Path)
}

// Invocation carries the project and selection state of a single action run.
// An empty ProjectRoot means no project is open; a nil Target means nothing is
// selected.
type Invocation struct {
	ProjectRoot string
	Target      *TargetEntry
}

// CommandResult is the outcome of a version-control command or workflow.
type CommandResult struct {
	Success bool
	Path    string // Repository-relative path the command acted on
	Output  string // Diagnostic text on failure
}

// Notification is a user-visible message produced by an action.
type Notification struct {
	Title    string
	Message  string
	Severity Severity
}
