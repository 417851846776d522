package ignore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/daichongdev/gitplus/internal/models"
)

const (
	// DefaultFileName is the name of the ignore file rules are written to.
	DefaultFileName = ".gitignore"
	// DefaultMarker is the metadata entry that marks a repository root.
	DefaultMarker = ".git"

	defaultFilePerms = 0o644
)

type locateOptions struct {
	fileName string
	marker   string
}

// LocateOption customises Locate.
type LocateOption func(*locateOptions)

// WithFileName overrides the ignore file name (default ".gitignore").
func WithFileName(name string) LocateOption {
	return func(o *locateOptions) {
		if name != "" {
			o.fileName = name
		}
	}
}

// WithMarker overrides the repository marker name (default ".git").
func WithMarker(name string) LocateOption {
	return func(o *locateOptions) {
		if name != "" {
			o.marker = name
		}
	}
}

// Locate returns the ignore file that should receive a rule for target.
//
// The closest existing ignore file between the target's parent directory and
// repoRoot wins. When none exists, or when repoRoot carries no repository
// marker, the root-level file is used and created empty if missing.
func Locate(repoRoot string, target models.TargetEntry, opts ...LocateOption) (string, error) {
	o := locateOptions{fileName: DefaultFileName, marker: DefaultMarker}
	for _, opt := range opts {
		opt(&o)
	}

	root := filepath.Clean(repoRoot)
	rootFile := filepath.Join(root, o.fileName)

	if !exists(filepath.Join(root, o.marker)) {
		return rootFile, ensureFile(rootFile)
	}

	dir := filepath.Dir(filepath.Clean(target.Path))
	for isWithin(root, dir) && isDir(dir) {
		candidate := filepath.Join(dir, o.fileName)
		if isRegular(candidate) {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return rootFile, ensureFile(rootFile)
}

// ensureFile creates an empty file at path unless one already exists.
func ensureFile(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, defaultFilePerms) //nolint:gosec
	if err != nil {
		return fmt.Errorf("create ignore file %s: %w", path, err)
	}
	return f.Close()
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isRegular(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
