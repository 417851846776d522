// Package ignore locates gitignore files, decides whether a rule is already
// present and appends new rules without disturbing existing formatting.
package ignore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/daichongdev/gitplus/internal/models"
)

// ErrInvalidPath is returned when a target cannot be expressed relative to a base.
var ErrInvalidPath = errors.New("invalid path")

// Relativize returns target's path relative to base, with forward slashes.
// Directories get a trailing "/".
func Relativize(base string, target models.TargetEntry) (string, error) {
	base = filepath.Clean(base)
	rel, err := filepath.Rel(base, filepath.Clean(target.Path))
	if err != nil {
		return "", fmt.Errorf("%w: %s has no common ancestor with %s: %v", ErrInvalidPath, target.Path, base, err)
	}
	if rel == "." {
		return "", fmt.Errorf("%w: %s is the base directory itself", ErrInvalidPath, target.Path)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s is outside %s", ErrInvalidPath, target.Path, base)
	}

	rel = filepath.ToSlash(rel)
	if target.IsDir {
		rel += "/"
	}
	return rel, nil
}

// isWithin reports whether target is base or one of its descendants.
func isWithin(base, target string) bool {
	rel, err := filepath.Rel(filepath.Clean(base), filepath.Clean(target))
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(os.PathSeparator))
}
