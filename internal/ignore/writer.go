package ignore

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

const maxLineSize = 1024 * 1024

// Refresher is told about ignore files that changed on disk.
type Refresher interface {
	Refresh(path string) error
}

// RefreshFunc adapts a function to Refresher.
type RefreshFunc func(path string) error

// Refresh calls f(path).
func (f RefreshFunc) Refresh(path string) error {
	return f(path)
}

// Writer appends rules to ignore files.
type Writer struct {
	refresher Refresher
	logf      func(string, ...any)
}

// NewWriter returns a Writer that notifies refresher after each write.
// refresher and logf may be nil.
func NewWriter(refresher Refresher, logf func(string, ...any)) *Writer {
	return &Writer{refresher: refresher, logf: logf}
}

// ReadLines returns the lines of path. A missing file has no lines.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read ignore file %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read ignore file %s: %w", path, err)
	}
	return lines, nil
}

// Append adds entry to ignoreFile unless an existing rule already covers it.
// It reports whether anything was written. Existing lines are never
// rewritten; the entry is only appended, preceded by a newline when the last
// line is not blank.
func (w *Writer) Append(ignoreFile, entry string) (bool, error) {
	lines, err := ReadLines(ignoreFile)
	if err != nil {
		return false, err
	}
	if IsCovered(lines, entry) {
		w.debugf("ignore: %s already covered in %s", entry, ignoreFile)
		return false, nil
	}

	text := entry
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) != "" {
		text = "\n" + entry
	}

	f, err := os.OpenFile(ignoreFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, defaultFilePerms) //nolint:gosec
	if err != nil {
		return false, fmt.Errorf("open ignore file %s: %w", ignoreFile, err)
	}
	if _, err := f.WriteString(text); err != nil {
		_ = f.Close()
		return false, fmt.Errorf("append to ignore file %s: %w", ignoreFile, err)
	}
	if err := f.Close(); err != nil {
		return false, fmt.Errorf("close ignore file %s: %w", ignoreFile, err)
	}
	w.debugf("ignore: appended %s to %s", entry, ignoreFile)

	w.refresh(ignoreFile)
	return true, nil
}

// refresh is advisory: a failed refresh never fails the completed write.
func (w *Writer) refresh(path string) {
	if w.refresher == nil {
		return
	}
	if err := w.refresher.Refresh(path); err != nil {
		w.debugf("ignore: refresh of %s failed: %v", path, err)
	}
}

func (w *Writer) debugf(format string, args ...any) {
	if w.logf == nil {
		return
	}
	w.logf(format, args...)
}
