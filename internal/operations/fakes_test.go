package operations

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/daichongdev/gitplus/internal/git"
	"github.com/daichongdev/gitplus/internal/models"
)

type fakeRepository struct {
	mu         sync.Mutex
	root       string
	refreshes  int
	refreshErr error
}

func (r *fakeRepository) RootPath() string { return r.root }

func (r *fakeRepository) Refresh() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refreshes++
	return r.refreshErr
}

func (r *fakeRepository) refreshCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.refreshes
}

type fakeLookup struct {
	repo  *fakeRepository
	err   error
	calls int
}

func (l *fakeLookup) FindOwningRepository(_ context.Context, _ string) (Repository, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	if l.repo == nil {
		return nil, nil
	}
	return l.repo, nil
}

type fakeExecutor struct {
	mu       sync.Mutex
	result   models.CommandResult
	panicMsg string
	calls    int
	lastRoot string
	lastKind git.CommandKind
	lastArgs []string
}

func (e *fakeExecutor) RunCommand(_ context.Context, root string, kind git.CommandKind, args []string) models.CommandResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	e.lastRoot = root
	e.lastKind = kind
	e.lastArgs = append([]string(nil), args...)
	if e.panicMsg != "" {
		panic(e.panicMsg)
	}
	return e.result
}

type recordingSink struct {
	mu    sync.Mutex
	notes []models.Notification
}

func (s *recordingSink) Notify(title, message string, severity models.Severity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = append(s.notes, models.Notification{Title: title, Message: message, Severity: severity})
}

func (s *recordingSink) all() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Notification(nil), s.notes...)
}

func (s *recordingSink) last(t *testing.T) models.Notification {
	t.Helper()
	notes := s.all()
	require.NotEmpty(t, notes)
	return notes[len(notes)-1]
}

// newProject creates a directory with a .git marker.
func newProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o750))
	return root
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path) //nolint:gosec
	require.NoError(t, err)
	return string(data)
}

func invocation(root, path string) models.Invocation {
	target := models.NewTargetEntry(path)
	return models.Invocation{ProjectRoot: root, Target: &target}
}
