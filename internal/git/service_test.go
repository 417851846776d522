package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/daichongdev/gitplus/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

// initRepo creates a repository with the given files staged.
func initRepo(t *testing.T, files ...string) string {
	t.Helper()
	requireGit(t)

	root := t.TempDir()
	runGitCmd(t, root, "init", "-q")
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(f), 0o600))
		runGitCmd(t, root, "add", "--", f)
	}
	return root
}

func runGitCmd(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
	return string(out)
}

func TestNewService(t *testing.T) {
	service := NewService(nil, 0)

	assert.NotNil(t, service)
	assert.NotNil(t, service.semaphore)
	assert.NotNil(t, service.notify)
	assert.NotNil(t, service.repos)

	expectedSlots := DefaultConcurrency()
	count := 0
	for i := 0; i < expectedSlots+1; i++ {
		select {
		case <-service.semaphore:
			count++
		default:
		}
	}
	assert.Equal(t, expectedSlots, count)
}

func TestNewServiceCustomLimit(t *testing.T) {
	service := NewService(nil, 2)
	assert.Equal(t, 2, cap(service.semaphore))
	assert.Len(t, service.semaphore, 2)
}

func TestDefaultConcurrencyBounds(t *testing.T) {
	limit := DefaultConcurrency()
	assert.GreaterOrEqual(t, limit, 4)
	assert.LessOrEqual(t, limit, 32)
}

func TestCommandKind(t *testing.T) {
	args, err := CommandRemoveCached.baseArgs()
	require.NoError(t, err)
	assert.Equal(t, []string{"git", "rm", "-r", "--cached", "--"}, args)
	assert.Equal(t, "rm --cached", CommandRemoveCached.String())

	_, err = CommandKind(42).baseArgs()
	require.Error(t, err)
	assert.Equal(t, "CommandKind(42)", CommandKind(42).String())
}

func TestPrepareAllowedCommand(t *testing.T) {
	_, err := prepareAllowedCommand(context.Background(), nil)
	require.Error(t, err)

	_, err = prepareAllowedCommand(context.Background(), []string{"rm", "-rf", "/"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrGitNotFound)

	orig := LookupPath
	t.Cleanup(func() { LookupPath = orig })
	LookupPath = func(string) (string, error) { return "/usr/bin/git", nil }

	cmd, err := prepareAllowedCommand(context.Background(), []string{"git", "status"})
	require.NoError(t, err)
	assert.Equal(t, []string{"git", "status"}, cmd.Args)
}

func TestAvailableUsesLookupPath(t *testing.T) {
	orig := LookupPath
	t.Cleanup(func() { LookupPath = orig })

	LookupPath = func(string) (string, error) { return "", exec.ErrNotFound }
	assert.False(t, NewService(nil, 1).Available())

	LookupPath = func(string) (string, error) { return "/usr/bin/git", nil }
	assert.True(t, NewService(nil, 1).Available())
}

// collectNotes returns a NotifyFn recording every message it receives.
func collectNotes(messages *[]string) NotifyFn {
	return func(message string, severity models.Severity) {
		if severity == models.SeverityError {
			*messages = append(*messages, message)
		}
	}
}

func TestRunCommandMissingGitNotifies(t *testing.T) {
	orig := LookupPath
	t.Cleanup(func() { LookupPath = orig })
	LookupPath = func(string) (string, error) { return "", exec.ErrNotFound }

	var messages []string
	service := NewService(collectNotes(&messages), 1)
	result := service.RunCommand(context.Background(), t.TempDir(), CommandRemoveCached, []string{"a.txt"})

	assert.False(t, result.Success)
	assert.Contains(t, result.Output, ErrGitNotFound.Error())
	assert.Equal(t, []string{"Command not found: git"}, messages)
}

func TestRunCommandExitFailureIsNotNotified(t *testing.T) {
	root := initRepo(t, "keep.txt")
	var messages []string
	service := NewService(collectNotes(&messages), 1)

	result := service.RunCommand(context.Background(), root, CommandRemoveCached, []string{"missing.txt"})

	assert.False(t, result.Success)
	assert.Empty(t, messages)
}

func TestRunCommandStartFailureNotifies(t *testing.T) {
	requireGit(t)
	var messages []string
	service := NewService(collectNotes(&messages), 1)

	missing := filepath.Join(t.TempDir(), "gone")
	result := service.RunCommand(context.Background(), missing, CommandRemoveCached, []string{"a.txt"})

	assert.False(t, result.Success)
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0], "Command could not start: git rm")
}

func TestRunCommandRemoveCached(t *testing.T) {
	root := initRepo(t, "keep.txt", "secret.env")
	service := NewService(nil, 1)

	result := service.RunCommand(context.Background(), root, CommandRemoveCached, []string{"secret.env"})

	require.True(t, result.Success, result.Output)
	assert.FileExists(t, filepath.Join(root, "secret.env"))
	tracked := runGitCmd(t, root, "ls-files")
	assert.Contains(t, tracked, "keep.txt")
	assert.NotContains(t, tracked, "secret.env")
}

func TestRunCommandRemoveCachedDirectory(t *testing.T) {
	root := initRepo(t, "build/a.o", "build/sub/b.o", "main.c")
	service := NewService(nil, 1)

	result := service.RunCommand(context.Background(), root, CommandRemoveCached, []string{"build/"})

	require.True(t, result.Success, result.Output)
	tracked := strings.TrimSpace(runGitCmd(t, root, "ls-files"))
	assert.Equal(t, "main.c", tracked)
	assert.DirExists(t, filepath.Join(root, "build", "sub"))
}

func TestRunCommandFailureCarriesDiagnostics(t *testing.T) {
	root := initRepo(t, "keep.txt")
	service := NewService(nil, 1)

	result := service.RunCommand(context.Background(), root, CommandRemoveCached, []string{"missing.txt"})

	assert.False(t, result.Success)
	assert.Contains(t, result.Output, "fatal: pathspec")
}

func TestRunCommandUnknownKind(t *testing.T) {
	var messages []string
	result := NewService(collectNotes(&messages), 1).RunCommand(context.Background(), t.TempDir(), CommandKind(9), nil)
	assert.False(t, result.Success)
	assert.Contains(t, result.Output, "unsupported command kind")
	assert.Equal(t, []string{"Unsupported command: CommandKind(9)"}, messages)
}

func TestFindOwningRepository(t *testing.T) {
	root := initRepo(t, "src/main.go")
	service := NewService(nil, 1)

	repo, err := service.FindOwningRepository(context.Background(), filepath.Join(root, "src", "main.go"))
	require.NoError(t, err)
	require.NotNil(t, repo)
	assert.Equal(t, filepath.Clean(root), repo.RootPath())

	again, err := service.FindOwningRepository(context.Background(), filepath.Join(root, "src"))
	require.NoError(t, err)
	assert.Same(t, repo, again)
}

func TestFindOwningRepositoryDeletedFile(t *testing.T) {
	root := initRepo(t, "gone/file.txt")
	require.NoError(t, os.RemoveAll(filepath.Join(root, "gone")))

	repo, err := NewService(nil, 1).FindOwningRepository(context.Background(), filepath.Join(root, "gone", "file.txt"))
	require.NoError(t, err)
	require.NotNil(t, repo)
	assert.Equal(t, filepath.Clean(root), repo.Root)
}

func TestFindOwningRepositoryOutsideRepo(t *testing.T) {
	dir := t.TempDir()
	if out, err := exec.Command("git", "-C", dir, "rev-parse", "--show-toplevel").Output(); err == nil {
		t.Skipf("temp dir is inside a repository: %s", out)
	}

	repo, err := NewService(nil, 1).FindOwningRepository(context.Background(), filepath.Join(dir, "file.txt"))
	require.NoError(t, err)
	assert.Nil(t, repo)
}

func TestIsRepositoryRoot(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, IsRepositoryRoot(dir, ""))
	assert.False(t, IsRepositoryRoot("", ".git"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git"), []byte("gitdir: elsewhere"), 0o600))
	assert.False(t, IsRepositoryRoot(dir, ".git"))

	other := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(other, ".git"), 0o750))
	assert.True(t, IsRepositoryRoot(other, ""))
}

func TestExistingDir(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, dir, existingDir(filepath.Join(dir, "a", "b", "c.txt")))
	assert.Equal(t, "", existingDir(""))

	file := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(file, nil, 0o600))
	assert.Equal(t, dir, existingDir(file))
}
