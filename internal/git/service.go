// Package git wraps git commands and repository discovery used by gitplus.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	gogit "github.com/go-git/go-git/v5"

	log "github.com/daichongdev/gitplus/internal/log"
	"github.com/daichongdev/gitplus/internal/models"
)

// LookupPath is used to find executables in PATH. It's exposed as a package variable
// so tests can mock it and avoid depending on system binaries being installed.
var LookupPath = exec.LookPath

// ErrGitNotFound is returned when no git executable is on PATH.
var ErrGitNotFound = errors.New("git executable not found")

// NotifyFn receives problems with the git binary itself. Failures of a
// command that did run are returned in its CommandResult instead.
type NotifyFn func(message string, severity models.Severity)

// CommandKind names a git command the service knows how to build.
type CommandKind int

const (
	// CommandRemoveCached removes paths from the index, recursively, keeping
	// the working tree untouched.
	CommandRemoveCached CommandKind = iota
)

func (k CommandKind) String() string {
	switch k {
	case CommandRemoveCached:
		return "rm --cached"
	default:
		return fmt.Sprintf("CommandKind(%d)", int(k))
	}
}

func (k CommandKind) baseArgs() ([]string, error) {
	switch k {
	case CommandRemoveCached:
		return []string{"git", "rm", "-r", "--cached", "--"}, nil
	default:
		return nil, fmt.Errorf("unsupported command kind %s", k)
	}
}

// Service orchestrates git commands and caches discovered repositories.
type Service struct {
	notify    NotifyFn
	semaphore chan struct{}

	mu    sync.Mutex
	repos map[string]*Repository
}

// DefaultConcurrency returns the default number of concurrent git operations.
func DefaultConcurrency() int {
	limit := runtime.NumCPU() * 2
	if limit < 4 {
		limit = 4
	}
	if limit > 32 {
		limit = 32
	}
	return limit
}

// NewService constructs a Service allowing at most limit concurrent git
// processes. A non-positive limit uses DefaultConcurrency.
func NewService(notify NotifyFn, limit int) *Service {
	if limit <= 0 {
		limit = DefaultConcurrency()
	}
	if notify == nil {
		notify = func(string, models.Severity) {}
	}

	// Counting semaphore: the channel starts full with 'limit' tokens.
	semaphore := make(chan struct{}, limit)
	for i := 0; i < limit; i++ {
		semaphore <- struct{}{}
	}

	return &Service{
		notify:    notify,
		semaphore: semaphore,
		repos:     make(map[string]*Repository),
	}
}

func (s *Service) debugf(format string, args ...any) {
	log.Printf(format, args...)
}

func prepareAllowedCommand(ctx context.Context, args []string) (*exec.Cmd, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no command provided")
	}

	switch args[0] {
	case "git":
		if _, err := LookupPath("git"); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrGitNotFound, err)
		}
		// #nosec G204 -- arguments for git command come from internal logic and are not shell interpolated
		return exec.CommandContext(ctx, "git", args[1:]...), nil
	default:
		return nil, fmt.Errorf("unsupported command %q", args[0])
	}
}

func (s *Service) acquireSemaphore() {
	<-s.semaphore
}

func (s *Service) releaseSemaphore() {
	s.semaphore <- struct{}{}
}

// Available reports whether a git binary can be found. Callers use it to
// fail fast before dispatching commands.
func (s *Service) Available() bool {
	_, err := LookupPath("git")
	return err == nil
}

// RunCommand runs a command of the given kind in the repository rooted at
// root. On failure, Output carries git's diagnostic text. Problems that stop
// git from starting at all are also sent to the service's NotifyFn.
func (s *Service) RunCommand(ctx context.Context, root string, kind CommandKind, args []string) models.CommandResult {
	base, err := kind.baseArgs()
	if err != nil {
		s.notify(fmt.Sprintf("Unsupported command: %s", kind), models.SeverityError)
		s.debugf("error: %v", err)
		return models.CommandResult{Output: err.Error()}
	}
	full := append(base, args...)
	command := strings.Join(full, " ")
	s.debugf("run: %s (cwd=%s)", command, root)

	cmd, err := prepareAllowedCommand(ctx, full)
	if err != nil {
		if errors.Is(err, ErrGitNotFound) {
			s.notify(fmt.Sprintf("Command not found: %s", full[0]), models.SeverityError)
		} else {
			s.notify(fmt.Sprintf("Unsupported command: %s", command), models.SeverityError)
		}
		s.debugf("error: %s: %v", command, err)
		return models.CommandResult{Output: err.Error()}
	}
	cmd.Dir = root

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	s.acquireSemaphore()
	err = cmd.Run()
	s.releaseSemaphore()

	if err != nil {
		var exitError *exec.ExitError
		if !errors.As(err, &exitError) {
			// git never ran: vanished binary, bad working directory, canceled context.
			s.notify(fmt.Sprintf("Command could not start: %s: %v", command, err), models.SeverityError)
			s.debugf("error: %s: %v", command, err)
			return models.CommandResult{Output: err.Error()}
		}
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = strings.TrimSpace(stdout.String())
		}
		if detail == "" {
			detail = fmt.Sprintf("exit %d", exitError.ExitCode())
		}
		s.debugf("error: %s: %s", command, detail)
		return models.CommandResult{Output: detail}
	}

	s.debugf("ok: %s", command)
	return models.CommandResult{Success: true, Output: strings.TrimSpace(stdout.String())}
}

// FindOwningRepository returns the repository whose working tree contains
// path, or nil when path is not inside any repository.
func (s *Service) FindOwningRepository(_ context.Context, path string) (*Repository, error) {
	start := existingDir(path)
	if start == "" {
		return nil, nil
	}

	repo, err := gogit.PlainOpenWithOptions(start, &gogit.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			s.debugf("lookup: %s is not inside a repository", path)
			return nil, nil
		}
		return nil, fmt.Errorf("open repository for %s: %w", path, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		if errors.Is(err, gogit.ErrIsBareRepository) {
			return nil, nil
		}
		return nil, fmt.Errorf("open worktree for %s: %w", path, err)
	}
	root := filepath.Clean(wt.Filesystem.Root())

	s.mu.Lock()
	defer s.mu.Unlock()
	if cached, ok := s.repos[root]; ok {
		return cached, nil
	}
	r := newRepository(root, repo)
	s.repos[root] = r
	s.debugf("lookup: %s belongs to %s", path, root)
	return r, nil
}

// IsRepositoryRoot reports whether dir has a marker directory (".git" by
// default) directly beneath it.
func IsRepositoryRoot(dir, marker string) bool {
	if dir == "" {
		return false
	}
	if marker == "" {
		marker = ".git"
	}
	info, err := os.Stat(filepath.Join(dir, marker))
	return err == nil && info.IsDir()
}

// existingDir returns the closest existing directory at or above path.
func existingDir(path string) string {
	if path == "" {
		return ""
	}
	dir := filepath.Clean(path)
	for {
		info, err := os.Stat(dir)
		if err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
