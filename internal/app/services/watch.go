// Package services holds background helpers for the browser.
package services

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// RepoWatchDebounce is the debounce window for watcher events.
const RepoWatchDebounce = 600 * time.Millisecond

// RepoWatchService watches a repository's index, its ignore files and the
// directory being browsed, and signals when the listing may be stale.
type RepoWatchService struct {
	Started     bool
	Waiting     bool
	Root        string
	GitDir      string
	IgnoreFile  string
	Events      chan struct{}
	Done        chan struct{}
	Paths       map[string]struct{}
	Mu          sync.Mutex
	Watcher     *fsnotify.Watcher
	LastRefresh time.Time
	logf        func(string, ...any)
}

// NewRepoWatchService creates a watcher for ignore files named ignoreFile.
func NewRepoWatchService(ignoreFile string, logf func(string, ...any)) *RepoWatchService {
	return &RepoWatchService{
		IgnoreFile: ignoreFile,
		logf:       logf,
	}
}

// Start begins watching root and its git directory. A root without a git
// directory (for example a linked worktree, where .git is a file) is watched
// without index events.
func (w *RepoWatchService) Start(root, gitDir string) (bool, error) {
	if w.Started || root == "" {
		return false, nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return false, err
	}

	w.Started = true
	w.Watcher = watcher
	w.Root = filepath.Clean(root)
	w.GitDir = filepath.Clean(gitDir)
	w.Events = make(chan struct{}, 1)
	w.Done = make(chan struct{})
	w.Paths = make(map[string]struct{})
	w.addWatchDir(w.Root)
	w.addWatchDir(w.GitDir)

	go w.run()
	return true, nil
}

// Stop stops the watcher and closes channels.
func (w *RepoWatchService) Stop() {
	if !w.Started {
		return
	}
	close(w.Done)
	w.Started = false
	if w.Watcher != nil {
		_ = w.Watcher.Close()
	}
}

// WatchDir adds a browsed directory inside the repository.
func (w *RepoWatchService) WatchDir(dir string) {
	if !w.Started || !w.IsUnderRoot(dir) {
		return
	}
	w.addWatchDir(filepath.Clean(dir))
}

// NextEvent returns the event channel if waiting is not already active.
func (w *RepoWatchService) NextEvent() <-chan struct{} {
	if w.Events == nil || w.Waiting {
		return nil
	}
	w.Waiting = true
	return w.Events
}

// ResetWaiting clears the waiting flag after an event is processed.
func (w *RepoWatchService) ResetWaiting() {
	w.Waiting = false
}

// ShouldRefresh checks debounce timing for watcher events.
func (w *RepoWatchService) ShouldRefresh(now time.Time) bool {
	if !w.LastRefresh.IsZero() && now.Sub(w.LastRefresh) < RepoWatchDebounce {
		return false
	}
	w.LastRefresh = now
	return true
}

// Signal notifies listeners of watcher activity.
func (w *RepoWatchService) Signal() {
	select {
	case <-w.Done:
		return
	default:
	}
	select {
	case w.Events <- struct{}{}:
	default:
	}
}

// IsUnderRoot reports whether path is the repository root or inside it.
func (w *RepoWatchService) IsUnderRoot(path string) bool {
	if path == "" || w.Root == "" {
		return false
	}
	path = filepath.Clean(path)
	return path == w.Root || strings.HasPrefix(path, w.Root+string(filepath.Separator))
}

// Relevant reports whether a change to path can alter the listing. Inside
// the git directory only the index counts; lock files churn constantly.
func (w *RepoWatchService) Relevant(path string) bool {
	path = filepath.Clean(path)
	if filepath.Dir(path) == w.GitDir {
		return filepath.Base(path) == "index"
	}
	if w.GitDir != "" && strings.HasPrefix(path, w.GitDir+string(filepath.Separator)) {
		return false
	}
	return w.IsUnderRoot(path)
}

func (w *RepoWatchService) run() {
	for {
		select {
		case <-w.Done:
			return
		case event, ok := <-w.Watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !w.Relevant(event.Name) {
				continue
			}
			if filepath.Base(event.Name) == w.IgnoreFile {
				w.debugf("repo watcher: ignore file changed: %s", event.Name)
			}
			w.Signal()
		case err, ok := <-w.Watcher.Errors:
			if !ok {
				return
			}
			w.debugf("repo watcher error: %v", err)
		}
	}
}

func (w *RepoWatchService) addWatchDir(path string) {
	if path == "" || path == "." {
		return
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}

	w.Mu.Lock()
	defer w.Mu.Unlock()

	if _, ok := w.Paths[path]; ok {
		return
	}
	if err := w.Watcher.Add(path); err != nil {
		w.debugf("repo watcher add failed for %s: %v", path, err)
		return
	}
	w.Paths[path] = struct{}{}
}

func (w *RepoWatchService) debugf(format string, args ...any) {
	if w.logf == nil {
		return
	}
	w.logf(format, args...)
}
