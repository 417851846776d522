package git

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-git/go-billy/v5/osfs"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// Repository is a working tree with a cached view of its index and ignore
// rules. The cache is rebuilt by Refresh.
type Repository struct {
	Root string

	repo *gogit.Repository

	mu       sync.RWMutex
	loaded   bool
	tracked  map[string]struct{}
	matcher  gitignore.Matcher
	refreshN int
}

func newRepository(root string, repo *gogit.Repository) *Repository {
	return &Repository{Root: root, repo: repo}
}

// RootPath returns the top of the working tree.
func (r *Repository) RootPath() string {
	return r.Root
}

// Refresh reloads the tracked-file set from the index and re-reads the
// working tree's ignore rules.
func (r *Repository) Refresh() error {
	idx, err := r.repo.Storer.Index()
	if err != nil {
		return fmt.Errorf("read index of %s: %w", r.Root, err)
	}
	tracked := make(map[string]struct{}, len(idx.Entries))
	for _, entry := range idx.Entries {
		tracked[entry.Name] = struct{}{}
	}

	patterns, err := gitignore.ReadPatterns(osfs.New(r.Root), nil)
	if err != nil {
		return fmt.Errorf("read ignore rules of %s: %w", r.Root, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.tracked = tracked
	r.matcher = gitignore.NewMatcher(patterns)
	r.loaded = true
	r.refreshN++
	return nil
}

// Refreshes returns how many times the cache has been rebuilt.
func (r *Repository) Refreshes() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.refreshN
}

func (r *Repository) ensureLoaded() {
	r.mu.RLock()
	loaded := r.loaded
	r.mu.RUnlock()
	if !loaded {
		_ = r.Refresh()
	}
}

// IsTracked reports whether rel (slash separated, relative to Root) is in the
// index. A directory path ("dir/") is tracked when any file beneath it is.
func (r *Repository) IsTracked(rel string) bool {
	r.ensureLoaded()
	r.mu.RLock()
	defer r.mu.RUnlock()

	if strings.HasSuffix(rel, "/") {
		for name := range r.tracked {
			if strings.HasPrefix(name, rel) {
				return true
			}
		}
		return false
	}
	_, ok := r.tracked[rel]
	return ok
}

// IsIgnored reports whether rel matches the working tree's ignore rules.
func (r *Repository) IsIgnored(rel string, isDir bool) bool {
	r.ensureLoaded()
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.matcher == nil {
		return false
	}
	rel = strings.TrimSuffix(rel, "/")
	if rel == "" {
		return false
	}
	return r.matcher.Match(strings.Split(rel, "/"), isDir)
}
