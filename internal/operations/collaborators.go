package operations

import (
	"context"

	"github.com/daichongdev/gitplus/internal/git"
	"github.com/daichongdev/gitplus/internal/models"
)

// Repository is a working tree whose cached state can be recomputed.
type Repository interface {
	RootPath() string
	Refresh() error
}

// RepositoryLookup finds the repository that contains a path. A nil
// Repository with a nil error means the path is not inside one.
type RepositoryLookup interface {
	FindOwningRepository(ctx context.Context, path string) (Repository, error)
}

// LookupFunc adapts a function to RepositoryLookup.
type LookupFunc func(ctx context.Context, path string) (Repository, error)

// FindOwningRepository calls f(ctx, path).
func (f LookupFunc) FindOwningRepository(ctx context.Context, path string) (Repository, error) {
	return f(ctx, path)
}

// Executor runs version-control commands against a working tree.
type Executor interface {
	RunCommand(ctx context.Context, root string, kind git.CommandKind, args []string) models.CommandResult
}

var _ Executor = (*git.Service)(nil)

// NewGitLookup resolves repositories through svc.
func NewGitLookup(svc *git.Service) RepositoryLookup {
	return LookupFunc(func(ctx context.Context, path string) (Repository, error) {
		repo, err := svc.FindOwningRepository(ctx, path)
		if err != nil || repo == nil {
			// keep a nil *git.Repository from becoming a non-nil interface
			return nil, err
		}
		return repo, nil
	})
}

// RepositoryRefresher refreshes the repository owning a changed ignore file
// so its ignore rules are re-read.
func RepositoryRefresher(lookup RepositoryLookup) func(path string) error {
	return func(path string) error {
		repo, err := lookup.FindOwningRepository(context.Background(), path)
		if err != nil || repo == nil {
			return err
		}
		return repo.Refresh()
	}
}
