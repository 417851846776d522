package operations

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/daichongdev/gitplus/internal/git"
	"github.com/daichongdev/gitplus/internal/ignore"
	"github.com/daichongdev/gitplus/internal/log"
	"github.com/daichongdev/gitplus/internal/models"
	"github.com/daichongdev/gitplus/internal/notify"
)

// Ignorer adds paths to the closest applicable ignore file.
type Ignorer struct {
	sink     notify.Sink
	writer   *ignore.Writer
	locks    *Locks
	fileName string
	marker   string
}

// IgnorerOption configures an Ignorer.
type IgnorerOption func(*Ignorer)

// WithIgnoreFileName sets the ignore file name (".gitignore" by default).
func WithIgnoreFileName(name string) IgnorerOption {
	return func(i *Ignorer) {
		if name != "" {
			i.fileName = name
		}
	}
}

// WithVCSMarker sets the repository marker directory (".git" by default).
func WithVCSMarker(name string) IgnorerOption {
	return func(i *Ignorer) {
		if name != "" {
			i.marker = name
		}
	}
}

// WithRefresher is told about every ignore file that was written.
func WithRefresher(refresher ignore.Refresher) IgnorerOption {
	return func(i *Ignorer) {
		i.writer = ignore.NewWriter(refresher, log.Printf)
	}
}

// WithIgnoreLocks shares a keyed mutex with other actions.
func WithIgnoreLocks(locks *Locks) IgnorerOption {
	return func(i *Ignorer) {
		i.locks = locks
	}
}

// NewIgnorer builds an Ignorer reporting to sink.
func NewIgnorer(sink notify.Sink, opts ...IgnorerOption) *Ignorer {
	i := &Ignorer{
		sink:     sink,
		writer:   ignore.NewWriter(nil, log.Printf),
		fileName: ignore.DefaultFileName,
		marker:   ignore.DefaultMarker,
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.locks == nil {
		i.locks = NewLocks()
	}
	return i
}

// Available reports whether the ignore action may run for inv: a project and
// a file are selected and the project root is a repository.
func (i *Ignorer) Available(inv models.Invocation) bool {
	return checkSelection(inv) == nil && git.IsRepositoryRoot(inv.ProjectRoot, i.marker)
}

// Ignore appends the invocation's target to the ignore file that governs it.
// Result.Path is the rule, relative to the ignore file's directory. A target
// already covered by an existing rule is reported and left alone.
func (i *Ignorer) Ignore(ctx context.Context, inv models.Invocation) (result models.CommandResult) {
	if err := checkSelection(inv); err != nil {
		return i.fail(err)
	}
	if !git.IsRepositoryRoot(inv.ProjectRoot, i.marker) {
		return i.fail(newError(KindPrecondition, msgNotGitProject, nil))
	}

	defer func() {
		if r := recover(); r != nil {
			result = i.fail(newError(KindUnexpected, msgAddFailed+fmt.Sprint(r), nil))
		}
	}()

	if err := ctx.Err(); err != nil {
		return i.fail(newError(KindUnexpected, msgAddFailed+err.Error(), err))
	}

	root := filepath.Clean(inv.ProjectRoot)
	// Locate may create the root file, so reject bad targets first.
	if _, err := ignore.Relativize(root, *inv.Target); err != nil {
		return i.fail(newError(KindUnexpected, msgAddFailed+err.Error(), err))
	}

	unlock := i.locks.Lock(root)
	defer unlock()

	file, err := ignore.Locate(root, *inv.Target,
		ignore.WithFileName(i.fileName), ignore.WithMarker(i.marker))
	if err != nil {
		return i.fail(newError(KindUnexpected, msgAddFailed+err.Error(), err))
	}
	rel, err := ignore.Relativize(filepath.Dir(file), *inv.Target)
	if err != nil {
		return i.fail(newError(KindUnexpected, msgAddFailed+err.Error(), err))
	}

	written, err := i.writer.Append(file, rel)
	if err != nil {
		return i.fail(newError(KindUnexpected, msgAddFailed+err.Error(), err))
	}

	log.Debug().Str("file", file).Str("rule", rel).Bool("written", written).Msg("ignore")
	if !written {
		i.sink.Notify("", msgAlreadyIgnored+rel, models.SeverityInfo)
	} else {
		i.sink.Notify(titleAdded, msgAdded+rel, models.SeverityInfo)
	}
	return models.CommandResult{Success: true, Path: rel, Output: file}
}

// Dispatch runs Ignore on pool and delivers the result on the returned
// channel.
func (i *Ignorer) Dispatch(ctx context.Context, pool *Pool, inv models.Invocation) <-chan models.CommandResult {
	return pool.Dispatch(ctx, inv, i.Ignore)
}

func (i *Ignorer) fail(err *Error) models.CommandResult {
	log.Debug().Str("kind", err.Kind.String()).Msg(err.Message)
	i.sink.Notify(titleError, err.Message, models.SeverityError)
	return models.CommandResult{Output: err.Message}
}
