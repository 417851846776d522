package operations

import (
	"context"
	"fmt"

	"github.com/daichongdev/gitplus/internal/git"
	"github.com/daichongdev/gitplus/internal/ignore"
	"github.com/daichongdev/gitplus/internal/log"
	"github.com/daichongdev/gitplus/internal/models"
	"github.com/daichongdev/gitplus/internal/notify"
)

// Phase is a step of the untrack workflow.
type Phase string

const (
	PhaseResolving Phase = "resolving"
	PhaseExecuting Phase = "executing"
	PhaseReporting Phase = "reporting"
)

// Untracker removes paths from the git index while leaving them on disk.
type Untracker struct {
	lookup  RepositoryLookup
	exec    Executor
	sink    notify.Sink
	locks   *Locks
	ignorer *Ignorer
	onPhase func(Phase)
}

// UntrackerOption configures an Untracker.
type UntrackerOption func(*Untracker)

// WithUntrackLocks shares a keyed mutex with other actions.
func WithUntrackLocks(locks *Locks) UntrackerOption {
	return func(u *Untracker) {
		u.locks = locks
	}
}

// WithAlsoIgnore appends successfully untracked paths to the ignore file.
func WithAlsoIgnore(ignorer *Ignorer) UntrackerOption {
	return func(u *Untracker) {
		u.ignorer = ignorer
	}
}

// WithPhaseHook observes phase transitions.
func WithPhaseHook(fn func(Phase)) UntrackerOption {
	return func(u *Untracker) {
		u.onPhase = fn
	}
}

// NewUntracker builds an Untracker.
func NewUntracker(lookup RepositoryLookup, exec Executor, sink notify.Sink, opts ...UntrackerOption) *Untracker {
	u := &Untracker{lookup: lookup, exec: exec, sink: sink}
	for _, opt := range opts {
		opt(u)
	}
	if u.locks == nil {
		u.locks = NewLocks()
	}
	return u
}

// Available reports whether untrack may run for inv.
func (u *Untracker) Available(inv models.Invocation) bool {
	return inv.ProjectRoot != "" && inv.Target != nil
}

// Untrack runs `git rm -r --cached` for the invocation's target and reports
// the outcome through the sink. It blocks; use Dispatch from interactive
// code.
func (u *Untracker) Untrack(ctx context.Context, inv models.Invocation) (result models.CommandResult) {
	if err := checkSelection(inv); err != nil {
		return u.fail(err, "")
	}

	defer func() {
		if r := recover(); r != nil {
			result = u.fail(newError(KindUnexpected, msgRemoveFailed+fmt.Sprint(r), nil), "")
		}
	}()

	result, err := u.untrack(ctx, inv)
	if err != nil {
		return u.fail(err, result.Path)
	}

	u.enter(PhaseReporting, inv)
	u.sink.Notify("", msgRemoved+result.Path, models.SeverityInfo)

	if u.ignorer != nil {
		u.ignorer.Ignore(ctx, inv)
	}
	return result
}

// Dispatch runs Untrack on pool and delivers the result on the returned
// channel.
func (u *Untracker) Dispatch(ctx context.Context, pool *Pool, inv models.Invocation) <-chan models.CommandResult {
	return pool.Dispatch(ctx, inv, u.Untrack)
}

func (u *Untracker) untrack(ctx context.Context, inv models.Invocation) (models.CommandResult, *Error) {
	u.enter(PhaseResolving, inv)
	repo, err := u.lookup.FindOwningRepository(ctx, inv.Target.Path)
	if err != nil {
		return models.CommandResult{}, newError(KindUnexpected, msgRemoveFailed+err.Error(), err)
	}
	if repo == nil {
		return models.CommandResult{}, newError(KindResolution, msgNotGitRepository, nil)
	}
	root := repo.RootPath()
	rel, err := ignore.Relativize(root, *inv.Target)
	if err != nil {
		return models.CommandResult{}, newError(KindUnexpected, msgRemoveFailed+err.Error(), err)
	}

	unlock := u.locks.Lock(root)
	defer unlock()

	u.enter(PhaseExecuting, inv)
	res := u.exec.RunCommand(ctx, root, git.CommandRemoveCached, []string{rel})
	res.Path = rel
	if !res.Success {
		return res, newError(KindExecution, msgGitCommandFailed+res.Output, nil)
	}

	if err := repo.Refresh(); err != nil {
		log.Debug().Err(err).Str("root", root).Msg("untrack: repository refresh failed")
	}
	return res, nil
}

func (u *Untracker) enter(phase Phase, inv models.Invocation) {
	log.Debug().Str("phase", string(phase)).Str("path", inv.Target.Path).Msg("untrack")
	if u.onPhase != nil {
		u.onPhase(phase)
	}
}

func (u *Untracker) fail(err *Error, path string) models.CommandResult {
	log.Debug().Str("kind", err.Kind.String()).Msg(err.Message)
	u.sink.Notify("", err.Message, models.SeverityError)
	return models.CommandResult{Path: path, Output: err.Message}
}

func checkSelection(inv models.Invocation) *Error {
	if inv.ProjectRoot == "" {
		return newError(KindPrecondition, msgNoProject, nil)
	}
	if inv.Target == nil {
		return newError(KindPrecondition, msgNoFile, nil)
	}
	return nil
}
