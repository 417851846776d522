package operations

import (
	"context"
	"sync"

	"github.com/daichongdev/gitplus/internal/models"
)

// Locks serializes work per key. Entries are dropped once nobody holds or
// waits for them.
type Locks struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// NewLocks returns an empty keyed mutex.
func NewLocks() *Locks {
	return &Locks{entries: make(map[string]*lockEntry)}
}

// Lock blocks until key is free and returns the matching unlock function.
func (l *Locks) Lock(key string) func() {
	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &lockEntry{}
		l.entries[key] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.entries, key)
		}
		l.mu.Unlock()
	}
}

func (l *Locks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Pool runs submitted work on at most n goroutines at a time.
type Pool struct {
	slots chan struct{}
}

// NewPool returns a pool with n workers; n < 1 means one.
func NewPool(n int) *Pool {
	if n < 1 {
		n = 1
	}
	return &Pool{slots: make(chan struct{}, n)}
}

// Go runs fn once a worker is free. It never blocks the caller.
func (p *Pool) Go(fn func()) {
	go func() {
		p.slots <- struct{}{}
		defer func() { <-p.slots }()
		fn()
	}()
}

// ActionFunc is one of the actions: Ignorer.Ignore or Untracker.Untrack.
type ActionFunc func(ctx context.Context, inv models.Invocation) models.CommandResult

// Dispatch runs action for inv on the pool. The result is delivered on the
// returned channel, which is closed afterwards.
func (p *Pool) Dispatch(ctx context.Context, inv models.Invocation, action ActionFunc) <-chan models.CommandResult {
	out := make(chan models.CommandResult, 1)
	p.Go(func() {
		defer close(out)
		if err := ctx.Err(); err != nil {
			out <- models.CommandResult{Output: err.Error()}
			return
		}
		out <- action(ctx, inv)
	})
	return out
}
