package operations

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daichongdev/gitplus/internal/models"
)

func TestLocksSerializeSameKey(t *testing.T) {
	locks := NewLocks()
	var active, peak int32
	var wg sync.WaitGroup

	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock("/repo")
			defer unlock()
			n := atomic.AddInt32(&active, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			atomic.AddInt32(&active, -1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), peak)
	assert.Equal(t, 0, locks.size())
}

func TestLocksIndependentKeys(t *testing.T) {
	locks := NewLocks()
	unlockA := locks.Lock("/a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock := locks.Lock("/b")
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("lock on a different key blocked")
	}
}

func TestPoolLimitsWorkers(t *testing.T) {
	pool := NewPool(2)
	var active, peak int32
	work := func(context.Context, models.Invocation) models.CommandResult {
		n := atomic.AddInt32(&active, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&active, -1)
		return models.CommandResult{Success: true}
	}

	var pending []<-chan models.CommandResult
	for range 6 {
		pending = append(pending, pool.Dispatch(context.Background(), models.Invocation{}, work))
	}
	for _, ch := range pending {
		assert.True(t, (<-ch).Success)
	}
	assert.LessOrEqual(t, peak, int32(2))
}

func TestPoolDispatchCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false

	result := <-NewPool(0).Dispatch(ctx, models.Invocation{}, func(context.Context, models.Invocation) models.CommandResult {
		called = true
		return models.CommandResult{Success: true}
	})

	assert.False(t, called)
	assert.False(t, result.Success)
	assert.Equal(t, context.Canceled.Error(), result.Output)
}

func TestErrorKinds(t *testing.T) {
	cause := errors.New("disk full")
	tests := []struct {
		kind     Kind
		sentinel error
		name     string
	}{
		{KindPrecondition, ErrPrecondition, "precondition"},
		{KindResolution, ErrResolution, "resolution"},
		{KindExecution, ErrExecution, "execution"},
		{KindUnexpected, ErrUnexpected, "unexpected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fmt.Errorf("wrapped: %w", newError(tt.kind, "message", cause))
			assert.ErrorIs(t, err, tt.sentinel)
			assert.ErrorIs(t, err, cause)
			assert.Equal(t, tt.name, tt.kind.String())

			var opErr *Error
			require.ErrorAs(t, err, &opErr)
			assert.Equal(t, "message", opErr.Error())
		})
	}
	assert.NotErrorIs(t, newError(KindExecution, "x", nil), ErrPrecondition)
}
