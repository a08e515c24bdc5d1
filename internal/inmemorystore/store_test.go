package inmemorystore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/taskgrid/internal/nodestore"
)

func TestLifecycle(t *testing.T) {
	s := New()
	ctx := context.Background()

	// Unknown tasks are Pending.
	assert.Equal(t, nodestore.Pending, s.Status(ctx, "build"))
	assert.Nil(t, s.Err(ctx, "build"))

	require.True(t, s.Claim(ctx, "build"))
	assert.Equal(t, nodestore.Running, s.Status(ctx, "build"))
	assert.False(t, s.Claim(ctx, "build"), "a task is claimed at most once")

	require.NoError(t, s.Succeed(ctx, "build"))
	assert.Equal(t, nodestore.Succeeded, s.Status(ctx, "build"))
}

func TestFailAndSkip(t *testing.T) {
	s := New()
	ctx := context.Background()
	cause := errors.New("exit status 2")

	// A task can fail without running, e.g. when it cannot be rendered.
	require.NoError(t, s.Fail(ctx, "usb-check", cause))
	assert.Equal(t, nodestore.Failed, s.Status(ctx, "usb-check"))
	assert.Equal(t, cause, s.Err(ctx, "usb-check"))

	reason := errors.New("upstream failed")
	assert.True(t, s.Skip(ctx, "usb", reason))
	assert.Equal(t, nodestore.Skipped, s.Status(ctx, "usb"))
	assert.Equal(t, reason, s.Err(ctx, "usb"))
	assert.False(t, s.Skip(ctx, "usb", reason))
	assert.False(t, s.Claim(ctx, "usb"), "skipped tasks never run")
}

func TestInvalidTransitions(t *testing.T) {
	s := New()
	ctx := context.Background()

	err := s.Succeed(ctx, "never-claimed")
	require.ErrorIs(t, err, nodestore.ErrInvalidTransition)
	var trErr *nodestore.TransitionError
	require.True(t, errors.As(err, &trErr))
	assert.Equal(t, nodestore.Pending, trErr.From)
	assert.Equal(t, nodestore.Succeeded, trErr.To)

	require.True(t, s.Claim(ctx, "done"))
	require.NoError(t, s.Succeed(ctx, "done"))
	assert.ErrorIs(t, s.Fail(ctx, "done", errors.New("late")), nodestore.ErrInvalidTransition)
	assert.Nil(t, s.Err(ctx, "done"))
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "pending", nodestore.Pending.String())
	assert.Equal(t, "skipped", nodestore.Skipped.String())
	assert.Equal(t, "status(42)", nodestore.Status(42).String())
}

// TestStore_ConcurrentClaim verifies that exactly one of many goroutines
// racing for the same task wins the claim.
func TestStore_ConcurrentClaim(t *testing.T) {
	s := New()
	ctx := context.Background()
	numGoroutines := 100
	var wg sync.WaitGroup
	var winners atomic.Int32

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(i int) {
			defer wg.Done()
			if s.Claim(ctx, "shared") {
				winners.Add(1)
			}
			// Unrelated tasks proceed independently.
			own := fmt.Sprintf("task-%d", i)
			if s.Claim(ctx, own) {
				assert.NoError(t, s.Succeed(ctx, own))
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), winners.Load())
	for i := 0; i < numGoroutines; i++ {
		assert.Equal(t, nodestore.Succeeded, s.Status(ctx, fmt.Sprintf("task-%d", i)))
	}
}
