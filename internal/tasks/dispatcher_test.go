package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingExecutor records executed tasks. When gate is set every call
// waits for it, or for ctx to be cancelled.
type recordingExecutor struct {
	mu       sync.Mutex
	executed []string
	started  chan string
	gate     chan struct{}
	fail     map[string]error
	panics   map[string]bool
}

func newRecordingExecutor() *recordingExecutor {
	return &recordingExecutor{
		started: make(chan string, 16),
		fail:    make(map[string]error),
		panics:  make(map[string]bool),
	}
}

func (r *recordingExecutor) Execute(ctx context.Context, taskURI string) (*Outcome, error) {
	r.started <- taskURI
	if r.gate != nil {
		select {
		case <-r.gate:
		case <-ctx.Done():
			return &Outcome{Task: taskURI, Result: OutcomeFailed, Err: ctx.Err()}, nil
		}
	}
	r.mu.Lock()
	r.executed = append(r.executed, taskURI)
	r.mu.Unlock()

	if r.panics[taskURI] {
		panic("boom")
	}
	if err := r.fail[taskURI]; err != nil {
		return nil, err
	}
	return &Outcome{Task: taskURI, Result: OutcomeSuccess}, nil
}

func (r *recordingExecutor) Executed() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.executed...)
}

func task(n int) string {
	return fmt.Sprintf("http://redpencil.data.gift/id/task/%d", n)
}

func TestDispatcherDrainsOnShutdown(t *testing.T) {
	exec := newRecordingExecutor()
	d := NewDispatcher(exec, nil, 8, testLogger(), nil)

	for i := 1; i <= 3; i++ {
		accepted, err := d.Submit(task(i))
		require.NoError(t, err)
		assert.True(t, accepted)
	}
	d.Start(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, d.Shutdown(ctx))
	assert.Equal(t, []string{task(1), task(2), task(3)}, exec.Executed())

	_, err := d.Submit(task(4))
	assert.ErrorIs(t, err, ErrClosed)
}

func TestDispatcherDeduplicates(t *testing.T) {
	exec := newRecordingExecutor()
	exec.gate = make(chan struct{})
	d := NewDispatcher(exec, nil, 8, testLogger(), nil)
	d.Start(context.Background())

	accepted, err := d.Submit(task(1))
	require.NoError(t, err)
	require.True(t, accepted)
	assert.Equal(t, task(1), <-exec.started)

	// running
	accepted, err = d.Submit(task(1))
	require.NoError(t, err)
	assert.False(t, accepted)

	accepted, err = d.Submit(task(2))
	require.NoError(t, err)
	assert.True(t, accepted)

	// queued
	accepted, err = d.Submit(task(2))
	require.NoError(t, err)
	assert.False(t, accepted)

	close(exec.gate)
	require.NoError(t, d.Shutdown(context.Background()))
	assert.Equal(t, []string{task(1), task(2)}, exec.Executed())
}

func TestDispatcherQueueFull(t *testing.T) {
	exec := newRecordingExecutor()
	d := NewDispatcher(exec, nil, 1, testLogger(), nil)

	accepted, err := d.Submit(task(1))
	require.NoError(t, err)
	require.True(t, accepted)

	accepted, err = d.Submit(task(2))
	assert.False(t, accepted)
	assert.ErrorIs(t, err, ErrQueueFull)

	d.Start(context.Background())
	require.NoError(t, d.Shutdown(context.Background()))
}

func TestDispatcherErrorBoundary(t *testing.T) {
	exec := newRecordingExecutor()
	exec.fail[task(1)] = errors.New("failed to set status: connection refused")
	exec.panics[task(2)] = true
	sink := newMemoryStore()
	d := NewDispatcher(exec, sink, 8, testLogger(), nil)

	for i := 1; i <= 3; i++ {
		_, err := d.Submit(task(i))
		require.NoError(t, err)
	}
	d.Start(context.Background())
	require.NoError(t, d.Shutdown(context.Background()))

	assert.Equal(t, []string{task(1), task(2), task(3)}, exec.Executed(), "worker survives errors and panics")
	require.Len(t, sink.errors, 2)
	assert.Contains(t, sink.errors[0], "connection refused")
	assert.Contains(t, sink.errors[1], "panic")
}

func TestDispatcherShutdownTimeout(t *testing.T) {
	exec := newRecordingExecutor()
	exec.gate = make(chan struct{})
	d := NewDispatcher(exec, nil, 8, testLogger(), nil)
	d.Start(context.Background())

	_, err := d.Submit(task(1))
	require.NoError(t, err)
	<-exec.started

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err = d.Shutdown(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, exec.Executed(), "running task was cancelled")
}

func TestDispatcherShutdownBeforeStart(t *testing.T) {
	d := NewDispatcher(newRecordingExecutor(), nil, 1, testLogger(), nil)
	assert.NoError(t, d.Shutdown(context.Background()))
}
