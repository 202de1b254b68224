package task

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type funcTask struct {
	id  uuid.UUID
	run func(ctx context.Context) error
}

func newFuncTask(run func(ctx context.Context) error) *funcTask {
	return &funcTask{id: uuid.New(), run: run}
}

func (t *funcTask) ID() uuid.UUID                     { return t.id }
func (t *funcTask) Type() string                      { return "test" }
func (t *funcTask) Execute(ctx context.Context) error { return t.run(ctx) }

func TestTaskQueue(t *testing.T) {
	t.Parallel()

	q := NewTaskQueue(1, testLogger())
	noop := func(context.Context) error { return nil }

	require.NoError(t, q.Enqueue(newFuncTask(noop)))
	assert.ErrorIs(t, q.Enqueue(newFuncTask(noop)), ErrQueueFull)

	q.Close()
	q.Close()
	assert.ErrorIs(t, q.Enqueue(newFuncTask(noop)), ErrQueueClosed)

	// The task queued before Close is still readable.
	_, ok := <-q.GetChannel()
	assert.True(t, ok)
	_, ok = <-q.GetChannel()
	assert.False(t, ok)
}

func TestNewWorkerPoolClampsWorkerCount(t *testing.T) {
	t.Parallel()

	q := NewTaskQueue(1, testLogger())
	assert.Equal(t, 1, NewWorkerPool(q, WorkerPoolConfig{WorkerCount: 0}, testLogger()).workerCount)
	assert.Equal(t, 1, NewWorkerPool(q, WorkerPoolConfig{WorkerCount: -3}, testLogger()).workerCount)
	assert.Equal(t, 4, NewWorkerPool(q, WorkerPoolConfig{WorkerCount: 4}, testLogger()).workerCount)
}

func TestRunnerDrainsQueueOnStop(t *testing.T) {
	t.Parallel()

	runner := NewRunner(RunnerConfig{WorkerCount: 2, QueueSize: 10}, testLogger())
	runner.Start()

	var done atomic.Int32
	for i := 0; i < 5; i++ {
		require.NoError(t, runner.Submit(context.Background(), newFuncTask(func(context.Context) error {
			done.Add(1)
			return nil
		})))
	}

	require.NoError(t, runner.Stop(context.Background()))
	assert.Equal(t, int32(5), done.Load())
	assert.ErrorIs(t, runner.Submit(context.Background(), newFuncTask(nil)), ErrQueueClosed)
}

func TestRunnerReportsFailures(t *testing.T) {
	t.Parallel()

	runner := NewRunner(RunnerConfig{WorkerCount: 1, QueueSize: 4}, testLogger())

	var (
		mu     sync.Mutex
		failed []error
	)
	runner.SetErrorHandler(func(_ Task, err error) {
		mu.Lock()
		failed = append(failed, err)
		mu.Unlock()
	})
	runner.Start()

	boom := errors.New("boom")
	require.NoError(t, runner.Submit(context.Background(), newFuncTask(func(context.Context) error { return boom })))
	require.NoError(t, runner.Submit(context.Background(), newFuncTask(func(context.Context) error { panic("bad task") })))
	require.NoError(t, runner.Submit(context.Background(), newFuncTask(func(context.Context) error { return nil })))
	require.NoError(t, runner.Stop(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, failed, 1)
	assert.ErrorIs(t, failed[0], boom)
}

func TestRunnerStopGivesUp(t *testing.T) {
	t.Parallel()

	runner := NewRunner(RunnerConfig{WorkerCount: 1, QueueSize: 1}, testLogger())
	runner.Start()

	started := make(chan struct{})
	require.NoError(t, runner.Submit(context.Background(), newFuncTask(func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})))
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, runner.Stop(ctx), context.DeadlineExceeded)
}

func TestTaskTimeout(t *testing.T) {
	t.Parallel()

	runner := NewRunner(RunnerConfig{WorkerCount: 1, QueueSize: 1, TaskTimeout: 10 * time.Millisecond}, testLogger())
	errs := make(chan error, 1)
	runner.SetErrorHandler(func(_ Task, err error) { errs <- err })
	runner.Start()

	require.NoError(t, runner.Submit(context.Background(), newFuncTask(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})))

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(time.Second):
		t.Fatal("task was not cancelled")
	}
	require.NoError(t, runner.Stop(context.Background()))
}
