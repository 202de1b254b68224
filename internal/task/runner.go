package task

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// RunnerConfig holds configuration for the task runner.
type RunnerConfig struct {
	WorkerCount int
	QueueSize   int
	TaskTimeout time.Duration
}

// DefaultRunnerConfig returns a RunnerConfig with reasonable defaults.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		WorkerCount: 2,
		QueueSize:   100,
		TaskTimeout: 30 * time.Second,
	}
}

// Runner owns a TaskQueue and the WorkerPool serving it.
type Runner struct {
	queue  *TaskQueue
	pool   *WorkerPool
	logger *slog.Logger
}

var _ Submitter = (*Runner)(nil)

// NewRunner creates a runner. Call Start before submitting work.
func NewRunner(config RunnerConfig, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "task_runner")

	queue := NewTaskQueue(config.QueueSize, logger)
	pool := NewWorkerPool(queue, WorkerPoolConfig{
		WorkerCount: config.WorkerCount,
		TaskTimeout: config.TaskTimeout,
	}, logger)

	return &Runner{queue: queue, pool: pool, logger: logger}
}

// SetErrorHandler forwards to the worker pool. Call it before Start.
func (r *Runner) SetErrorHandler(handler func(task Task, err error)) {
	r.pool.SetErrorHandler(handler)
}

// Start launches the workers.
func (r *Runner) Start() {
	r.pool.Start()
}

// Submit queues a task without blocking.
func (r *Runner) Submit(_ context.Context, task Task) error {
	if err := r.queue.Enqueue(task); err != nil {
		return fmt.Errorf("failed to submit task %s: %w", task.ID(), err)
	}
	return nil
}

// Stop refuses new tasks and waits for queued ones to finish, giving up
// when ctx ends.
func (r *Runner) Stop(ctx context.Context) error {
	r.queue.Close()
	if err := r.pool.Shutdown(ctx); err != nil {
		r.logger.Warn("task runner stopped before the queue drained", "error", err)
		return err
	}
	r.logger.Info("task runner stopped")
	return nil
}
