package task

import (
	"context"

	"github.com/google/uuid"
)

// Task type constants
const (
	// TaskTypeRecordProgress persists the summary of a completed study pass.
	TaskTypeRecordProgress = "record_progress"
)

// Task is a unit of background work.
type Task interface {
	ID() uuid.UUID
	Type() string
	Execute(ctx context.Context) error
}

// TaskQueueReader gives workers read access to queued tasks.
type TaskQueueReader interface {
	GetChannel() <-chan Task
}

// TaskQueueWriter lets producers enqueue tasks.
type TaskQueueWriter interface {
	// Enqueue adds a task without blocking. It fails when the queue is full
	// or closed.
	Enqueue(task Task) error
	Close()
}

// Submitter accepts tasks for background execution.
type Submitter interface {
	Submit(ctx context.Context, task Task) error
}
