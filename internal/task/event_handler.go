package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/flipdeck/internal/events"
)

// TaskFactory builds a task from an event.
type TaskFactory interface {
	CreateTask(event *events.Event) (Task, error)
}

// TaskFactoryEventHandler turns events into tasks and submits them.
type TaskFactoryEventHandler struct {
	factory   TaskFactory
	submitter Submitter
	logger    *slog.Logger
}

var _ events.EventHandler = (*TaskFactoryEventHandler)(nil)

// NewTaskFactoryEventHandler creates a handler that submits the tasks
// factory builds to submitter.
func NewTaskFactoryEventHandler(factory TaskFactory, submitter Submitter, logger *slog.Logger) *TaskFactoryEventHandler {
	if factory == nil {
		panic("factory cannot be nil")
	}
	if submitter == nil {
		panic("submitter cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskFactoryEventHandler{
		factory:   factory,
		submitter: submitter,
		logger:    logger.With("component", "task_factory_event_handler"),
	}
}

// HandleEvent implements events.EventHandler.
func (h *TaskFactoryEventHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	task, err := h.factory.CreateTask(event)
	if err != nil {
		h.logger.Error("failed to create task",
			"error", err,
			"event_id", event.ID,
			"event_type", event.Type)
		return fmt.Errorf("failed to create task: %w", err)
	}

	if err := h.submitter.Submit(ctx, task); err != nil {
		h.logger.Error("failed to submit task",
			"error", err,
			"task_id", task.ID(),
			"event_id", event.ID)
		return err
	}

	h.logger.Debug("task submitted",
		"task_id", task.ID(),
		"task_type", task.Type(),
		"event_id", event.ID)
	return nil
}
