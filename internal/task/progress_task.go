package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/flipdeck/internal/domain"
	"github.com/phrazzld/flipdeck/internal/domain/session"
	"github.com/phrazzld/flipdeck/internal/events"
	"github.com/phrazzld/flipdeck/internal/store"
)

// RecordProgressPayload is the event payload of a completed study pass.
type RecordProgressPayload struct {
	UserID  uuid.UUID       `json:"user_id"`
	SetID   uuid.UUID       `json:"set_id"`
	Summary session.Summary `json:"summary"`
}

// RecordProgressTask stores one progress record.
type RecordProgressTask struct {
	id      uuid.UUID
	payload RecordProgressPayload
	store   store.ProgressStore
	logger  *slog.Logger
}

var _ Task = (*RecordProgressTask)(nil)

// ID implements Task.
func (t *RecordProgressTask) ID() uuid.UUID { return t.id }

// Type implements Task.
func (t *RecordProgressTask) Type() string { return TaskTypeRecordProgress }

// Execute implements Task. Failures wrap session.ErrPersistence and are not
// retried.
func (t *RecordProgressTask) Execute(ctx context.Context) error {
	s := t.payload.Summary
	record, err := domain.NewProgressRecord(
		t.payload.UserID,
		t.payload.SetID,
		s.CardsStudied,
		s.CardsCorrect,
		s.CompletionPercentage,
		s.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: %v", session.ErrPersistence, err)
	}

	if err := t.store.Create(ctx, record); err != nil {
		return fmt.Errorf("%w: %v", session.ErrPersistence, err)
	}

	t.logger.Info("progress recorded",
		"record_id", record.ID,
		"user_id", record.UserID,
		"set_id", record.SetID)
	return nil
}

// RecordProgressTaskFactory builds RecordProgressTasks from events.
type RecordProgressTaskFactory struct {
	store  store.ProgressStore
	logger *slog.Logger
}

var _ TaskFactory = (*RecordProgressTaskFactory)(nil)

// NewRecordProgressTaskFactory creates a factory writing to progressStore.
func NewRecordProgressTaskFactory(progressStore store.ProgressStore, logger *slog.Logger) *RecordProgressTaskFactory {
	if progressStore == nil {
		panic("progressStore cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RecordProgressTaskFactory{
		store:  progressStore,
		logger: logger.With("component", "record_progress_task"),
	}
}

// CreateTask implements TaskFactory.
func (f *RecordProgressTaskFactory) CreateTask(event *events.Event) (Task, error) {
	if event.Type != TaskTypeRecordProgress {
		return nil, fmt.Errorf("unexpected event type %q", event.Type)
	}

	var payload RecordProgressPayload
	if err := event.UnmarshalPayload(&payload); err != nil {
		return nil, fmt.Errorf("invalid progress payload: %w", err)
	}
	if payload.UserID == uuid.Nil || payload.SetID == uuid.Nil {
		return nil, fmt.Errorf("invalid progress payload: missing user or set")
	}

	return &RecordProgressTask{
		id:      uuid.New(),
		payload: payload,
		store:   f.store,
		logger:  f.logger,
	}, nil
}
