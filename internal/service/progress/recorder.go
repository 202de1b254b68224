// Package progress hands completed study passes to background persistence
// and lists what was persisted.
package progress

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/flipdeck/internal/domain"
	"github.com/phrazzld/flipdeck/internal/domain/session"
	"github.com/phrazzld/flipdeck/internal/events"
	"github.com/phrazzld/flipdeck/internal/store"
	"github.com/phrazzld/flipdeck/internal/task"
)

// DefaultListLimit caps progress listings when no limit is given.
const DefaultListLimit = 50

// Recorder turns session summaries into record-progress events.
type Recorder struct {
	emitter events.EventEmitter
	logger  *slog.Logger
}

// NewRecorder creates a Recorder publishing to emitter.
func NewRecorder(emitter events.EventEmitter, logger *slog.Logger) *Recorder {
	if emitter == nil {
		panic("emitter cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		emitter: emitter,
		logger:  logger.With("component", "progress_recorder"),
	}
}

// SinkFor returns the ProgressSink of one study session. Record never
// blocks on the database and never reports failure to the session; a summary
// that cannot be handed off is logged as a persistence error.
func (r *Recorder) SinkFor(userID, setID uuid.UUID) session.ProgressSink {
	return session.ProgressSinkFunc(func(summary session.Summary) {
		r.record(userID, setID, summary)
	})
}

func (r *Recorder) record(userID, setID uuid.UUID, summary session.Summary) {
	event, err := events.NewEvent(task.TaskTypeRecordProgress, task.RecordProgressPayload{
		UserID:  userID,
		SetID:   setID,
		Summary: summary,
	})
	if err == nil {
		err = r.emitter.EmitEvent(context.Background(), event)
	}
	if err != nil {
		r.logger.Error("failed to hand off progress",
			"error", fmt.Errorf("%w: %v", session.ErrPersistence, err),
			"user_id", userID,
			"set_id", setID,
			"cards_studied", summary.CardsStudied)
		return
	}

	r.logger.Debug("progress handed off",
		"user_id", userID,
		"set_id", setID,
		"completion_percentage", summary.CompletionPercentage)
}

// Service lists stored progress records.
type Service struct {
	records store.ProgressStore
}

// NewService creates a Service reading from records.
func NewService(records store.ProgressStore) *Service {
	if records == nil {
		panic("records cannot be nil")
	}
	return &Service{records: records}
}

// List returns the user's most recent records, optionally for one set.
func (s *Service) List(ctx context.Context, userID uuid.UUID, setID *uuid.UUID, limit int) ([]*domain.ProgressRecord, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	records, err := s.records.ListByUser(ctx, userID, setID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}
	return records, nil
}
