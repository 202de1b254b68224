package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/flipdeck/internal/domain"
	"github.com/phrazzld/flipdeck/internal/platform/logger"
	"github.com/phrazzld/flipdeck/internal/store"
)

// PostgresProgressStore implements store.ProgressStore.
type PostgresProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProgressStore creates a progress store on db. It panics on a nil db.
func NewPostgresProgressStore(db store.DBTX, logger *slog.Logger) *PostgresProgressStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "progress_store")),
	}
}

var _ store.ProgressStore = (*PostgresProgressStore)(nil)

// WithTx implements store.ProgressStore.
func (s *PostgresProgressStore) WithTx(tx *sql.Tx) store.ProgressStore {
	return &PostgresProgressStore{db: tx, logger: s.logger}
}

// Create implements store.ProgressStore.
func (s *PostgresProgressStore) Create(ctx context.Context, r *domain.ProgressRecord) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := r.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO progress_records
			(id, user_id, set_id, cards_studied, cards_correct, completion_percentage, completed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, r.ID, r.UserID, r.SetID, r.CardsStudied, r.CardsCorrect, r.CompletionPercentage, r.CompletedAt, r.CreatedAt)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: set or user not found", store.ErrInvalidEntity)
		}
		log.Error("failed to create progress record", slog.String("error", err.Error()))
		return store.NewStoreError("progress", "create", "failed to insert progress record", MapError(err))
	}

	log.Info("progress recorded",
		slog.String("record_id", r.ID.String()),
		slog.String("set_id", r.SetID.String()),
		slog.Float64("completion_percentage", r.CompletionPercentage))
	return nil
}

// ListByUser implements store.ProgressStore.
func (s *PostgresProgressStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	setID *uuid.UUID,
	limit int,
) ([]*domain.ProgressRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	limit, _ = normalizePage(limit, 0)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, set_id, cards_studied, cards_correct, completion_percentage, completed_at, created_at
		FROM progress_records
		WHERE user_id = $1 AND ($2::uuid IS NULL OR set_id = $2)
		ORDER BY completed_at DESC
		LIMIT $3
	`, userID, setID, limit)
	if err != nil {
		log.Error("failed to list progress", slog.String("error", err.Error()))
		return nil, store.NewStoreError("progress", "list", "failed to query progress records", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	records := make([]*domain.ProgressRecord, 0)
	for rows.Next() {
		var r domain.ProgressRecord
		if err := rows.Scan(
			&r.ID, &r.UserID, &r.SetID, &r.CardsStudied, &r.CardsCorrect,
			&r.CompletionPercentage, &r.CompletedAt, &r.CreatedAt,
		); err != nil {
			return nil, store.NewStoreError("progress", "list", "failed to scan progress record", err)
		}
		records = append(records, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("progress", "list", "failed to iterate progress records", err)
	}
	return records, nil
}
