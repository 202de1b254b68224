package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/flipdeck/internal/platform/logger"
	"github.com/phrazzld/flipdeck/internal/store"
)

// PostgresFavoriteStore implements store.FavoriteStore.
type PostgresFavoriteStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresFavoriteStore creates a favorite store on db. It panics on a nil db.
func NewPostgresFavoriteStore(db store.DBTX, logger *slog.Logger) *PostgresFavoriteStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresFavoriteStore{
		db:     db,
		logger: logger.With(slog.String("component", "favorite_store")),
	}
}

var _ store.FavoriteStore = (*PostgresFavoriteStore)(nil)

// WithTx implements store.FavoriteStore.
func (s *PostgresFavoriteStore) WithTx(tx *sql.Tx) store.FavoriteStore {
	return &PostgresFavoriteStore{db: tx, logger: s.logger}
}

// Add implements store.FavoriteStore.
func (s *PostgresFavoriteStore) Add(ctx context.Context, userID, setID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO favorites (user_id, set_id) VALUES ($1, $2)
		ON CONFLICT (user_id, set_id) DO NOTHING
	`, userID, setID)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: set or user not found", store.ErrInvalidEntity)
		}
		log.Error("failed to add favorite", slog.String("error", err.Error()), slog.String("set_id", setID.String()))
		return store.NewStoreError("favorite", "create", "failed to insert favorite", MapError(err))
	}
	return nil
}

// Remove implements store.FavoriteStore.
func (s *PostgresFavoriteStore) Remove(ctx context.Context, userID, setID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `
		DELETE FROM favorites WHERE user_id = $1 AND set_id = $2
	`, userID, setID)
	if err != nil {
		log.Error("failed to remove favorite", slog.String("error", err.Error()), slog.String("set_id", setID.String()))
		return store.NewStoreError("favorite", "delete", "failed to delete favorite", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrFavoriteNotFound)
}

// Exists implements store.FavoriteStore.
func (s *PostgresFavoriteStore) Exists(ctx context.Context, userID, setID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1 AND set_id = $2)
	`, userID, setID).Scan(&exists)
	if err != nil {
		return false, store.NewStoreError("favorite", "get", "failed to query favorite", MapError(err))
	}
	return exists, nil
}
