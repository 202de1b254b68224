package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/flipdeck/internal/domain"
	"github.com/phrazzld/flipdeck/internal/platform/logger"
	"github.com/phrazzld/flipdeck/internal/store"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// PostgresSetStore implements store.SetStore.
type PostgresSetStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSetStore creates a set store on db. It panics on a nil db.
func NewPostgresSetStore(db store.DBTX, logger *slog.Logger) *PostgresSetStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresSetStore{
		db:     db,
		logger: logger.With(slog.String("component", "set_store")),
	}
}

var _ store.SetStore = (*PostgresSetStore)(nil)

// WithTx implements store.SetStore.
func (s *PostgresSetStore) WithTx(tx *sql.Tx) store.SetStore {
	return &PostgresSetStore{db: tx, logger: s.logger}
}

// Create implements store.SetStore.
func (s *PostgresSetStore) Create(ctx context.Context, set *domain.Set) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := set.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO flashcard_sets (id, user_id, title, description, is_public, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, set.ID, set.UserID, set.Title, set.Description, set.IsPublic, set.CreatedAt, set.UpdatedAt)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: user with ID %s not found", store.ErrInvalidEntity, set.UserID)
		}
		log.Error("failed to create set", slog.String("error", err.Error()), slog.String("set_id", set.ID.String()))
		return store.NewStoreError("set", "create", "failed to insert set", MapError(err))
	}

	log.Info("set created",
		slog.String("set_id", set.ID.String()),
		slog.String("user_id", set.UserID.String()),
		slog.Bool("is_public", set.IsPublic))
	return nil
}

// GetByID implements store.SetStore.
func (s *PostgresSetStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Set, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var set domain.Set
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, description, is_public, created_at, updated_at
		FROM flashcard_sets WHERE id = $1
	`, id).Scan(&set.ID, &set.UserID, &set.Title, &set.Description, &set.IsPublic, &set.CreatedAt, &set.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("set not found", slog.String("set_id", id.String()))
			return nil, store.ErrSetNotFound
		}
		log.Error("failed to get set", slog.String("error", err.Error()), slog.String("set_id", id.String()))
		return nil, store.NewStoreError("set", "get", "failed to query set", MapError(err))
	}
	return &set, nil
}

// Update implements store.SetStore.
func (s *PostgresSetStore) Update(ctx context.Context, set *domain.Set) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := set.Validate(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE flashcard_sets
		SET title = $2, description = $3, is_public = $4, updated_at = $5
		WHERE id = $1
	`, set.ID, set.Title, set.Description, set.IsPublic, set.UpdatedAt)
	if err != nil {
		log.Error("failed to update set", slog.String("error", err.Error()), slog.String("set_id", set.ID.String()))
		return store.NewStoreError("set", "update", "failed to update set", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrSetNotFound)
}

// Delete implements store.SetStore.
func (s *PostgresSetStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM flashcard_sets WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete set", slog.String("error", err.Error()), slog.String("set_id", id.String()))
		return store.NewStoreError("set", "delete", "failed to delete set", MapError(err))
	}
	if err := CheckRowsAffected(result, store.ErrSetNotFound); err != nil {
		return err
	}

	log.Info("set deleted", slog.String("set_id", id.String()))
	return nil
}

// summaryColumns selects a set plus its card count and whether $1 starred it.
const summaryColumns = `
	s.id, s.user_id, s.title, s.description, s.is_public, s.created_at, s.updated_at,
	(SELECT COUNT(*) FROM cards c WHERE c.set_id = s.id) AS card_count,
	EXISTS (SELECT 1 FROM favorites f WHERE f.set_id = s.id AND f.user_id = $1) AS is_favorite
`

// ListByOwner implements store.SetStore.
func (s *PostgresSetStore) ListByOwner(ctx context.Context, userID uuid.UUID, opts store.ListOptions) ([]store.SetSummary, error) {
	return s.list(ctx, "by_owner", `
		SELECT `+summaryColumns+`
		FROM flashcard_sets s
		WHERE s.user_id = $1
	`, userID, opts)
}

// ListPublic implements store.SetStore.
func (s *PostgresSetStore) ListPublic(ctx context.Context, viewerID uuid.UUID, opts store.ListOptions) ([]store.SetSummary, error) {
	return s.list(ctx, "public", `
		SELECT `+summaryColumns+`
		FROM flashcard_sets s
		WHERE s.is_public
	`, viewerID, opts)
}

// ListFavorites implements store.SetStore.
func (s *PostgresSetStore) ListFavorites(ctx context.Context, userID uuid.UUID, opts store.ListOptions) ([]store.SetSummary, error) {
	return s.list(ctx, "favorites", `
		SELECT `+summaryColumns+`
		FROM flashcard_sets s
		JOIN favorites fav ON fav.set_id = s.id AND fav.user_id = $1
		WHERE s.is_public OR s.user_id = $1
	`, userID, opts)
}

func (s *PostgresSetStore) list(
	ctx context.Context,
	listing string,
	base string,
	userID uuid.UUID,
	opts store.ListOptions,
) ([]store.SetSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	limit, offset := normalizePage(opts.Limit, opts.Offset)
	query := base + orderClause(opts.Sort) + ` LIMIT $2 OFFSET $3`

	rows, err := s.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		log.Error("failed to list sets", slog.String("listing", listing), slog.String("error", err.Error()))
		return nil, store.NewStoreError("set", "list", "failed to query sets", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	sets := make([]store.SetSummary, 0)
	for rows.Next() {
		var sum store.SetSummary
		if err := rows.Scan(
			&sum.ID, &sum.UserID, &sum.Title, &sum.Description, &sum.IsPublic,
			&sum.CreatedAt, &sum.UpdatedAt, &sum.CardCount, &sum.IsFavorite,
		); err != nil {
			return nil, store.NewStoreError("set", "list", "failed to scan set", err)
		}
		sets = append(sets, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("set", "list", "failed to iterate sets", err)
	}

	log.Debug("listed sets", slog.String("listing", listing), slog.Int("count", len(sets)))
	return sets, nil
}

// orderClause maps a sort to SQL. Alphabetical sorting is case-insensitive.
func orderClause(sort domain.SetSort) string {
	switch sort {
	case domain.SortOldest:
		return ` ORDER BY s.created_at ASC, s.id ASC`
	case domain.SortAlphabetical:
		return ` ORDER BY lower(s.title) ASC, s.created_at DESC`
	default:
		return ` ORDER BY s.created_at DESC, s.id ASC`
	}
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
