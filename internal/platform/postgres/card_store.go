package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/flipdeck/internal/domain"
	"github.com/phrazzld/flipdeck/internal/platform/logger"
	"github.com/phrazzld/flipdeck/internal/store"
)

// PostgresCardStore implements store.CardStore.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a card store on db. It panics on a nil db.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

var _ store.CardStore = (*PostgresCardStore)(nil)

// WithTx implements store.CardStore.
func (s *PostgresCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &PostgresCardStore{db: tx, logger: s.logger}
}

// CreateMultiple implements store.CardStore.
func (s *PostgresCardStore) CreateMultiple(ctx context.Context, cards []*domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(cards) == 0 {
		return nil
	}

	const columns = 7
	placeholders := make([]string, 0, len(cards))
	args := make([]any, 0, len(cards)*columns)
	for i, c := range cards {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("card %d: %w", i, err)
		}
		base := i * columns
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7))
		args = append(args, c.ID, c.SetID, c.Term, c.Definition, c.Position, c.CreatedAt, c.UpdatedAt)
	}

	query := `INSERT INTO cards (id, set_id, term, definition, position, created_at, updated_at) VALUES ` +
		strings.Join(placeholders, ", ")
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: set not found", store.ErrInvalidEntity)
		}
		log.Error("failed to create cards", slog.String("error", err.Error()), slog.Int("count", len(cards)))
		return store.NewStoreError("card", "create", "failed to insert cards", MapError(err))
	}

	log.Debug("cards created", slog.Int("count", len(cards)), slog.String("set_id", cards[0].SetID.String()))
	return nil
}

// GetByID implements store.CardStore.
func (s *PostgresCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var c domain.Card
	err := s.db.QueryRowContext(ctx, `
		SELECT id, set_id, term, definition, position, created_at, updated_at
		FROM cards WHERE id = $1
	`, id).Scan(&c.ID, &c.SetID, &c.Term, &c.Definition, &c.Position, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCardNotFound
		}
		log.Error("failed to get card", slog.String("error", err.Error()), slog.String("card_id", id.String()))
		return nil, store.NewStoreError("card", "get", "failed to query card", MapError(err))
	}
	return &c, nil
}

// ListBySet implements store.CardStore.
func (s *PostgresCardStore) ListBySet(ctx context.Context, setID uuid.UUID) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, set_id, term, definition, position, created_at, updated_at
		FROM cards WHERE set_id = $1
		ORDER BY position ASC, created_at ASC
	`, setID)
	if err != nil {
		log.Error("failed to list cards", slog.String("error", err.Error()), slog.String("set_id", setID.String()))
		return nil, store.NewStoreError("card", "list", "failed to query cards", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	cards := make([]*domain.Card, 0)
	for rows.Next() {
		var c domain.Card
		if err := rows.Scan(&c.ID, &c.SetID, &c.Term, &c.Definition, &c.Position, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, store.NewStoreError("card", "list", "failed to scan card", err)
		}
		cards = append(cards, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("card", "list", "failed to iterate cards", err)
	}
	return cards, nil
}

// Update implements store.CardStore.
func (s *PostgresCardStore) Update(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE cards SET term = $2, definition = $3, updated_at = $4 WHERE id = $1
	`, card.ID, card.Term, card.Definition, card.UpdatedAt)
	if err != nil {
		log.Error("failed to update card", slog.String("error", err.Error()), slog.String("card_id", card.ID.String()))
		return store.NewStoreError("card", "update", "failed to update card", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrCardNotFound)
}

// Delete implements store.CardStore.
func (s *PostgresCardStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete card", slog.String("error", err.Error()), slog.String("card_id", id.String()))
		return store.NewStoreError("card", "delete", "failed to delete card", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrCardNotFound)
}

// NextPosition implements store.CardStore.
func (s *PostgresCardStore) NextPosition(ctx context.Context, setID uuid.UUID) (int, error) {
	var next int
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(position) + 1, 0) FROM cards WHERE set_id = $1
	`, setID).Scan(&next)
	if err != nil {
		return 0, store.NewStoreError("card", "get", "failed to query next position", MapError(err))
	}
	return next, nil
}
