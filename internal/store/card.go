package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/flipdeck/internal/domain"
)

// CardStore defines the interface for card persistence.
type CardStore interface {
	// CreateMultiple saves cards in a single statement.
	CreateMultiple(ctx context.Context, cards []*domain.Card) error

	// GetByID returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// ListBySet returns a set's cards ordered by position.
	ListBySet(ctx context.Context, setID uuid.UUID) ([]*domain.Card, error)

	// Update saves a card's term and definition.
	// Returns ErrCardNotFound if the card does not exist.
	Update(ctx context.Context, card *domain.Card) error

	// Delete returns ErrCardNotFound if the card does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// NextPosition returns the position after the set's last card.
	NextPosition(ctx context.Context, setID uuid.UUID) (int, error)

	WithTx(tx *sql.Tx) CardStore
}
