package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/flipdeck/internal/domain"
)

// SetSummary is a set together with listing metadata.
type SetSummary struct {
	domain.Set
	CardCount  int  `json:"card_count"`
	IsFavorite bool `json:"is_favorite"`
}

// ListOptions controls set listings.
type ListOptions struct {
	Sort   domain.SetSort
	Limit  int
	Offset int
}

// SetStore defines the interface for set persistence.
type SetStore interface {
	Create(ctx context.Context, set *domain.Set) error

	// GetByID returns ErrSetNotFound if the set does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Set, error)

	// Update saves title, description and visibility.
	// Returns ErrSetNotFound if the set does not exist.
	Update(ctx context.Context, set *domain.Set) error

	// Delete removes the set and, by cascade, its cards and favorites.
	// Returns ErrSetNotFound if the set does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByOwner returns the sets owned by userID.
	ListByOwner(ctx context.Context, userID uuid.UUID, opts ListOptions) ([]SetSummary, error)

	// ListPublic returns public sets. IsFavorite is computed for viewerID.
	ListPublic(ctx context.Context, viewerID uuid.UUID, opts ListOptions) ([]SetSummary, error)

	// ListFavorites returns the sets userID starred that userID can still view.
	ListFavorites(ctx context.Context, userID uuid.UUID, opts ListOptions) ([]SetSummary, error)

	WithTx(tx *sql.Tx) SetStore
}
