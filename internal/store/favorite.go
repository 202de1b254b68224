package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// FavoriteStore defines the interface for favorite persistence.
type FavoriteStore interface {
	// Add stars a set. Adding an existing favorite is not an error.
	Add(ctx context.Context, userID, setID uuid.UUID) error

	// Remove returns ErrFavoriteNotFound if the set was not starred.
	Remove(ctx context.Context, userID, setID uuid.UUID) error

	Exists(ctx context.Context, userID, setID uuid.UUID) (bool, error)

	WithTx(tx *sql.Tx) FavoriteStore
}
