package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/flipdeck/internal/domain"
)

// ProgressStore defines the interface for progress record persistence.
type ProgressStore interface {
	Create(ctx context.Context, record *domain.ProgressRecord) error

	// ListByUser returns a user's records, newest first. A nil setID lists
	// records for every set.
	ListByUser(ctx context.Context, userID uuid.UUID, setID *uuid.UUID, limit int) ([]*domain.ProgressRecord, error)

	WithTx(tx *sql.Tx) ProgressStore
}
