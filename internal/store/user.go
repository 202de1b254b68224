package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/flipdeck/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user. The user's HashedPassword must be set.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail returns ErrUserNotFound if no user has the address.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// UpdateEmail changes a user's email address.
	// Returns ErrUserNotFound or ErrEmailExists.
	UpdateEmail(ctx context.Context, id uuid.UUID, email string) error

	WithTx(tx *sql.Tx) UserStore
}
