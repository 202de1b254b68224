package domain

import (
	"time"

	"github.com/google/uuid"
)

// Favorite records that a user starred a set.
type Favorite struct {
	UserID    uuid.UUID `json:"user_id"`
	SetID     uuid.UUID `json:"set_id"`
	CreatedAt time.Time `json:"created_at"`
}
