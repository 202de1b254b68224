package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/flipdeck/internal/store"
	"github.com/stretchr/testify/mock"
)

// FavoriteStore is a testify mock of store.FavoriteStore.
type FavoriteStore struct {
	mock.Mock
}

var _ store.FavoriteStore = (*FavoriteStore)(nil)

func (m *FavoriteStore) Add(ctx context.Context, userID, setID uuid.UUID) error {
	return m.Called(ctx, userID, setID).Error(0)
}

func (m *FavoriteStore) Remove(ctx context.Context, userID, setID uuid.UUID) error {
	return m.Called(ctx, userID, setID).Error(0)
}

func (m *FavoriteStore) Exists(ctx context.Context, userID, setID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, setID)
	return args.Bool(0), args.Error(1)
}

func (m *FavoriteStore) WithTx(*sql.Tx) store.FavoriteStore {
	return m
}
