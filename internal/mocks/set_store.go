package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/flipdeck/internal/domain"
	"github.com/phrazzld/flipdeck/internal/store"
	"github.com/stretchr/testify/mock"
)

// SetStore is a testify mock of store.SetStore.
type SetStore struct {
	mock.Mock
}

var _ store.SetStore = (*SetStore)(nil)

func (m *SetStore) Create(ctx context.Context, set *domain.Set) error {
	return m.Called(ctx, set).Error(0)
}

func (m *SetStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Set, error) {
	args := m.Called(ctx, id)
	set, _ := args.Get(0).(*domain.Set)
	return set, args.Error(1)
}

func (m *SetStore) Update(ctx context.Context, set *domain.Set) error {
	return m.Called(ctx, set).Error(0)
}

func (m *SetStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *SetStore) ListByOwner(ctx context.Context, userID uuid.UUID, opts store.ListOptions) ([]store.SetSummary, error) {
	return m.list(m.Called(ctx, userID, opts))
}

func (m *SetStore) ListPublic(ctx context.Context, viewerID uuid.UUID, opts store.ListOptions) ([]store.SetSummary, error) {
	return m.list(m.Called(ctx, viewerID, opts))
}

func (m *SetStore) ListFavorites(ctx context.Context, userID uuid.UUID, opts store.ListOptions) ([]store.SetSummary, error) {
	return m.list(m.Called(ctx, userID, opts))
}

func (m *SetStore) list(args mock.Arguments) ([]store.SetSummary, error) {
	sets, _ := args.Get(0).([]store.SetSummary)
	return sets, args.Error(1)
}

func (m *SetStore) WithTx(*sql.Tx) store.SetStore {
	return m
}
