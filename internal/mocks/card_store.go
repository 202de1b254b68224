package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/flipdeck/internal/domain"
	"github.com/phrazzld/flipdeck/internal/store"
	"github.com/stretchr/testify/mock"
)

// CardStore is a testify mock of store.CardStore.
type CardStore struct {
	mock.Mock
}

var _ store.CardStore = (*CardStore)(nil)

func (m *CardStore) CreateMultiple(ctx context.Context, cards []*domain.Card) error {
	return m.Called(ctx, cards).Error(0)
}

func (m *CardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	args := m.Called(ctx, id)
	card, _ := args.Get(0).(*domain.Card)
	return card, args.Error(1)
}

func (m *CardStore) ListBySet(ctx context.Context, setID uuid.UUID) ([]*domain.Card, error) {
	args := m.Called(ctx, setID)
	cards, _ := args.Get(0).([]*domain.Card)
	return cards, args.Error(1)
}

func (m *CardStore) Update(ctx context.Context, card *domain.Card) error {
	return m.Called(ctx, card).Error(0)
}

func (m *CardStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *CardStore) NextPosition(ctx context.Context, setID uuid.UUID) (int, error) {
	args := m.Called(ctx, setID)
	return args.Int(0), args.Error(1)
}

func (m *CardStore) WithTx(*sql.Tx) store.CardStore {
	return m
}
