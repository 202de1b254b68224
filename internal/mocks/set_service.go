package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/flipdeck/internal/deckfile"
	"github.com/phrazzld/flipdeck/internal/domain"
	"github.com/phrazzld/flipdeck/internal/domain/session"
	"github.com/phrazzld/flipdeck/internal/service"
	"github.com/phrazzld/flipdeck/internal/store"
	"github.com/stretchr/testify/mock"
)

// SetService is a testify mock of service.SetService.
type SetService struct {
	mock.Mock
}

var _ service.SetService = (*SetService)(nil)

func (m *SetService) CreateSet(
	ctx context.Context,
	userID uuid.UUID,
	input service.SetInput,
	cards []domain.CardContent,
) (*service.SetDetail, error) {
	return m.detail(m.Called(ctx, userID, input, cards))
}

func (m *SetService) GetSet(ctx context.Context, userID, setID uuid.UUID) (*service.SetDetail, error) {
	return m.detail(m.Called(ctx, userID, setID))
}

func (m *SetService) UpdateSet(ctx context.Context, userID, setID uuid.UUID, input service.SetInput) (*domain.Set, error) {
	args := m.Called(ctx, userID, setID, input)
	set, _ := args.Get(0).(*domain.Set)
	return set, args.Error(1)
}

func (m *SetService) DeleteSet(ctx context.Context, userID, setID uuid.UUID) error {
	return m.Called(ctx, userID, setID).Error(0)
}

func (m *SetService) ListSets(
	ctx context.Context,
	userID uuid.UUID,
	scope domain.SetScope,
	opts store.ListOptions,
) ([]store.SetSummary, error) {
	args := m.Called(ctx, userID, scope, opts)
	sets, _ := args.Get(0).([]store.SetSummary)
	return sets, args.Error(1)
}

func (m *SetService) AddCards(ctx context.Context, userID, setID uuid.UUID, cards []domain.CardContent) ([]*domain.Card, error) {
	args := m.Called(ctx, userID, setID, cards)
	out, _ := args.Get(0).([]*domain.Card)
	return out, args.Error(1)
}

func (m *SetService) UpdateCard(
	ctx context.Context,
	userID, setID, cardID uuid.UUID,
	content domain.CardContent,
) (*domain.Card, error) {
	args := m.Called(ctx, userID, setID, cardID, content)
	card, _ := args.Get(0).(*domain.Card)
	return card, args.Error(1)
}

func (m *SetService) DeleteCard(ctx context.Context, userID, setID, cardID uuid.UUID) error {
	return m.Called(ctx, userID, setID, cardID).Error(0)
}

func (m *SetService) GetStudyCards(ctx context.Context, userID, setID uuid.UUID) (*domain.Set, []session.Card, error) {
	args := m.Called(ctx, userID, setID)
	set, _ := args.Get(0).(*domain.Set)
	cards, _ := args.Get(1).([]session.Card)
	return set, cards, args.Error(2)
}

func (m *SetService) Favorite(ctx context.Context, userID, setID uuid.UUID) error {
	return m.Called(ctx, userID, setID).Error(0)
}

func (m *SetService) Unfavorite(ctx context.Context, userID, setID uuid.UUID) error {
	return m.Called(ctx, userID, setID).Error(0)
}

func (m *SetService) ImportSet(ctx context.Context, userID uuid.UUID, deck *deckfile.Deck) (*service.SetDetail, error) {
	return m.detail(m.Called(ctx, userID, deck))
}

func (m *SetService) ExportSet(ctx context.Context, userID, setID uuid.UUID) (*deckfile.Deck, error) {
	args := m.Called(ctx, userID, setID)
	deck, _ := args.Get(0).(*deckfile.Deck)
	return deck, args.Error(1)
}

func (m *SetService) detail(args mock.Arguments) (*service.SetDetail, error) {
	detail, _ := args.Get(0).(*service.SetDetail)
	return detail, args.Error(1)
}
