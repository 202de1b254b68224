package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/flipdeck/internal/deckfile"
	"github.com/phrazzld/flipdeck/internal/domain"
	"github.com/phrazzld/flipdeck/internal/domain/session"
	"github.com/phrazzld/flipdeck/internal/platform/logger"
	"github.com/phrazzld/flipdeck/internal/store"
)

// SetInput carries the editable fields of a set.
type SetInput struct {
	Title       string
	Description string
	IsPublic    bool
}

// SetDetail is a set with its cards, as seen by one user.
type SetDetail struct {
	Set        *domain.Set
	Cards      []*domain.Card
	IsFavorite bool
}

// SetService manages sets, their cards and favorites.
type SetService interface {
	// CreateSet stores a set and its initial cards in one transaction.
	CreateSet(ctx context.Context, userID uuid.UUID, input SetInput, cards []domain.CardContent) (*SetDetail, error)

	// GetSet returns a set the user may view, with its cards.
	GetSet(ctx context.Context, userID, setID uuid.UUID) (*SetDetail, error)

	// UpdateSet edits a set owned by the user.
	UpdateSet(ctx context.Context, userID, setID uuid.UUID, input SetInput) (*domain.Set, error)

	// DeleteSet removes a set owned by the user, with its cards.
	DeleteSet(ctx context.Context, userID, setID uuid.UUID) error

	// ListSets lists the sets in scope for the user.
	ListSets(ctx context.Context, userID uuid.UUID, scope domain.SetScope, opts store.ListOptions) ([]store.SetSummary, error)

	// AddCards appends cards to the end of a set owned by the user.
	AddCards(ctx context.Context, userID, setID uuid.UUID, cards []domain.CardContent) ([]*domain.Card, error)

	// UpdateCard edits one card of a set owned by the user.
	UpdateCard(ctx context.Context, userID, setID, cardID uuid.UUID, content domain.CardContent) (*domain.Card, error)

	// DeleteCard removes one card of a set owned by the user.
	DeleteCard(ctx context.Context, userID, setID, cardID uuid.UUID) error

	// GetStudyCards loads a viewable set and its cards in session form.
	// Failures wrap session.ErrDataUnavailable; an empty set returns
	// session.ErrNoCards.
	GetStudyCards(ctx context.Context, userID, setID uuid.UUID) (*domain.Set, []session.Card, error)

	// Favorite stars a viewable set. Starring twice is not an error.
	Favorite(ctx context.Context, userID, setID uuid.UUID) error

	// Unfavorite removes a star.
	Unfavorite(ctx context.Context, userID, setID uuid.UUID) error

	// ImportSet creates a set owned by the user from a deck file.
	ImportSet(ctx context.Context, userID uuid.UUID, deck *deckfile.Deck) (*SetDetail, error)

	// ExportSet returns a viewable set as a deck.
	ExportSet(ctx context.Context, userID, setID uuid.UUID) (*deckfile.Deck, error)
}

// SetServiceImpl implements SetService.
type SetServiceImpl struct {
	sets      store.SetStore
	cards     store.CardStore
	favorites store.FavoriteStore
	db        *sql.DB
	logger    *slog.Logger
}

var _ SetService = (*SetServiceImpl)(nil)

// NewSetService creates a SetService. It panics on nil dependencies.
func NewSetService(
	sets store.SetStore,
	cards store.CardStore,
	favorites store.FavoriteStore,
	db *sql.DB,
	logger *slog.Logger,
) *SetServiceImpl {
	switch {
	case sets == nil:
		panic("sets cannot be nil")
	case cards == nil:
		panic("cards cannot be nil")
	case favorites == nil:
		panic("favorites cannot be nil")
	case db == nil:
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SetServiceImpl{
		sets:      sets,
		cards:     cards,
		favorites: favorites,
		db:        db,
		logger:    logger.With(slog.String("component", "set_service")),
	}
}

// CreateSet implements SetService.
func (s *SetServiceImpl) CreateSet(
	ctx context.Context,
	userID uuid.UUID,
	input SetInput,
	contents []domain.CardContent,
) (*SetDetail, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	set, err := domain.NewSet(userID, input.Title, input.Description, input.IsPublic)
	if err != nil {
		return nil, err
	}
	cards, err := buildCards(set.ID, 0, contents)
	if err != nil {
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.sets.WithTx(tx).Create(ctx, set); err != nil {
			return err
		}
		return s.cards.WithTx(tx).CreateMultiple(ctx, cards)
	})
	if err != nil {
		log.Error("failed to create set", "error", err, "user_id", userID)
		return nil, wrapUnexpected("create_set", "failed to create set", err)
	}

	log.Info("set created", "set_id", set.ID, "user_id", userID, "card_count", len(cards))
	return &SetDetail{Set: set, Cards: cards}, nil
}

// GetSet implements SetService.
func (s *SetServiceImpl) GetSet(ctx context.Context, userID, setID uuid.UUID) (*SetDetail, error) {
	set, err := s.viewableSet(ctx, userID, setID)
	if err != nil {
		return nil, err
	}

	cards, err := s.cards.ListBySet(ctx, setID)
	if err != nil {
		return nil, wrapUnexpected("get_set", "failed to list cards", err)
	}
	favorite, err := s.favorites.Exists(ctx, userID, setID)
	if err != nil {
		return nil, wrapUnexpected("get_set", "failed to check favorite", err)
	}

	return &SetDetail{Set: set, Cards: cards, IsFavorite: favorite}, nil
}

// UpdateSet implements SetService.
func (s *SetServiceImpl) UpdateSet(ctx context.Context, userID, setID uuid.UUID, input SetInput) (*domain.Set, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	set, err := s.ownedSet(ctx, userID, setID)
	if err != nil {
		return nil, err
	}

	set.Title = strings.TrimSpace(input.Title)
	set.Description = strings.TrimSpace(input.Description)
	set.IsPublic = input.IsPublic
	set.UpdatedAt = time.Now().UTC()

	if err := s.sets.Update(ctx, set); err != nil {
		if errors.Is(err, domain.ErrValidation) || errors.Is(err, store.ErrSetNotFound) {
			return nil, err
		}
		log.Error("failed to update set", "error", err, "set_id", setID)
		return nil, wrapUnexpected("update_set", "failed to update set", err)
	}

	log.Info("set updated", "set_id", setID)
	return set, nil
}

// DeleteSet implements SetService.
func (s *SetServiceImpl) DeleteSet(ctx context.Context, userID, setID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.ownedSet(ctx, userID, setID); err != nil {
		return err
	}
	if err := s.sets.Delete(ctx, setID); err != nil {
		if errors.Is(err, store.ErrSetNotFound) {
			return err
		}
		log.Error("failed to delete set", "error", err, "set_id", setID)
		return wrapUnexpected("delete_set", "failed to delete set", err)
	}

	log.Info("set deleted", "set_id", setID)
	return nil
}

// ListSets implements SetService.
func (s *SetServiceImpl) ListSets(
	ctx context.Context,
	userID uuid.UUID,
	scope domain.SetScope,
	opts store.ListOptions,
) ([]store.SetSummary, error) {
	var (
		sets []store.SetSummary
		err  error
	)
	switch scope {
	case domain.ScopePublic:
		sets, err = s.sets.ListPublic(ctx, userID, opts)
	case domain.ScopeFavorites:
		sets, err = s.sets.ListFavorites(ctx, userID, opts)
	default:
		sets, err = s.sets.ListByOwner(ctx, userID, opts)
	}
	if err != nil {
		return nil, wrapUnexpected("list_sets", "failed to list sets", err)
	}
	return sets, nil
}

// AddCards implements SetService.
func (s *SetServiceImpl) AddCards(
	ctx context.Context,
	userID, setID uuid.UUID,
	contents []domain.CardContent,
) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.ownedSet(ctx, userID, setID); err != nil {
		return nil, err
	}
	if len(contents) == 0 {
		return nil, fmt.Errorf("%w: at least one card is required", domain.ErrValidation)
	}

	var cards []*domain.Card
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txCards := s.cards.WithTx(tx)
		next, err := txCards.NextPosition(ctx, setID)
		if err != nil {
			return err
		}
		cards, err = buildCards(setID, next, contents)
		if err != nil {
			return err
		}
		return txCards.CreateMultiple(ctx, cards)
	})
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return nil, err
		}
		log.Error("failed to add cards", "error", err, "set_id", setID)
		return nil, wrapUnexpected("add_cards", "failed to add cards", err)
	}

	log.Info("cards added", "set_id", setID, "count", len(cards))
	return cards, nil
}

// UpdateCard implements SetService.
func (s *SetServiceImpl) UpdateCard(
	ctx context.Context,
	userID, setID, cardID uuid.UUID,
	content domain.CardContent,
) (*domain.Card, error) {
	card, err := s.ownedCard(ctx, userID, setID, cardID)
	if err != nil {
		return nil, err
	}

	card.Term = strings.TrimSpace(content.Term)
	card.Definition = strings.TrimSpace(content.Definition)
	card.UpdatedAt = time.Now().UTC()
	if err := card.Validate(); err != nil {
		return nil, err
	}

	if err := s.cards.Update(ctx, card); err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			return nil, err
		}
		return nil, wrapUnexpected("update_card", "failed to update card", err)
	}
	return card, nil
}

// DeleteCard implements SetService.
func (s *SetServiceImpl) DeleteCard(ctx context.Context, userID, setID, cardID uuid.UUID) error {
	if _, err := s.ownedCard(ctx, userID, setID, cardID); err != nil {
		return err
	}
	if err := s.cards.Delete(ctx, cardID); err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			return err
		}
		return wrapUnexpected("delete_card", "failed to delete card", err)
	}
	return nil
}

// GetStudyCards implements SetService.
func (s *SetServiceImpl) GetStudyCards(ctx context.Context, userID, setID uuid.UUID) (*domain.Set, []session.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	set, err := s.viewableSet(ctx, userID, setID)
	if err != nil {
		if errors.Is(err, store.ErrSetNotFound) || errors.Is(err, domain.ErrForbidden) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: %v", session.ErrDataUnavailable, err)
	}

	cards, err := s.cards.ListBySet(ctx, setID)
	if err != nil {
		log.Error("failed to load study cards", "error", err, "set_id", setID)
		return nil, nil, fmt.Errorf("%w: failed to load cards: %v", session.ErrDataUnavailable, err)
	}
	if len(cards) == 0 {
		return nil, nil, session.ErrNoCards
	}

	out := make([]session.Card, len(cards))
	for i, c := range cards {
		out[i] = session.Card{ID: c.ID.String(), Term: c.Term, Definition: c.Definition}
	}
	return set, out, nil
}

// Favorite implements SetService.
func (s *SetServiceImpl) Favorite(ctx context.Context, userID, setID uuid.UUID) error {
	if _, err := s.viewableSet(ctx, userID, setID); err != nil {
		return err
	}
	if err := s.favorites.Add(ctx, userID, setID); err != nil {
		return wrapUnexpected("favorite", "failed to add favorite", err)
	}
	return nil
}

// Unfavorite implements SetService.
func (s *SetServiceImpl) Unfavorite(ctx context.Context, userID, setID uuid.UUID) error {
	if err := s.favorites.Remove(ctx, userID, setID); err != nil {
		if errors.Is(err, store.ErrFavoriteNotFound) {
			return err
		}
		return wrapUnexpected("unfavorite", "failed to remove favorite", err)
	}
	return nil
}

// ImportSet implements SetService.
func (s *SetServiceImpl) ImportSet(ctx context.Context, userID uuid.UUID, deck *deckfile.Deck) (*SetDetail, error) {
	if deck == nil || len(deck.Cards) == 0 {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, deckfile.ErrEmptyDeck)
	}
	return s.CreateSet(ctx, userID, SetInput{
		Title:       deck.Title,
		Description: deck.Description,
		IsPublic:    deck.Public,
	}, deck.Cards)
}

// ExportSet implements SetService.
func (s *SetServiceImpl) ExportSet(ctx context.Context, userID, setID uuid.UUID) (*deckfile.Deck, error) {
	detail, err := s.GetSet(ctx, userID, setID)
	if err != nil {
		return nil, err
	}

	deck := &deckfile.Deck{
		Title:       detail.Set.Title,
		Description: detail.Set.Description,
		Public:      detail.Set.IsPublic,
		Cards:       make([]domain.CardContent, len(detail.Cards)),
	}
	for i, c := range detail.Cards {
		deck.Cards[i] = domain.CardContent{Term: c.Term, Definition: c.Definition}
	}
	return deck, nil
}

func (s *SetServiceImpl) viewableSet(ctx context.Context, userID, setID uuid.UUID) (*domain.Set, error) {
	set, err := s.sets.GetByID(ctx, setID)
	if err != nil {
		if errors.Is(err, store.ErrSetNotFound) {
			return nil, err
		}
		return nil, wrapUnexpected("get_set", "failed to retrieve set", err)
	}
	if !set.CanView(userID) {
		return nil, ErrSetNotVisible
	}
	return set, nil
}

func (s *SetServiceImpl) ownedSet(ctx context.Context, userID, setID uuid.UUID) (*domain.Set, error) {
	set, err := s.viewableSet(ctx, userID, setID)
	if err != nil {
		return nil, err
	}
	if !set.CanEdit(userID) {
		return nil, ErrNotOwned
	}
	return set, nil
}

// ownedCard returns a card of an owned set. A card from another set is
// reported as missing.
func (s *SetServiceImpl) ownedCard(ctx context.Context, userID, setID, cardID uuid.UUID) (*domain.Card, error) {
	if _, err := s.ownedSet(ctx, userID, setID); err != nil {
		return nil, err
	}
	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			return nil, err
		}
		return nil, wrapUnexpected("get_card", "failed to retrieve card", err)
	}
	if card.SetID != setID {
		return nil, store.ErrCardNotFound
	}
	return card, nil
}

func buildCards(setID uuid.UUID, start int, contents []domain.CardContent) ([]*domain.Card, error) {
	cards := make([]*domain.Card, 0, len(contents))
	for i, c := range contents {
		card, err := domain.NewCard(setID, c.Term, c.Definition, start+i)
		if err != nil {
			return nil, fmt.Errorf("card %d: %w", i+1, err)
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// wrapUnexpected passes known error kinds through and wraps everything else.
func wrapUnexpected(operation, message string, err error) error {
	if errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, store.ErrNotFound) ||
		errors.Is(err, store.ErrDuplicate) ||
		errors.Is(err, store.ErrInvalidEntity) {
		return err
	}
	return NewServiceError("set", operation, message, err)
}
