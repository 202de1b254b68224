package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxCardTextLength bounds both the term and the definition.
const MaxCardTextLength = 1000

// Card validation errors
var (
	ErrCardIDEmpty          = fmt.Errorf("%w: card ID cannot be empty", ErrValidation)
	ErrCardSetIDEmpty       = fmt.Errorf("%w: card set ID cannot be empty", ErrValidation)
	ErrCardTermEmpty        = fmt.Errorf("%w: term is required", ErrValidation)
	ErrCardDefinitionEmpty  = fmt.Errorf("%w: definition is required", ErrValidation)
	ErrCardTextTooLong      = fmt.Errorf("%w: card text must be at most %d characters", ErrValidation, MaxCardTextLength)
	ErrCardPositionNegative = fmt.Errorf("%w: card position cannot be negative", ErrValidation)
)

// Card is one term/definition pair in a set. Position orders cards within
// their set.
type Card struct {
	ID         uuid.UUID `json:"id"`
	SetID      uuid.UUID `json:"set_id"`
	Term       string    `json:"term"`
	Definition string    `json:"definition"`
	Position   int       `json:"position"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewCard creates a card at the given position in setID.
func NewCard(setID uuid.UUID, term, definition string, position int) (*Card, error) {
	now := time.Now().UTC()
	card := &Card{
		ID:         uuid.New(),
		SetID:      setID,
		Term:       strings.TrimSpace(term),
		Definition: strings.TrimSpace(definition),
		Position:   position,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}
	return card, nil
}

// Validate checks if the Card has valid data.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}
	if c.SetID == uuid.Nil {
		return ErrCardSetIDEmpty
	}
	if strings.TrimSpace(c.Term) == "" {
		return ErrCardTermEmpty
	}
	if strings.TrimSpace(c.Definition) == "" {
		return ErrCardDefinitionEmpty
	}
	if utf8.RuneCountInString(c.Term) > MaxCardTextLength ||
		utf8.RuneCountInString(c.Definition) > MaxCardTextLength {
		return ErrCardTextTooLong
	}
	if c.Position < 0 {
		return ErrCardPositionNegative
	}
	return nil
}

// CardContent is a term/definition pair without identity, as supplied by
// clients and deck files.
type CardContent struct {
	Term       string `json:"term" yaml:"term"`
	Definition string `json:"definition" yaml:"definition"`
}
