package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	MaxSetTitleLength       = 200
	MaxSetDescriptionLength = 2000
)

// Set validation errors
var (
	ErrSetIDEmpty            = fmt.Errorf("%w: set ID cannot be empty", ErrValidation)
	ErrSetUserIDEmpty        = fmt.Errorf("%w: set owner cannot be empty", ErrValidation)
	ErrSetTitleEmpty         = fmt.Errorf("%w: title is required", ErrValidation)
	ErrSetTitleTooLong       = fmt.Errorf("%w: title must be at most %d characters", ErrValidation, MaxSetTitleLength)
	ErrSetDescriptionTooLong = fmt.Errorf("%w: description must be at most %d characters", ErrValidation, MaxSetDescriptionLength)
)

// Set is a named, owned collection of cards.
type Set struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewSet creates a set owned by userID.
func NewSet(userID uuid.UUID, title, description string, isPublic bool) (*Set, error) {
	now := time.Now().UTC()
	set := &Set{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		IsPublic:    isPublic,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := set.Validate(); err != nil {
		return nil, err
	}
	return set, nil
}

// Validate checks if the Set has valid data.
func (s *Set) Validate() error {
	if s.ID == uuid.Nil {
		return ErrSetIDEmpty
	}
	if s.UserID == uuid.Nil {
		return ErrSetUserIDEmpty
	}
	if strings.TrimSpace(s.Title) == "" {
		return ErrSetTitleEmpty
	}
	if utf8.RuneCountInString(s.Title) > MaxSetTitleLength {
		return ErrSetTitleTooLong
	}
	if utf8.RuneCountInString(s.Description) > MaxSetDescriptionLength {
		return ErrSetDescriptionTooLong
	}
	return nil
}

// CanView reports whether userID may read the set and its cards.
func (s *Set) CanView(userID uuid.UUID) bool {
	return s.IsPublic || s.IsOwnedBy(userID)
}

// CanEdit reports whether userID may change the set or its cards.
func (s *Set) CanEdit(userID uuid.UUID) bool {
	return s.IsOwnedBy(userID)
}

// IsOwnedBy reports whether userID owns the set.
func (s *Set) IsOwnedBy(userID uuid.UUID) bool {
	return userID != uuid.Nil && s.UserID == userID
}

// SetSort orders set listings.
type SetSort string

const (
	SortNewest       SetSort = "newest"
	SortOldest       SetSort = "oldest"
	SortAlphabetical SetSort = "alphabetical"
)

// ParseSetSort parses a sort name. An empty name means SortNewest.
func ParseSetSort(s string) (SetSort, error) {
	switch SetSort(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortNewest:
		return SortNewest, nil
	case SortOldest:
		return SortOldest, nil
	case SortAlphabetical:
		return SortAlphabetical, nil
	}
	return "", fmt.Errorf("%w: unknown sort %q", ErrValidation, s)
}

// SetScope selects which sets a listing returns.
type SetScope string

const (
	ScopeMine      SetScope = "mine"
	ScopePublic    SetScope = "public"
	ScopeFavorites SetScope = "favorites"
)

// ParseSetScope parses a scope name. An empty name means ScopeMine.
func ParseSetScope(s string) (SetScope, error) {
	switch SetScope(strings.ToLower(strings.TrimSpace(s))) {
	case "", ScopeMine:
		return ScopeMine, nil
	case ScopePublic:
		return ScopePublic, nil
	case ScopeFavorites:
		return ScopeFavorites, nil
	}
	return "", fmt.Errorf("%w: unknown scope %q", ErrValidation, s)
}
