package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/flipdeck/internal/domain"
	"github.com/phrazzld/flipdeck/internal/domain/session"
	"github.com/phrazzld/flipdeck/internal/service"
	"github.com/phrazzld/flipdeck/internal/service/sessions"
	"github.com/phrazzld/flipdeck/internal/store"
)

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	AccessToken  string    `json:"token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	// ExpiresAt is the RFC 3339 expiry of the access token.
	ExpiresAt string `json:"expires_at,omitempty"`
}

// RefreshTokenRequest is the body of POST /auth/refresh.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse carries a fresh token pair.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    string `json:"expires_at"`
}

// UpdateProfileRequest is the body of PUT /me.
type UpdateProfileRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CardRequest is the editable content of a card.
type CardRequest struct {
	Term       string `json:"term"       validate:"required,max=1000"`
	Definition string `json:"definition" validate:"required,max=1000"`
}

// SetRequest is the body of PUT /sets/{id}.
type SetRequest struct {
	Title       string `json:"title"       validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	IsPublic    bool   `json:"is_public"`
}

// CreateSetRequest is the body of POST /sets.
type CreateSetRequest struct {
	SetRequest
	Cards []CardRequest `json:"cards" validate:"dive"`
}

// AddCardsRequest is the body of POST /sets/{id}/cards.
type AddCardsRequest struct {
	Cards []CardRequest `json:"cards" validate:"required,min=1,dive"`
}

// SetDetailResponse is a set with its cards.
type SetDetailResponse struct {
	*domain.Set
	Cards      []*domain.Card `json:"cards"`
	IsFavorite bool           `json:"is_favorite"`
}

// SetListResponse is one page of sets.
type SetListResponse struct {
	Sets   []store.SetSummary `json:"sets"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}

// CardListResponse wraps newly added cards.
type CardListResponse struct {
	Cards []*domain.Card `json:"cards"`
}

// StartStudyRequest is the optional body of POST /sets/{id}/study.
type StartStudyRequest struct {
	DefinitionFirst bool `json:"definition_first"`
	TrackProgress   bool `json:"track_progress"`
}

// MatchSelectRequest is the body of POST /sessions/{sid}/match/select.
type MatchSelectRequest struct {
	Side   string `json:"side"    validate:"required,oneof=term definition"`
	ItemID string `json:"item_id" validate:"required"`
}

// SessionResponse describes a live session and its current state. Exactly
// one of Study and Match is set.
type SessionResponse struct {
	sessions.Info
	Study *session.StudyState `json:"study,omitempty"`
	Match *session.MatchState `json:"match,omitempty"`
}

// MatchSelectResponse reports what a selection did.
type MatchSelectResponse struct {
	Outcome session.Outcome    `json:"outcome"`
	State   session.MatchState `json:"state"`
}

// ProgressListResponse lists completed study passes.
type ProgressListResponse struct {
	Records []*domain.ProgressRecord `json:"records"`
}

func userToResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func detailToResponse(d *service.SetDetail) SetDetailResponse {
	cards := d.Cards
	if cards == nil {
		cards = []*domain.Card{}
	}
	return SetDetailResponse{Set: d.Set, Cards: cards, IsFavorite: d.IsFavorite}
}

func cardsToContents(cards []CardRequest) []domain.CardContent {
	contents := make([]domain.CardContent, len(cards))
	for i, c := range cards {
		contents[i] = domain.CardContent{Term: c.Term, Definition: c.Definition}
	}
	return contents
}
