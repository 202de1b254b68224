package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/flipdeck/internal/api/shared"
	"github.com/phrazzld/flipdeck/internal/deckfile"
	"github.com/phrazzld/flipdeck/internal/domain"
	"github.com/phrazzld/flipdeck/internal/domain/session"
	"github.com/phrazzld/flipdeck/internal/service"
	"github.com/phrazzld/flipdeck/internal/service/auth"
	"github.com/phrazzld/flipdeck/internal/service/sessions"
	"github.com/phrazzld/flipdeck/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{auth.ErrInvalidToken, http.StatusUnauthorized},
		{auth.ErrExpiredRefreshToken, http.StatusUnauthorized},
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{service.ErrNotOwned, http.StatusForbidden},
		{service.ErrSetNotVisible, http.StatusForbidden},
		{store.ErrSetNotFound, http.StatusNotFound},
		{fmt.Errorf("load: %w", store.ErrCardNotFound), http.StatusNotFound},
		{sessions.ErrSessionNotFound, http.StatusNotFound},
		{store.ErrEmailExists, http.StatusConflict},
		{domain.ErrValidation, http.StatusBadRequest},
		{domain.ErrInvalidID, http.StatusBadRequest},
		{deckfile.ErrMalformedRow, http.StatusBadRequest},
		{deckfile.ErrInvalidDeck, http.StatusBadRequest},
		{shared.ErrEmptyBody, http.StatusBadRequest},
		{session.ErrNoCards, http.StatusUnprocessableEntity},
		{session.ErrDuplicateCardID, http.StatusUnprocessableEntity},
		{session.ErrNavigationLocked, http.StatusConflict},
		{sessions.ErrWrongKind, http.StatusConflict},
		{session.ErrPersistence, http.StatusInternalServerError},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.err.Error(), func(t *testing.T) {
			assert.Equal(t, tc.status, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	tests := []struct {
		err     error
		message string
	}{
		{nil, "An unexpected error occurred"},
		{auth.ErrWrongTokenType, "Invalid refresh token"},
		{auth.ErrExpiredToken, "Token expired"},
		{auth.ErrMissingToken, "Invalid token"},
		{service.ErrNotOwned, "You do not own this set"},
		{store.ErrFavoriteNotFound, "Set is not a favorite"},
		{store.ErrUserNotFound, "User not found"},
		{fmt.Errorf("%w: title is required", domain.ErrValidation), "Validation failed: title is required"},
		{fmt.Errorf("%w: row 4 needs a term and a definition", deckfile.ErrMalformedRow), "Malformed deck row: row 4 needs a term and a definition"},
		{deckfile.ErrEmptyDeck, "Deck has no cards"},
		{session.ErrNoCards, "Set has no cards"},
		{session.ErrDuplicateCardID, "Study data is unavailable"},
		{sessions.ErrWrongKind, "Action does not apply to this session"},
		{session.ErrSessionNotComplete, "Session is not completed"},
		{session.ErrTrackingDisabled, "Progress tracking is disabled"},
		{errors.New("query failed: password=hunter2"), "An unexpected error occurred"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.message, GetSafeErrorMessage(tc.err))
	}
}

func TestHandleAPIError(t *testing.T) {
	t.Run("fallback replaces internal messages", func(t *testing.T) {
		rec := httptest.NewRecorder()
		HandleAPIError(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("pq: timeout"), "Failed to load set")

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Failed to load set", decodeBody[shared.ErrorResponse](t, rec).Error)
	})

	t.Run("fallback is ignored for mapped errors", func(t *testing.T) {
		rec := httptest.NewRecorder()
		HandleAPIError(rec, httptest.NewRequest(http.MethodGet, "/", nil), store.ErrSetNotFound, "Failed to load set")

		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Set not found", decodeBody[shared.ErrorResponse](t, rec).Error)
	})
}

func TestSanitizeValidationError(t *testing.T) {
	assert.Equal(t, "Invalid email: invalid email format",
		SanitizeValidationError(shared.ValidateRequest(RegisterRequest{Email: "nope", Password: "long enough password"})))
	assert.Equal(t, "Invalid password: too short",
		SanitizeValidationError(shared.ValidateRequest(RegisterRequest{Email: "a@example.com", Password: "short"})))
	assert.Equal(t, "Invalid title: required field",
		SanitizeValidationError(shared.ValidateRequest(SetRequest{})))
	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("other")))
}
