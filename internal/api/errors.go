package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/flipdeck/internal/api/shared"
	"github.com/phrazzld/flipdeck/internal/deckfile"
	"github.com/phrazzld/flipdeck/internal/domain"
	"github.com/phrazzld/flipdeck/internal/domain/session"
	"github.com/phrazzld/flipdeck/internal/service"
	"github.com/phrazzld/flipdeck/internal/service/auth"
	"github.com/phrazzld/flipdeck/internal/service/sessions"
	"github.com/phrazzld/flipdeck/internal/store"
)

// MapErrorToStatusCode maps an error to its HTTP status without exposing
// internal error types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized

	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden

	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, sessions.ErrSessionNotFound):
		return http.StatusNotFound

	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, deckfile.ErrUnsupportedFormat),
		errors.Is(err, deckfile.ErrEmptyDeck),
		errors.Is(err, deckfile.ErrMalformedRow),
		errors.Is(err, deckfile.ErrInvalidDeck),
		errors.Is(err, shared.ErrEmptyBody):
		return http.StatusBadRequest

	case errors.Is(err, session.ErrDataUnavailable):
		return http.StatusUnprocessableEntity

	case errors.Is(err, session.ErrPrecondition):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid refresh token"
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"
	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid credentials"

	case errors.Is(err, service.ErrNotOwned):
		return "You do not own this set"
	case errors.Is(err, service.ErrSetNotVisible):
		return "This set is private"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, store.ErrSetNotFound):
		return "Set not found"
	case errors.Is(err, store.ErrCardNotFound):
		return "Card not found"
	case errors.Is(err, store.ErrFavoriteNotFound):
		return "Set is not a favorite"
	case errors.Is(err, sessions.ErrSessionNotFound):
		return "Session not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, deckfile.ErrUnsupportedFormat),
		errors.Is(err, deckfile.ErrMalformedRow):
		// These messages are built from fixed text and row numbers.
		return capitalize(err.Error())
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID"
	case errors.Is(err, deckfile.ErrEmptyDeck):
		return "Deck has no cards"
	case errors.Is(err, deckfile.ErrInvalidDeck):
		return "Deck file could not be parsed"
	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body is required"
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, session.ErrNoCards):
		return "Set has no cards"
	case errors.Is(err, session.ErrDataUnavailable):
		return "Study data is unavailable"
	case errors.Is(err, sessions.ErrWrongKind):
		return "Action does not apply to this session"
	case errors.Is(err, session.ErrPrecondition):
		return capitalize(strings.TrimPrefix(err.Error(), session.ErrPrecondition.Error()+": "))

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError maps err to a status and safe message and writes the
// response. fallback replaces the generic message of a 500.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}

	var opts []shared.ResponseOption
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}

// SanitizeValidationError turns validator errors into a short message naming
// the first failing field.
func SanitizeValidationError(err error) string {
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
		fe := fieldErrors[0]
		return fmt.Sprintf("Invalid %s: %s", strings.ToLower(fe.Field()), validationTagMessage(fe.Tag()))
	}
	return "Validation error"
}

func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	case "uuid":
		return "invalid ID"
	default:
		return "validation failed"
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
