package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/flipdeck/internal/api/shared"
	"github.com/phrazzld/flipdeck/internal/config"
	"github.com/phrazzld/flipdeck/internal/platform/logger"
	"github.com/phrazzld/flipdeck/internal/service"
	"github.com/phrazzld/flipdeck/internal/service/auth"
	"github.com/phrazzld/flipdeck/internal/store"
)

// AuthHandler serves registration, login and token refresh.
type AuthHandler struct {
	users      service.UserService
	jwtService auth.JWTService
	authConfig config.AuthConfig
	logger     *slog.Logger
	now        func() time.Time
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(
	users service.UserService,
	jwtService auth.JWTService,
	authConfig config.AuthConfig,
	logger *slog.Logger,
) *AuthHandler {
	if users == nil {
		panic("users cannot be nil")
	}
	if jwtService == nil {
		panic("jwtService cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		users:      users,
		jwtService: jwtService,
		authConfig: authConfig,
		logger:     logger.With(slog.String("component", "auth_handler")),
		now:        time.Now,
	}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req RegisterRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	user, err := h.users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create user")
		return
	}

	tokens, ok := h.issueTokens(w, r, user.ID)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, AuthResponse{
		UserID:       user.ID,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresAt:    tokens.ExpiresAt,
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req LoginRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to authenticate user")
		return
	}

	tokens, ok := h.issueTokens(w, r, user.ID)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		UserID:       user.ID,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresAt:    tokens.ExpiresAt,
	})
}

// RefreshToken handles POST /auth/refresh. The refresh token is exchanged
// for a new access and refresh token pair.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req RefreshTokenRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidRefreshToken) &&
			!errors.Is(err, auth.ErrExpiredRefreshToken) &&
			!errors.Is(err, auth.ErrWrongTokenType) {
			err = errors.Join(auth.ErrInvalidRefreshToken, err)
		}
		HandleAPIError(w, r, err, "")
		return
	}

	// A deleted account cannot refresh.
	if _, err := h.users.GetProfile(r.Context(), claims.UserID); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			err = errors.Join(auth.ErrInvalidRefreshToken, err)
		}
		HandleAPIError(w, r, err, "Failed to refresh token")
		return
	}

	tokens, ok := h.issueTokens(w, r, claims.UserID)
	if !ok {
		return
	}
	log.Debug("tokens refreshed", slog.String("user_id", claims.UserID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, tokens)
}

// issueTokens creates an access and refresh token pair, writing a 500 on
// failure.
func (h *AuthHandler) issueTokens(w http.ResponseWriter, r *http.Request, userID uuid.UUID) (RefreshTokenResponse, bool) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	access, err := h.jwtService.GenerateToken(r.Context(), userID)
	if err != nil {
		log.Error("failed to generate token", "error", err, "user_id", userID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return RefreshTokenResponse{}, false
	}
	refresh, err := h.jwtService.GenerateRefreshToken(r.Context(), userID)
	if err != nil {
		log.Error("failed to generate refresh token", "error", err, "user_id", userID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate refresh token")
		return RefreshTokenResponse{}, false
	}

	expiresAt := h.now().UTC().Add(time.Duration(h.authConfig.TokenLifetimeMinutes) * time.Minute)
	return RefreshTokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt.Format(time.RFC3339),
	}, true
}
