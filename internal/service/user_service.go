package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/flipdeck/internal/domain"
	"github.com/phrazzld/flipdeck/internal/platform/logger"
	"github.com/phrazzld/flipdeck/internal/redact"
	"github.com/phrazzld/flipdeck/internal/service/auth"
	"github.com/phrazzld/flipdeck/internal/store"
)

// UserService provides registration, login and profile operations.
type UserService interface {
	// Register creates a user with a hashed password.
	// Returns store.ErrEmailExists if the address is taken.
	Register(ctx context.Context, email, password string) (*domain.User, error)

	// Authenticate returns the user owning email if password matches.
	// Returns ErrInvalidCredentials otherwise.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	// GetProfile returns the user with the given ID.
	GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// UpdateEmail changes the user's email address and returns the updated user.
	UpdateEmail(ctx context.Context, userID uuid.UUID, email string) (*domain.User, error)
}

// PasswordHashVerifier hashes new passwords and checks existing ones.
type PasswordHashVerifier interface {
	auth.PasswordHasher
	auth.PasswordVerifier
}

// UserServiceImpl implements UserService.
type UserServiceImpl struct {
	users     store.UserStore
	passwords PasswordHashVerifier
	logger    *slog.Logger
}

var _ UserService = (*UserServiceImpl)(nil)

// NewUserService creates a UserService. It panics on nil dependencies.
func NewUserService(users store.UserStore, passwords PasswordHashVerifier, logger *slog.Logger) *UserServiceImpl {
	if users == nil {
		panic("users cannot be nil")
	}
	if passwords == nil {
		panic("passwords cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UserServiceImpl{
		users:     users,
		passwords: passwords,
		logger:    logger.With(slog.String("component", "user_service")),
	}
}

// Register implements UserService.
func (s *UserServiceImpl) Register(ctx context.Context, email, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(email, password)
	if err != nil {
		return nil, err
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		log.Error("failed to hash password", "error", err)
		return nil, NewServiceError("user", "register", "failed to hash password", err)
	}
	user.HashedPassword = hash
	user.Password = ""

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("registration with existing email", "email", redact.Email(user.Email))
			return nil, err
		}
		log.Error("failed to create user", "error", err)
		return nil, NewServiceError("user", "register", "failed to create user", err)
	}

	log.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Authenticate implements UserService.
func (s *UserServiceImpl) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("login for unknown email", "email", redact.Email(email))
			return nil, ErrInvalidCredentials
		}
		log.Error("failed to look up user", "error", err)
		return nil, NewServiceError("user", "authenticate", "failed to look up user", err)
	}

	if err := s.passwords.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login with wrong password", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetProfile implements UserService.
func (s *UserServiceImpl) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return user, nil
}

// UpdateEmail implements UserService.
func (s *UserServiceImpl) UpdateEmail(ctx context.Context, userID uuid.UUID, email string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	email = domain.NormalizeEmail(email)
	if err := domain.ValidateEmail(email); err != nil {
		return nil, err
	}

	if err := s.users.UpdateEmail(ctx, userID, email); err != nil {
		if errors.Is(err, store.ErrEmailExists) || errors.Is(err, store.ErrUserNotFound) {
			return nil, err
		}
		log.Error("failed to update email", "error", err, "user_id", userID)
		return nil, NewServiceError("user", "update_email", "failed to update email", err)
	}

	log.Info("user email updated", "user_id", userID)
	return s.GetProfile(ctx, userID)
}
