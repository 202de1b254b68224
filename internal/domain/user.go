package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	MinPasswordLength = 12
	// MaxPasswordLength is bcrypt's input limit.
	MaxPasswordLength = 72
)

// User validation errors
var (
	ErrEmptyUserID      = fmt.Errorf("%w: user ID cannot be empty", ErrValidation)
	ErrEmptyEmail       = fmt.Errorf("%w: email cannot be empty", ErrValidation)
	ErrInvalidEmail     = fmt.Errorf("%w: invalid email format", ErrValidation)
	ErrPasswordTooShort = fmt.Errorf("%w: password must be at least %d characters long", ErrValidation, MinPasswordLength)
	ErrPasswordTooLong  = fmt.Errorf("%w: password must be at most %d characters long", ErrValidation, MaxPasswordLength)
	ErrEmptyPassword    = fmt.Errorf("%w: password cannot be empty", ErrValidation)
)

var emailValidator = validator.New()

// User represents a registered user.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	Password       string    `json:"-"` // plaintext, only set during registration
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a new User with the given email and plaintext password.
// The caller hashes the password before storing the user.
func NewUser(email, password string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Email:     NormalizeEmail(email),
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}
	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}
	if err := ValidateEmail(u.Email); err != nil {
		return err
	}

	if u.Password != "" {
		switch {
		case len(u.Password) < MinPasswordLength:
			return ErrPasswordTooShort
		case len(u.Password) > MaxPasswordLength:
			return ErrPasswordTooLong
		}
	} else if u.HashedPassword == "" {
		// Stored users carry only the hash.
		return ErrEmptyPassword
	}
	return nil
}

// ValidateEmail checks that email is present and well formed.
func ValidateEmail(email string) error {
	if email == "" {
		return ErrEmptyEmail
	}
	if err := emailValidator.Var(email, "email"); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
