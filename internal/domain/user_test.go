package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	user, err := NewUser("  Test@Example.com ", "averylongpassword")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "test@example.com", user.Email)
	assert.Equal(t, "averylongpassword", user.Password)
	assert.False(t, user.CreatedAt.IsZero())
	assert.Equal(t, user.CreatedAt, user.UpdatedAt)
}

func TestUserValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(u *User)
		wantErr error
	}{
		{name: "valid with password", modify: func(u *User) {}},
		{name: "valid with hash only", modify: func(u *User) { u.Password, u.HashedPassword = "", "$2a$10$hash" }},
		{name: "missing id", modify: func(u *User) { u.ID = uuid.Nil }, wantErr: ErrEmptyUserID},
		{name: "missing email", modify: func(u *User) { u.Email = "" }, wantErr: ErrEmptyEmail},
		{name: "malformed email", modify: func(u *User) { u.Email = "not-an-email" }, wantErr: ErrInvalidEmail},
		{name: "short password", modify: func(u *User) { u.Password = "short" }, wantErr: ErrPasswordTooShort},
		{name: "long password", modify: func(u *User) { u.Password = strings.Repeat("x", 73) }, wantErr: ErrPasswordTooLong},
		{name: "no password at all", modify: func(u *User) { u.Password = "" }, wantErr: ErrEmptyPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := User{ID: uuid.New(), Email: "user@example.com", Password: "averylongpassword"}
			tt.modify(&u)

			err := u.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}
