package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/flipdeck/internal/domain"
	"github.com/phrazzld/flipdeck/internal/service"
	"github.com/stretchr/testify/mock"
)

// UserService is a testify mock of service.UserService.
type UserService struct {
	mock.Mock
}

var _ service.UserService = (*UserService)(nil)

func (m *UserService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	return m.user(m.Called(ctx, email, password))
}

func (m *UserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	return m.user(m.Called(ctx, email, password))
}

func (m *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return m.user(m.Called(ctx, userID))
}

func (m *UserService) UpdateEmail(ctx context.Context, userID uuid.UUID, email string) (*domain.User, error) {
	return m.user(m.Called(ctx, userID, email))
}

func (m *UserService) user(args mock.Arguments) (*domain.User, error) {
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}
