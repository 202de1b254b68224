package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/flipdeck/internal/domain"
)

// Service errors. Callers check them with errors.Is; the API layer maps them
// to status codes.
var (
	// ErrNotOwned indicates the caller tried to modify another user's set.
	ErrNotOwned = fmt.Errorf("%w: resource is owned by another user", domain.ErrForbidden)

	// ErrSetNotVisible indicates the caller tried to read a private set they
	// do not own.
	ErrSetNotVisible = fmt.Errorf("%w: set is private", domain.ErrForbidden)

	// ErrInvalidCredentials is returned for an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ServiceError adds the failed operation to an unexpected error.
type ServiceError struct {
	Service   string
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, operation, message string, err error) *ServiceError {
	return &ServiceError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
