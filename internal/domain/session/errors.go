package session

import (
	"errors"
	"fmt"
)

// Error categories. Every error returned by this package wraps one of them.
var (
	// ErrDataUnavailable is returned when a session cannot be built from the
	// data it was given.
	ErrDataUnavailable = errors.New("session data unavailable")

	// ErrPrecondition is returned when an operation is not valid in the
	// session's current state.
	ErrPrecondition = errors.New("session precondition violated")

	// ErrPersistence classifies failures to store a completed session summary.
	// Sessions never return it; recorders wrap their failures with it.
	ErrPersistence = errors.New("progress persistence failed")
)

var (
	ErrNoCards            = fmt.Errorf("%w: set has no cards", ErrDataUnavailable)
	ErrDuplicateCardID    = fmt.Errorf("%w: duplicate card id", ErrDataUnavailable)
	ErrSessionCompleted   = fmt.Errorf("%w: session is completed", ErrPrecondition)
	ErrSessionNotComplete = fmt.Errorf("%w: session is not completed", ErrPrecondition)
	ErrNavigationLocked   = fmt.Errorf("%w: navigation is disabled while tracking progress", ErrPrecondition)
	ErrTrackingDisabled   = fmt.Errorf("%w: progress tracking is disabled", ErrPrecondition)
	ErrSessionClosed      = fmt.Errorf("%w: session is closed", ErrPrecondition)
	ErrUnknownItem        = fmt.Errorf("%w: unknown item", ErrPrecondition)
)
