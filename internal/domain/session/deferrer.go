package session

import "time"

// Deferrer runs fn once after d has elapsed and returns a function that
// cancels the pending call. fn must run on its own goroutine, never inline
// inside AfterFunc.
type Deferrer interface {
	AfterFunc(d time.Duration, fn func()) (stop func() bool)
}

type wallClock struct{}

func (wallClock) AfterFunc(d time.Duration, fn func()) func() bool {
	return time.AfterFunc(d, fn).Stop
}

// WallClock is the Deferrer backed by time.AfterFunc.
var WallClock Deferrer = wallClock{}
