package app

import "errors"

// Application errors.
var (
	// ErrAlreadyRunning indicates Run was called while running.
	ErrAlreadyRunning = errors.New("app: already running")

	// ErrClosed indicates the application has been shut down.
	ErrClosed = errors.New("app: closed")

	// ErrNoOpener indicates no device opener was configured and
	// simulation was not requested.
	ErrNoOpener = errors.New("app: no device opener configured")
)

// InitError reports which component failed to initialize.
type InitError struct {
	Component string
	Err       error
}

// Error implements the error interface.
func (e *InitError) Error() string {
	return "init " + e.Component + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *InitError) Unwrap() error { return e.Err }
