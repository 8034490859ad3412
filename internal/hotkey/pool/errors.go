package pool

import "errors"

// Sentinel errors for the worker pool.
var (
	// ErrNotRunning is returned when enqueueing to a stopped pool.
	ErrNotRunning = errors.New("worker pool is not running")

	// ErrAlreadyRunning is returned when Start is called on a running pool.
	ErrAlreadyRunning = errors.New("worker pool is already running")

	// ErrQueueFull is returned when the task queue cannot accept more work.
	ErrQueueFull = errors.New("task queue is full")

	// ErrTaskPanicked is returned through completion handlers when a task
	// panicked instead of returning.
	ErrTaskPanicked = errors.New("task panicked")
)

// PanicError carries a recovered task panic to the completion handler.
type PanicError struct {
	// Value is the value passed to panic().
	Value any

	// Stack is the stack trace captured at recovery.
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return "task panicked"
}

// Is allows errors.Is to match PanicError with ErrTaskPanicked.
func (e *PanicError) Is(target error) bool {
	return target == ErrTaskPanicked
}
