package hotkey

import "errors"

// Sentinel errors for hotkey registration and lifecycle.
var (
	// ErrNoKeys is returned when registering a hotkey with an empty chord.
	ErrNoKeys = errors.New("hotkey has no keys")

	// ErrNilAction is returned when registering a hotkey without an action.
	ErrNilAction = errors.New("hotkey action is nil")

	// ErrUnknownHotkey is returned when unregistering an ID that is not
	// registered.
	ErrUnknownHotkey = errors.New("unknown hotkey")

	// ErrAlreadyStarted is returned when Start is called on a started
	// manager.
	ErrAlreadyStarted = errors.New("hotkey manager already started")

	// ErrNotStarted is returned when Stop is called on a stopped manager.
	ErrNotStarted = errors.New("hotkey manager not started")
)
