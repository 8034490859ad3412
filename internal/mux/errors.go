package mux

import "errors"

// Sentinel errors for the multiplexer.
var (
	// ErrNotOpen is returned when operations are attempted before Open or
	// after Close.
	ErrNotOpen = errors.New("multiplexer is not open")

	// ErrAlreadyOpen is returned when Open is called twice.
	ErrAlreadyOpen = errors.New("multiplexer is already open")

	// ErrNoSuchDevice is returned when a device index is out of range.
	ErrNoSuchDevice = errors.New("no such device")
)
