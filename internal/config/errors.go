package config

import (
	"errors"
	"fmt"
)

// Sentinel errors for configuration loading.
var (
	// ErrInvalidConfig indicates the configuration failed validation.
	// Individual field failures are reported as ValidationError values
	// wrapped alongside it.
	ErrInvalidConfig = errors.New("config: invalid configuration")

	// ErrNilHandler indicates a watcher was created without a reload
	// handler.
	ErrNilHandler = errors.New("config: reload handler must not be nil")
)

// ParseError describes a failure decoding a configuration file.
type ParseError struct {
	// Path is the file that failed to parse.
	Path string
	// Line and Column locate the error when the decoder reports a
	// position, and are zero otherwise.
	Line   int
	Column int
	// Message is the decoder's description of the failure.
	Message string
	// Err is the underlying decode error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("config: parse %s:%d:%d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("config: parse %s: %s", e.Path, e.Message)
}

// Unwrap returns the underlying decode error.
func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError describes a single configuration field that holds an
// unusable value.
type ValidationError struct {
	// Field is the dotted TOML path of the offending field.
	Field string
	// Value is the rejected value.
	Value any
	// Message explains what the field requires.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s = %v: %s", e.Field, e.Value, e.Message)
}

// Is reports ErrInvalidConfig so callers can match any validation
// failure without inspecting fields.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidConfig
}
