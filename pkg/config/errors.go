package config

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidYAML indicates YAML parsing failed
	ErrInvalidYAML = errors.New("invalid YAML syntax")

	// ErrValidationFailed indicates settings validation failed
	ErrValidationFailed = errors.New("settings validation failed")

	// ErrUnknownKey indicates a key that is not part of the schema
	ErrUnknownKey = errors.New("unknown key")

	// ErrMissingRequiredField indicates a required field is missing
	ErrMissingRequiredField = errors.New("missing required field")

	// ErrInvalidValue indicates a field has an invalid value
	ErrInvalidValue = errors.New("invalid field value")
)

// ValidationError wraps settings validation errors with the path of the
// offending node in the resolved tree
type ValidationError struct {
	Path     string // Path in the resolved tree, e.g. plugins[0].retries.attempts
	Expected string // Description of the expected shape or range (optional)
	Value    any    // Offending value (optional)
	Err      error  // Underlying error
}

// Error returns formatted error message
func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Path, e.Err)
	if e.Expected != "" {
		msg += ": expected " + e.Expected
	}
	if e.Value != nil {
		msg += fmt.Sprintf(", got %v", e.Value)
	}
	return msg
}

// Unwrap returns the underlying error
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new validation error
func NewValidationError(path, expected string, value any, err error) *ValidationError {
	return &ValidationError{
		Path:     path,
		Expected: expected,
		Value:    value,
		Err:      err,
	}
}

// LoadError wraps settings loading errors with file context
type LoadError struct {
	File string // Settings file being loaded
	Err  error  // Underlying error
}

// Error returns formatted error message
func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.File, e.Err)
}

// Unwrap returns the underlying error
func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError creates a new load error
func NewLoadError(file string, err error) *LoadError {
	return &LoadError{
		File: file,
		Err:  err,
	}
}
