// Package util provides shared error types for the router.
//
// # Error Conventions
//
// This project follows a standardized error pattern across all packages:
//
//   - Sentinel errors (errors.New) for well-known, stable conditions
//     that callers check with errors.Is(). Example: ErrNotFound.
//   - Structured error types for context-rich errors that carry
//     additional fields (e.g., PatternError). Each type implements
//     Error(), Unwrap() (if wrapping), and Is().
//   - fmt.Errorf with %w for ad-hoc wrapping that adds context to an
//     existing error without introducing a new type.
package util

import (
	"errors"
	"fmt"
)

// Common sentinel errors.
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrConfigInvalid = errors.New("invalid configuration")
)

// PatternError represents an invalid path template detected at
// registration time.
type PatternError struct {
	Template string
	Message  string
}

// Error implements the error interface.
func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid path template %q: %s", e.Template, e.Message)
}

// Is checks if the error matches the target.
func (e *PatternError) Is(target error) bool {
	if target == ErrInvalidInput {
		return true
	}
	_, ok := target.(*PatternError)
	return ok
}

// NewPatternError creates a new PatternError.
func NewPatternError(template, message string) *PatternError {
	return &PatternError{Template: template, Message: message}
}

// RouteNotFoundError represents a request that matched no route entry.
type RouteNotFoundError struct {
	Method string
	Path   string
}

// Error implements the error interface.
func (e *RouteNotFoundError) Error() string {
	return fmt.Sprintf("no route found for %s %s", e.Method, e.Path)
}

// Is checks if the error matches the target.
func (e *RouteNotFoundError) Is(target error) bool {
	if target == ErrNotFound {
		return true
	}
	_, ok := target.(*RouteNotFoundError)
	return ok
}

// NewRouteNotFoundError creates a new RouteNotFoundError.
func NewRouteNotFoundError(method, path string) *RouteNotFoundError {
	return &RouteNotFoundError{Method: method, Path: path}
}

// HandlerError represents a failure raised by a route handler during
// dispatch. The dispatcher converts it to a 500 response; it never
// escapes Dispatch.
type HandlerError struct {
	Method   string
	Template string
	Cause    error
}

// Error implements the error interface.
func (e *HandlerError) Error() string {
	return fmt.Sprintf("handler for %s %s failed: %v", e.Method, e.Template, e.Cause)
}

// Unwrap returns the underlying error.
func (e *HandlerError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target.
func (e *HandlerError) Is(target error) bool {
	_, ok := target.(*HandlerError)
	return ok || errors.Is(e.Cause, target)
}

// NewHandlerError creates a new HandlerError.
func NewHandlerError(method, template string, cause error) *HandlerError {
	return &HandlerError{Method: method, Template: template, Cause: cause}
}

// ConfigError represents a configuration-related error.
type ConfigError struct {
	Field   string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error at %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target.
func (e *ConfigError) Is(target error) bool {
	if target == ErrConfigInvalid {
		return true
	}
	_, ok := target.(*ConfigError)
	return ok || errors.Is(e.Cause, target)
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message}
}

// WrapError wraps an error with additional context.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
