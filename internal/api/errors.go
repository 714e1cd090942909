package api

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned for 404 responses on single-resource
// requests. Collection fetches never return it: a 404 there is treated
// as an authoritative empty result instead.
var ErrNotFound = errors.New("resource not found")

// UnauthorizedError indicates a 401 response. Receiving one also clears
// the stored token as a side effect.
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string {
	if e.Message == "" {
		return "unauthorized"
	}
	return fmt.Sprintf("unauthorized: %s", e.Message)
}

// ForbiddenError indicates a 403 response. It is surfaced to the caller
// untouched; there is no global handling for it.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	if e.Message == "" {
		return "forbidden"
	}
	return fmt.Sprintf("forbidden: %s", e.Message)
}

// ServerError indicates a 5xx response that survived the retry policy.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.Status, e.Message)
}

// ValidationError indicates a 4xx response carrying structured
// field-level errors.
type ValidationError struct {
	Status  int
	Message string

	// Fields maps field names to their validation messages.
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed (%d): %s", e.Status, e.Message)
}

// NetworkError indicates that no response was received at all.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network failure on %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// IsUnauthorized reports whether err (or its chain) is a 401.
func IsUnauthorized(err error) bool {
	var target *UnauthorizedError
	return errors.As(err, &target)
}

// IsForbidden reports whether err (or its chain) is a 403.
func IsForbidden(err error) bool {
	var target *ForbiddenError
	return errors.As(err, &target)
}

// IsServerError reports whether err (or its chain) is a surfaced 5xx.
func IsServerError(err error) bool {
	var target *ServerError
	return errors.As(err, &target)
}

// IsValidation reports whether err (or its chain) carries structured
// validation errors.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsNetwork reports whether err (or its chain) means no response was
// received.
func IsNetwork(err error) bool {
	var target *NetworkError
	return errors.As(err, &target)
}
