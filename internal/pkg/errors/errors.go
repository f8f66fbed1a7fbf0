package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is a generic sentinel for auth failures.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrConflict reports a uniqueness clash on write.
	ErrConflict = errors.New("conflict")
	// ErrUnavailable reports an upstream dependency that could not serve the request.
	ErrUnavailable = errors.New("unavailable")
)
