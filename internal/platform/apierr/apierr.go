package apierr

import (
	"errors"
	"fmt"
	"net/http"

	pkgerrors "github.com/yungbote/coursehub-backend/internal/pkg/errors"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func Validation(code, msg string) *Error {
	return New(http.StatusBadRequest, code, fmt.Errorf("%w: %s", pkgerrors.ErrInvalidArgument, msg))
}

// Invalid is Validation for a cause that already describes the problem.
func Invalid(code string, err error) *Error {
	return New(http.StatusBadRequest, code, fmt.Errorf("%w: %w", pkgerrors.ErrInvalidArgument, err))
}

func NotFound(code, msg string) *Error {
	return New(http.StatusNotFound, code, fmt.Errorf("%w: %s", pkgerrors.ErrNotFound, msg))
}

func Unauthorized(msg string) *Error {
	return New(http.StatusUnauthorized, "unauthorized", fmt.Errorf("%w: %s", pkgerrors.ErrUnauthorized, msg))
}

func Conflict(code, msg string) *Error {
	return New(http.StatusConflict, code, fmt.Errorf("%w: %s", pkgerrors.ErrConflict, msg))
}

func Unavailable(code string, err error) *Error {
	return New(http.StatusServiceUnavailable, code, fmt.Errorf("%w: %w", pkgerrors.ErrUnavailable, err))
}

// From classifies err into an *Error. Explicit *Error values win, then the
// shared sentinels, then everything else is an internal failure.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) && ae.Status != 0 {
		return ae
	}
	switch {
	case errors.Is(err, pkgerrors.ErrUnauthorized):
		return New(http.StatusUnauthorized, "unauthorized", err)
	case errors.Is(err, pkgerrors.ErrNotFound):
		return New(http.StatusNotFound, "not_found", err)
	case errors.Is(err, pkgerrors.ErrInvalidArgument):
		return New(http.StatusBadRequest, "invalid_request", err)
	case errors.Is(err, pkgerrors.ErrConflict):
		return New(http.StatusConflict, "conflict", err)
	case errors.Is(err, pkgerrors.ErrUnavailable):
		return New(http.StatusServiceUnavailable, "unavailable", err)
	default:
		return New(http.StatusInternalServerError, "internal", err)
	}
}
