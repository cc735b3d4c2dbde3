// internal/errors/mapper.go
package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// Kind classifies an error for the transport layer.
type Kind string

const (
	KindInvalidInput Kind = "invalid_input"
	KindForbidden    Kind = "forbidden"
	KindUnauthorized Kind = "unauthorized"
	KindNotFound     Kind = "not_found"
	KindInternal     Kind = "internal"
)

// StatusClientClosedRequest is the non-standard 499 used when the caller went away.
const StatusClientClosedRequest = 499

// Error is a kinded service error.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Kind so errors.Is(err, ErrForbidden) works on any forbidden error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Message == "" && t.Kind == e.Kind
}

// Sentinels for errors.Is checks.
var (
	ErrInvalidInput = &Error{Kind: KindInvalidInput}
	ErrForbidden    = &Error{Kind: KindForbidden}
	ErrUnauthorized = &Error{Kind: KindUnauthorized}
	ErrNotFound     = &Error{Kind: KindNotFound}
)

// InvalidInput creates an InvalidInput error.
// Use this in service layer for bad input validation.
func InvalidInput(msg string) error {
	return &Error{Kind: KindInvalidInput, Message: msg}
}

func Forbidden(msg string) error {
	return &Error{Kind: KindForbidden, Message: msg}
}

func Unauthorized(msg string) error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

func NotFound(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// KindOf reports the classification of err. Unclassified errors are internal.
func KindOf(err error) Kind {
	var e *Error
	switch {
	case err == nil:
		return ""
	case errors.As(err, &e):
		return e.Kind
	case errors.Is(err, gorm.ErrRecordNotFound):
		return KindNotFound
	default:
		return KindInternal
	}
}

// Body is the JSON shape of every error response.
type Body struct {
	Error   Kind   `json:"error"`
	Message string `json:"message,omitempty"`
}

// Map converts service/repo/infra errors into HTTP errors.
// Keeps handlers clean by centralizing error mapping.
func Map(err error) *echo.HTTPError {
	if err == nil {
		return nil
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}

	var e *Error
	if errors.As(err, &e) {
		status := http.StatusInternalServerError
		switch e.Kind {
		case KindInvalidInput:
			status = http.StatusBadRequest
		case KindForbidden:
			status = http.StatusForbidden
		case KindUnauthorized:
			status = http.StatusUnauthorized
		case KindNotFound:
			status = http.StatusNotFound
		}
		return echo.NewHTTPError(status, Body{Error: e.Kind, Message: e.Message}).SetInternal(err)
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return echo.NewHTTPError(http.StatusNotFound, Body{Error: KindNotFound, Message: "record not found"}).SetInternal(err)

	case errors.Is(err, context.DeadlineExceeded):
		return echo.NewHTTPError(http.StatusGatewayTimeout, Body{Error: KindInternal, Message: "request timed out"}).SetInternal(err)

	case errors.Is(err, context.Canceled):
		return echo.NewHTTPError(StatusClientClosedRequest, Body{Error: KindInternal, Message: "request was canceled"}).SetInternal(err)

	default:
		// details stay in logs
		return echo.NewHTTPError(http.StatusInternalServerError, Body{Error: KindInternal}).SetInternal(err)
	}
}
