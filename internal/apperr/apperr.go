// Package apperr defines the error kinds shared by both facade implementations
// and the HTTP status codes they travel as.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrValidation         = errors.New("validation error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrPayloadTooLarge    = errors.New("payload too large")
	ErrAlreadyRegistered  = errors.New("already registered")
	ErrUnknown            = errors.New("unknown error")
)

// Error carries a kind and a message meant for the user.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Kind }

// New returns an error of the given kind with a formatted message.
func New(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) error { return New(ErrValidation, format, args...) }
func Forbidden(format string, args ...any) error  { return New(ErrForbidden, format, args...) }
func NotFound(format string, args ...any) error   { return New(ErrNotFound, format, args...) }
func Conflict(format string, args ...any) error   { return New(ErrConflict, format, args...) }

var kinds = []error{
	ErrValidation,
	ErrInvalidCredentials,
	ErrUnauthenticated,
	ErrForbidden,
	ErrNotFound,
	ErrConflict,
	ErrPayloadTooLarge,
	ErrAlreadyRegistered,
}

// KindOf returns the sentinel kind of err, or ErrUnknown.
func KindOf(err error) error {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return ErrUnknown
}

// Message returns the user-facing text of err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	return err.Error()
}

// Status maps an error to the HTTP status the backend answers with.
func Status(err error) int {
	switch KindOf(err) {
	case ErrValidation:
		return http.StatusBadRequest
	case ErrInvalidCredentials, ErrUnauthenticated:
		return http.StatusUnauthorized
	case ErrForbidden:
		return http.StatusForbidden
	case ErrNotFound:
		return http.StatusNotFound
	case ErrConflict, ErrAlreadyRegistered:
		return http.StatusConflict
	case ErrPayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusInternalServerError
}

// FromStatus rebuilds an error from a non-2xx response.
func FromStatus(status int, detail string) error {
	if detail == "" {
		detail = http.StatusText(status)
	}
	var kind error
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		kind = ErrValidation
	case http.StatusUnauthorized:
		kind = ErrUnauthenticated
	case http.StatusForbidden:
		kind = ErrForbidden
	case http.StatusNotFound:
		kind = ErrNotFound
	case http.StatusConflict:
		kind = ErrConflict
	case http.StatusRequestEntityTooLarge:
		kind = ErrPayloadTooLarge
	default:
		kind = ErrUnknown
	}
	if (status == http.StatusBadRequest || status == http.StatusConflict) &&
		strings.Contains(strings.ToLower(detail), "already registered") {
		kind = ErrAlreadyRegistered
	}
	return &Error{Kind: kind, Message: detail}
}
