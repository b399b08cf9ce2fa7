package services

import (
	"errors"
	"net/http"
)

// Error kinds. Match them with errors.Is; the HTTP status of each kind is
// fixed by Error.HTTPStatus.
var (
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNotFound           = errors.New("not found")
	ErrInvalidTransition  = errors.New("invalid status transition")
)

// Error is a client-facing failure: Msg is sent as the response body and
// Kind selects the status code.
type Error struct {
	Kind error
	Msg  string
}

func fail(kind error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

// HTTPStatus implements response.StatusError.
func (e *Error) HTTPStatus() int {
	switch {
	case errors.Is(e.Kind, ErrValidation),
		errors.Is(e.Kind, ErrConflict),
		errors.Is(e.Kind, ErrInvalidCredentials):
		return http.StatusBadRequest
	case errors.Is(e.Kind, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(e.Kind, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(e.Kind, ErrInvalidTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
