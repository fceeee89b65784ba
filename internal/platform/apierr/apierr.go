package apierr

import (
	"fmt"
	"net/http"
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

// Kind constructors. Every user-facing failure in the hunt engine is
// exactly one of these; storage errors are wrapped as Internal and the
// cause kept for diagnostics, never surfaced as the primary signal.

func Unauthenticated(code string, err error) *Error {
	return New(http.StatusUnauthorized, code, err)
}

func InvalidArgument(code string, err error) *Error {
	return New(http.StatusBadRequest, code, err)
}

func NotFound(code string, err error) *Error {
	return New(http.StatusNotFound, code, err)
}

func PermissionDenied(code string, err error) *Error {
	return New(http.StatusForbidden, code, err)
}

func FailedPrecondition(code string, err error) *Error {
	return New(http.StatusConflict, code, err)
}

func Internal(code string, err error) *Error {
	return New(http.StatusInternalServerError, code, err)
}
