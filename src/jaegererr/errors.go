// Package jaegererr defines the error type shared by every layer of the tracker.
//
// Errors carry a Code that the HTTP surface turns into a status, a Msg that is
// safe to show to the caller, and optionally the underlying Err which is only
// ever logged.
package jaegererr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const (
	EInternal         = "internal error"
	ENotFound         = "not found"
	EConflict         = "conflict"
	EInvalid          = "invalid"
	EUnauthorized     = "unauthorized"
	EForbidden        = "forbidden"
	ETooManyRequests  = "too many requests"
	EMethodNotAllowed = "method not allowed"
	EUnavailable      = "unavailable"
)

// GenericMessage is what callers see for anything coded EInternal.
const GenericMessage = "An unexpected error occurred. Please try again later."

// Error is the error struct of the tracker.
//
// To create a simple error,
//
//	&Error{Code: ENotFound, Msg: "job application with ID 4 was not found"}
//
// To show where an error happened, add Op. To keep the cause for the logs, add Err.
type Error struct {
	Code string
	Msg  string
	Op   string
	Err  error
}

// Error implements the error interface by writing out the recursive messages.
func (e *Error) Error() string {
	if e.Msg != "" && e.Err != nil {
		var b strings.Builder
		b.WriteString(e.Msg)
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
		return b.String()
	} else if e.Msg != "" {
		return e.Msg
	} else if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("<%s>", e.Code)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorCode returns the code of the first *Error in the chain. Errors that
// never went through this package are internal.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if !errors.As(err, &e) {
		return EInternal
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Err != nil {
		return ErrorCode(e.Err)
	}
	return EInternal
}

// ErrorMessage returns the caller-facing message for err. Internal errors
// always collapse to GenericMessage.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	code := ErrorCode(err)
	if code == EInternal {
		return GenericMessage
	}
	var e *Error
	if errors.As(err, &e) && e.Msg != "" {
		return e.Msg
	}
	return code
}

// HTTPStatus maps an error code onto the status code the API answers with.
func HTTPStatus(code string) int {
	if s, ok := statusCodes[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

var statusCodes = map[string]int{
	EInternal:         http.StatusInternalServerError,
	ENotFound:         http.StatusNotFound,
	EConflict:         http.StatusConflict,
	EInvalid:          http.StatusBadRequest,
	EUnauthorized:     http.StatusUnauthorized,
	EForbidden:        http.StatusForbidden,
	ETooManyRequests:  http.StatusTooManyRequests,
	EMethodNotAllowed: http.StatusMethodNotAllowed,
	EUnavailable:      http.StatusServiceUnavailable,
}

func NotFound(format string, args ...any) *Error {
	return &Error{Code: ENotFound, Msg: fmt.Sprintf(format, args...)}
}

func Invalid(format string, args ...any) *Error {
	return &Error{Code: EInvalid, Msg: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) *Error {
	return &Error{Code: EConflict, Msg: fmt.Sprintf(format, args...)}
}

func Unauthorized(msg string) *Error {
	return &Error{Code: EUnauthorized, Msg: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Code: EForbidden, Msg: msg}
}

// Internal wraps err so it reaches the logs but not the caller.
func Internal(op string, err error) *Error {
	return &Error{Code: EInternal, Op: op, Err: err}
}

// Is reports whether err carries the given code.
func Is(err error, code string) bool {
	return err != nil && ErrorCode(err) == code
}
