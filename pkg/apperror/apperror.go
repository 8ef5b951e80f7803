package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies an error the way the client-facing API reports it.
type Code int

const (
	CodeUnknown Code = iota
	CodeUnauthenticated
	CodePermissionDenied
	CodeInvalidArgument
	CodeNotFound
	CodeAlreadyExists
	CodeFailedPrecondition
	CodeInternal
)

// String returns the wire representation of the code. Existing clients
// parse these strings, so they must stay stable.
func (c Code) String() string {
	switch c {
	case CodeUnauthenticated:
		return "unauthenticated"
	case CodePermissionDenied:
		return "permission-denied"
	case CodeInvalidArgument:
		return "invalid-argument"
	case CodeNotFound:
		return "not-found"
	case CodeAlreadyExists:
		return "already-exists"
	case CodeFailedPrecondition:
		return "failed-precondition"
	case CodeInternal:
		return "internal"
	}
	return "unknown"
}

func (c Code) HTTPStatus() int {
	switch c {
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodePermissionDenied:
		return http.StatusForbidden
	case CodeInvalidArgument:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeAlreadyExists:
		return http.StatusConflict
	case CodeFailedPrecondition:
		return http.StatusPreconditionFailed
	}
	return http.StatusInternalServerError
}

// Error carries a code and a client-safe message. The wrapped error holds
// the original downstream detail and is logged, never serialized.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Unauthenticated(message string) *Error {
	return &Error{Code: CodeUnauthenticated, Message: message}
}

func PermissionDenied(message string) *Error {
	return &Error{Code: CodePermissionDenied, Message: message}
}

func InvalidArgument(message string) *Error {
	return &Error{Code: CodeInvalidArgument, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

func AlreadyExists(message string) *Error {
	return &Error{Code: CodeAlreadyExists, Message: message}
}

func FailedPrecondition(message string) *Error {
	return &Error{Code: CodeFailedPrecondition, Message: message}
}

func Internal(message string, err error) *Error {
	return &Error{Code: CodeInternal, Message: message, Err: err}
}

// CodeOf extracts the code from an error chain. Anything that is not an
// *Error counts as internal.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// MessageOf returns the client-safe message for an error chain.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}
