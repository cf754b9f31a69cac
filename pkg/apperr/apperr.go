// Package apperr defines the status-tagged errors surfaced by the API.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Status is the stable status tag attached to every API error.
type Status string

const (
	Unauthenticated    Status = "UNAUTHENTICATED"
	InvalidArgument    Status = "INVALID_ARGUMENT"
	NotFound           Status = "NOT_FOUND"
	FailedPrecondition Status = "FAILED_PRECONDITION"
	ResourceExhausted  Status = "RESOURCE_EXHAUSTED"
	InvalidSignature   Status = "INVALID_SIGNATURE"
	Internal           Status = "INTERNAL"
)

// Error is an error with a stable status tag and a short human message.
type Error struct {
	Status  Status
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Status, e.Message)
}

// New creates an error with the given status tag.
func New(status Status, format string, args ...interface{}) *Error {
	return &Error{Status: status, Message: fmt.Sprintf(format, args...)}
}

// From extracts an *Error from err. Unknown errors are wrapped as Internal
// with a generic message so store-level details never leak to the caller.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return &Error{Status: Internal, Message: "Something went wrong"}
}

// HTTPStatus maps a status tag to its HTTP response code.
func (s Status) HTTPStatus() int {
	switch s {
	case Unauthenticated:
		return http.StatusUnauthorized
	case InvalidArgument, FailedPrecondition, InvalidSignature:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case ResourceExhausted:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
