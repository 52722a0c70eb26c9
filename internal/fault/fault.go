// internal/fault/fault.go
package fault

import (
	"errors"
	"net/http"
)

// Error codes for the business-level failure taxonomy.
const (
	CodeValidation  = "VALIDATION"
	CodeNotFound    = "NOT_FOUND"
	CodeConflict    = "CONFLICT"
	CodePersistence = "PERSISTENCE"
	CodeGateway     = "GATEWAY"
)

// Error is a business failure with a stable code and a message meant for the caller.
// The message is the whole contract: services never let raw store or gateway errors
// escape to the surface.
type Error struct {
	Code    string
	Message string
	cause   error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.cause }

// Validation marks malformed input, rejected before any mutation.
func Validation(msg string) error {
	return &Error{Code: CodeValidation, Message: msg}
}

// NotFound marks a missing book or loan.
func NotFound(msg string) error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// Conflict marks a capacity or limit violation.
func Conflict(msg string) error {
	return &Error{Code: CodeConflict, Message: msg}
}

// Persistence wraps a failed store operation behind a caller-safe message.
func Persistence(msg string, cause error) error {
	return &Error{Code: CodePersistence, Message: msg, cause: cause}
}

// Gateway wraps a failed or malformed external payment call.
func Gateway(msg string, cause error) error {
	return &Error{Code: CodeGateway, Message: msg, cause: cause}
}

// CodeOf extracts the failure code, or empty string for non-taxonomy errors.
func CodeOf(err error) string {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return ""
}

// HTTPStatus maps a failure code to a response status.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeGateway:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
