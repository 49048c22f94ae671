// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the errors that services hand back to the HTTP layer.

An [AppError] pairs an HTTP status with a stable machine-readable code and a
message that is safe to show to users. Store and driver failures are wrapped
with [Internal] so that only a generic message leaves the process, while the
cause still reaches the logs.

Codes by family:

  - 400: VALIDATION_ERROR, INVALID_STATUS, MISSING_REMARK, ALREADY_VOTED, POLL_CLOSED
  - 401 and 403: UNAUTHORIZED, FORBIDDEN
  - 404 and 409: NOT_FOUND, CONFLICT, TERMINAL_STATE
  - 429 and 500: RATE_LIMITED, INTERNAL_ERROR
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// # Error Codes

const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeInvalidStatus = "INVALID_STATUS"
	CodeMissingRemark = "MISSING_REMARK"
	CodeAlreadyVoted  = "ALREADY_VOTED"
	CodePollClosed    = "POLL_CLOSED"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeForbidden     = "FORBIDDEN"
	CodeNotFound      = "NOT_FOUND"
	CodeConflict      = "CONFLICT"
	CodeTerminalState = "TERMINAL_STATE"
	CodeRateLimited   = "RATE_LIMITED"
	CodeInternal      = "INTERNAL_ERROR"
)

// AppError is the error type understood by package respond.
type AppError struct {
	Code       string       `json:"code"`
	Message    string       `json:"message"`
	HTTPStatus int          `json:"-"`
	Details    []FieldError `json:"details,omitempty"`

	// Cause is logged server side and only echoed to clients in development.
	Cause error `json:"-"`
}

// FieldError names one rejected request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string { return e.Message }

func (e *AppError) Unwrap() error { return e.Cause }

func newError(status int, code, message string, details ...FieldError) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// # 4xx

// NotFound reports a missing resource, e.g. NotFound("Issue") reads "Issue not found".
func NotFound(resource string) *AppError {
	return newError(http.StatusNotFound, CodeNotFound, resource+" not found")
}

// NoResults reports an empty lookup with msg used verbatim.
func NoResults(msg string) *AppError {
	return newError(http.StatusNotFound, CodeNotFound, msg)
}

func Unauthorized(msg string) *AppError {
	return newError(http.StatusUnauthorized, CodeUnauthorized, msg)
}

func Forbidden(msg string) *AppError {
	return newError(http.StatusForbidden, CodeForbidden, msg)
}

// Conflict reports a duplicate, usually a unique constraint violation.
func Conflict(msg string) *AppError {
	return newError(http.StatusConflict, CodeConflict, msg)
}

// ValidationError reports rejected input, optionally per field.
func ValidationError(msg string, details ...FieldError) *AppError {
	return newError(http.StatusBadRequest, CodeValidation, msg, details...)
}

// InvalidStatus reports a status outside allowed.
func InvalidStatus(resource string, allowed []string) *AppError {
	msg := fmt.Sprintf("Invalid %s status. Must be one of: %s", resource, strings.Join(allowed, ", "))
	return newError(http.StatusBadRequest, CodeInvalidStatus, msg, FieldError{Field: "status", Message: "Unsupported value"})
}

// MissingRemark reports a status change that requires admin remarks.
func MissingRemark(status string) *AppError {
	msg := fmt.Sprintf("Remarks are required when setting status to %s", status)
	return newError(http.StatusBadRequest, CodeMissingRemark, msg, FieldError{Field: "adminRemarks", Message: "This field is required"})
}

func AlreadyVoted() *AppError {
	return newError(http.StatusBadRequest, CodeAlreadyVoted, "You have already voted")
}

// PollClosed reports a ballot on an inactive or expired poll.
func PollClosed() *AppError {
	return newError(http.StatusBadRequest, CodePollClosed, "Poll is closed")
}

// TerminalState reports an attempt to leave a locked terminal status.
func TerminalState(resource, status string) *AppError {
	msg := fmt.Sprintf("%s is already %s and can no longer change status", resource, status)
	return newError(http.StatusConflict, CodeTerminalState, msg)
}

func RateLimited(retryAfterSeconds int) *AppError {
	msg := fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds)
	return newError(http.StatusTooManyRequests, CodeRateLimited, msg)
}

// # 5xx

// Internal hides cause behind a generic 500 message.
func Internal(cause error) *AppError {
	appErr := newError(http.StatusInternalServerError, CodeInternal, "An unexpected error occurred")
	appErr.Cause = cause
	return appErr
}

// # Inspection

// IsAppError reports whether err wraps an [*AppError].
func IsAppError(err error) bool {
	return As(err) != nil
}

// As returns the first [*AppError] in err's chain, or nil.
func As(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// HasCode reports whether err wraps an [*AppError] with code.
func HasCode(err error, code string) bool {
	appErr := As(err)
	return appErr != nil && appErr.Code == code
}
