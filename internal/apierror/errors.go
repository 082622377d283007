// Package apierror defines the errors that cross the HTTP boundary.
//
// Every failure a client can observe is an *APIError carrying the HTTP status,
// a stable machine-readable code and a human-readable message. Internal causes
// are kept in Cause and are never rendered except as development diagnostics.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is an error with a transport status and a stable code.
type APIError struct {
	HTTPCode int
	Code     string
	Message  string
	Cause    error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *APIError) Unwrap() error {
	return e.Cause
}

// As extracts an *APIError from err's chain.
func As(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func newErr(status int, code, msg string) *APIError {
	return &APIError{HTTPCode: status, Code: code, Message: msg}
}

// Authentication failures.

func NewErrMissingAuthorizationToken() *APIError {
	return newErr(http.StatusUnauthorized, "missing_token", "authentication token is required")
}

func NewErrInvalidAuthorizationToken() *APIError {
	return newErr(http.StatusUnauthorized, "invalid_token", "invalid token, please log in again")
}

func NewErrTokenExpired() *APIError {
	return newErr(http.StatusUnauthorized, "token_expired", "session expired, please log in again")
}

func NewErrTokenRevoked() *APIError {
	return newErr(http.StatusUnauthorized, "token_revoked", "session ended, please log in again")
}

func NewErrInvalidCredentials() *APIError {
	return newErr(http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
}

// Authorization failures.

func NewErrForbidden() *APIError {
	return newErr(http.StatusForbidden, "forbidden", "administrator privileges required")
}

func NewErrInvalidCode() *APIError {
	return newErr(http.StatusForbidden, "invalid_code", "invalid secret code")
}

// Lookup failures.

func NewErrUserNotFound() *APIError {
	return newErr(http.StatusNotFound, "user_not_found", "user not found")
}

func NewErrProductNotFound() *APIError {
	return newErr(http.StatusNotFound, "product_not_found", "product not found")
}

// Validation failures.

func NewErrMissingCode() *APIError {
	return newErr(http.StatusBadRequest, "missing_code", "secret code is required")
}

func NewErrValidation(msg string) *APIError {
	return newErr(http.StatusBadRequest, "validation_failed", msg)
}

func NewErrValidationf(format string, args ...any) *APIError {
	return NewErrValidation(fmt.Sprintf(format, args...))
}

func NewErrEmailIsTaken(email string) *APIError {
	return newErr(http.StatusBadRequest, "email_taken", fmt.Sprintf("email %s is already taken", email))
}

func NewErrIncorrectPassword() *APIError {
	return newErr(http.StatusBadRequest, "incorrect_password", "current password is incorrect")
}

func NewErrInvalidJSON(cause error) *APIError {
	e := newErr(http.StatusBadRequest, "invalid_json", "request body is not valid JSON")
	e.Cause = cause
	return e
}

// Server-side failures.

func NewErrStorageUnavailable() *APIError {
	return newErr(http.StatusServiceUnavailable, "storage_unavailable", "image storage is not configured")
}

func NewErrInternalServerError(cause error) *APIError {
	e := newErr(http.StatusInternalServerError, "internal_error", "internal server error")
	e.Cause = cause
	return e
}
