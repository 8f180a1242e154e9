// Package error defines domain-specific errors for the ledger feed service.
package error

import "errors"

// Authentication domain errors.
var (
	// ErrMissingAPIKey is returned when a request arrives without an API key.
	ErrMissingAPIKey = errors.New("missing api key")

	// ErrInvalidAPIKey is returned when the presented API key does not match.
	ErrInvalidAPIKey = errors.New("invalid api key")
)

// AuthErrorCode defines error codes for authentication errors.
// Format: AUTH-XXYYYY where XX is category and YYYY is specific error.
type AuthErrorCode string

const (
	// API key errors (01XXXX)
	ErrCodeMissingAPIKey AuthErrorCode = "AUTH-010001"
	ErrCodeInvalidAPIKey AuthErrorCode = "AUTH-010002"

	// Throttling errors (02XXXX)
	ErrCodeRateLimited AuthErrorCode = "AUTH-020001"
)

// AuthError represents an authentication error with code and message.
type AuthError struct {
	Code    AuthErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AuthError) Unwrap() error {
	return e.Err
}

// NewAuthError creates a new AuthError with the given code and message.
func NewAuthError(code AuthErrorCode, message string, err error) *AuthError {
	return &AuthError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
