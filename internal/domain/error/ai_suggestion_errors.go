// Package error defines domain-specific errors for the ledger feed service.
package error

import "errors"

// Offset suggestion domain errors.
var (
	// ErrAISuggestionNotFound is returned when a suggestion is not found in the system.
	ErrAISuggestionNotFound = errors.New("suggestion not found")

	// ErrAIAlreadyProcessing is returned when attempting to start a suggestion run while one is in progress.
	ErrAIAlreadyProcessing = errors.New("suggestion run already in progress")

	// ErrAIPatternConflict is returned when the suggested pattern conflicts with an existing payee rule.
	ErrAIPatternConflict = errors.New("pattern conflicts with existing rule")

	// ErrAINoImbalance is returned when there are no imbalance transactions to process.
	ErrAINoImbalance = errors.New("no imbalance transactions found")

	// ErrAIRetryFailed is returned when retrying a suggestion fails.
	ErrAIRetryFailed = errors.New("suggestion retry failed")

	// ErrAIServiceError is returned when the suggestion service encounters an error.
	ErrAIServiceError = errors.New("suggestion service error")

	// ErrAIRateLimited is returned when the suggestion service rate limits requests.
	ErrAIRateLimited = errors.New("suggestion service rate limited")

	// ErrAIInvalidMatchType is returned when the match type is invalid.
	ErrAIInvalidMatchType = errors.New("invalid match type")

	// ErrAIEmptyKeyword is returned when the match keyword is empty.
	ErrAIEmptyKeyword = errors.New("match keyword cannot be empty")

	// ErrAISuggestionAlreadyProcessed is returned when trying to process an already processed suggestion.
	ErrAISuggestionAlreadyProcessed = errors.New("suggestion has already been processed")

	// ErrAIInvalidAction is returned when an invalid action is provided.
	ErrAIInvalidAction = errors.New("invalid action")
)

// AISuggestionErrorCode defines error codes for offset suggestion errors.
// Format: AIC-XXYYYY where XX is category and YYYY is specific error.
type AISuggestionErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeAISuggestionNotFound         AISuggestionErrorCode = "AIC-010001"
	ErrCodeAIAlreadyProcessing          AISuggestionErrorCode = "AIC-010002"
	ErrCodeAINoImbalance                AISuggestionErrorCode = "AIC-010003"
	ErrCodeAIPatternConflict            AISuggestionErrorCode = "AIC-010004"
	ErrCodeAIInvalidMatchType           AISuggestionErrorCode = "AIC-010005"
	ErrCodeAIEmptyKeyword               AISuggestionErrorCode = "AIC-010006"
	ErrCodeAISuggestionAlreadyProcessed AISuggestionErrorCode = "AIC-010007"
	ErrCodeAIInvalidAction              AISuggestionErrorCode = "AIC-010008"

	// External service errors (02XXXX)
	ErrCodeAIServiceError  AISuggestionErrorCode = "AIC-020001"
	ErrCodeAIRateLimited   AISuggestionErrorCode = "AIC-020002"
	ErrCodeAIRetryFailed   AISuggestionErrorCode = "AIC-020003"
	ErrCodeAIInvalidConfig AISuggestionErrorCode = "AIC-020004"
)

// AISuggestionError represents an offset suggestion error with code and message.
type AISuggestionError struct {
	Code    AISuggestionErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AISuggestionError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AISuggestionError) Unwrap() error {
	return e.Err
}

// NewAISuggestionError creates a new AISuggestionError with the given code and message.
func NewAISuggestionError(code AISuggestionErrorCode, message string, err error) *AISuggestionError {
	return &AISuggestionError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
