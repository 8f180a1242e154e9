// Package error defines domain-specific errors for the ledger feed service.
package error

import "errors"

// PayeeRule domain errors.
var (
	// ErrPayeeRuleNotFound is returned when a payee rule is not found in the system.
	ErrPayeeRuleNotFound = errors.New("payee rule not found")

	// ErrPayeeRulePatternExists is returned when attempting to create a rule with an existing pattern.
	ErrPayeeRulePatternExists = errors.New("payee rule pattern already exists")

	// ErrInvalidPattern is returned when the regex pattern is invalid.
	ErrInvalidPattern = errors.New("invalid regex pattern")

	// ErrPatternTooLong is returned when the pattern exceeds the maximum length.
	ErrPatternTooLong = errors.New("pattern too long")

	// ErrPayeeRuleMissingFields is returned when required fields are missing.
	ErrPayeeRuleMissingFields = errors.New("missing required fields")

	// ErrInvalidPriority is returned when the priority value is invalid.
	ErrInvalidPriority = errors.New("invalid priority value")

	// ErrAccountNotFoundForRule is returned when the offsetting account is not found.
	ErrAccountNotFoundForRule = errors.New("offsetting account not found")
)

// PayeeRuleErrorCode defines error codes for payee rule errors.
// Format: PRL-XXYYYY where XX is category and YYYY is specific error.
type PayeeRuleErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodePayeeRuleNotFound      PayeeRuleErrorCode = "PRL-010001"
	ErrCodePayeeRulePatternExists PayeeRuleErrorCode = "PRL-010002"
	ErrCodeInvalidPattern         PayeeRuleErrorCode = "PRL-010003"
	ErrCodePatternTooLong         PayeeRuleErrorCode = "PRL-010004"
	ErrCodeMissingRuleFields      PayeeRuleErrorCode = "PRL-010005"
	ErrCodeInvalidPriority        PayeeRuleErrorCode = "PRL-010006"
	ErrCodeAccountNotFoundForRule PayeeRuleErrorCode = "PRL-010007"
)

// PayeeRuleError represents a payee rule error with code and message.
type PayeeRuleError struct {
	Code    PayeeRuleErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *PayeeRuleError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *PayeeRuleError) Unwrap() error {
	return e.Err
}

// NewPayeeRuleError creates a new PayeeRuleError with the given code and message.
func NewPayeeRuleError(code PayeeRuleErrorCode, message string, err error) *PayeeRuleError {
	return &PayeeRuleError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
