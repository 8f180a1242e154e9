// Package error defines domain-specific errors for the ledger feed service.
package error

import "errors"

// Account domain errors.
var (
	// ErrAccountNotFound is returned when an account is not found in the system.
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountNameExists is returned when an account with the same full name already exists.
	ErrAccountNameExists = errors.New("account name already exists")

	// ErrInvalidAccountType is returned when the account type is invalid.
	ErrInvalidAccountType = errors.New("invalid account type")

	// ErrInvalidAccountName is returned when the account name is empty or malformed.
	ErrInvalidAccountName = errors.New("invalid account name")

	// ErrParentAccountNotFound is returned when the specified parent account is not found.
	ErrParentAccountNotFound = errors.New("parent account not found")

	// ErrAccountCurrencyMismatch is returned when an operation mixes currencies on one account.
	ErrAccountCurrencyMismatch = errors.New("account currency mismatch")

	// ErrAccountCurrencyRequired is returned when a top-level account is created
	// without a currency.
	ErrAccountCurrencyRequired = errors.New("account currency required")

	// ErrAccountHasChildren is returned when deleting an account that still has children.
	ErrAccountHasChildren = errors.New("account has child accounts")

	// ErrAccountHasSplits is returned when deleting an account that still has splits posted to it.
	ErrAccountHasSplits = errors.New("account has splits posted to it")
)

// AccountErrorCode defines error codes for account errors.
// Format: ACC-XXYYYY where XX is category and YYYY is specific error.
type AccountErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeAccountNotFound         AccountErrorCode = "ACC-010001"
	ErrCodeAccountNameExists       AccountErrorCode = "ACC-010002"
	ErrCodeInvalidAccountType      AccountErrorCode = "ACC-010003"
	ErrCodeInvalidAccountName      AccountErrorCode = "ACC-010004"
	ErrCodeParentAccountNotFound   AccountErrorCode = "ACC-010005"
	ErrCodeAccountCurrencyMismatch AccountErrorCode = "ACC-010006"
	ErrCodeAccountHasChildren      AccountErrorCode = "ACC-010007"
	ErrCodeAccountHasSplits        AccountErrorCode = "ACC-010008"
	ErrCodeAccountCurrencyRequired AccountErrorCode = "ACC-010009"
)

// AccountError represents an account error with code and message.
type AccountError struct {
	Code    AccountErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AccountError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AccountError) Unwrap() error {
	return e.Err
}

// NewAccountError creates a new AccountError with the given code and message.
func NewAccountError(code AccountErrorCode, message string, err error) *AccountError {
	return &AccountError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
