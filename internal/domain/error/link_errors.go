// Package error defines domain-specific errors for the ledger feed service.
package error

import "errors"

// Account link domain errors.
var (
	// ErrAccountLinkNotFound is returned when an account link is not found in the system.
	ErrAccountLinkNotFound = errors.New("account link not found")

	// ErrBankAccountAlreadyLinked is returned when the bank account is already linked
	// to a ledger account.
	ErrBankAccountAlreadyLinked = errors.New("bank account already linked")

	// ErrLedgerAccountAlreadyLinked is returned when the ledger account already has a link.
	ErrLedgerAccountAlreadyLinked = errors.New("ledger account already linked")

	// ErrInvalidDateBasis is returned when the date basis is not bookingDate or valueDate.
	ErrInvalidDateBasis = errors.New("invalid date basis")

	// ErrLinkAccountNotFound is returned when the ledger account for a link is not found.
	ErrLinkAccountNotFound = errors.New("ledger account for link not found")

	// ErrBankAccountNotInRequisition is returned when the bank account is not among the
	// accounts the requisition unlocked.
	ErrBankAccountNotInRequisition = errors.New("bank account not part of requisition")

	// ErrSyncDisabled is returned when a sync is requested for a link with syncing disabled.
	ErrSyncDisabled = errors.New("sync disabled for this link")
)

// LinkErrorCode defines error codes for account link errors.
// Format: LNK-XXYYYY where XX is category and YYYY is specific error.
type LinkErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeAccountLinkNotFound         LinkErrorCode = "LNK-010001"
	ErrCodeBankAccountAlreadyLinked    LinkErrorCode = "LNK-010002"
	ErrCodeLedgerAccountAlreadyLinked  LinkErrorCode = "LNK-010003"
	ErrCodeInvalidDateBasis            LinkErrorCode = "LNK-010004"
	ErrCodeLinkAccountNotFound         LinkErrorCode = "LNK-010005"
	ErrCodeBankAccountNotInRequisition LinkErrorCode = "LNK-010006"
	ErrCodeSyncDisabled                LinkErrorCode = "LNK-010007"
)

// LinkError represents an account link error with code and message.
type LinkError struct {
	Code    LinkErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *LinkError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *LinkError) Unwrap() error {
	return e.Err
}

// NewLinkError creates a new LinkError with the given code and message.
func NewLinkError(code LinkErrorCode, message string, err error) *LinkError {
	return &LinkError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
