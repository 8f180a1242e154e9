// Package error defines domain-specific errors for the ledger feed service.
package error

import "errors"

// Ledger transaction domain errors.
var (
	// ErrTransactionNotFound is returned when a transaction is not found in the system.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrSplitNotFound is returned when a split is not found in the system.
	ErrSplitNotFound = errors.New("split not found")

	// ErrInvalidTransactionDate is returned when the transaction date is invalid.
	ErrInvalidTransactionDate = errors.New("invalid transaction date")

	// ErrTransactionNeedsSplits is returned when a transaction is submitted without splits.
	ErrTransactionNeedsSplits = errors.New("transaction needs at least one split")

	// ErrInvalidSplitAmount is returned when a split amount cannot be parsed.
	ErrInvalidSplitAmount = errors.New("invalid split amount")

	// ErrSplitAccountNotFound is returned when a split references an unknown account.
	ErrSplitAccountNotFound = errors.New("split account not found")

	// ErrDescriptionTooLong is returned when the transaction description exceeds the maximum length.
	ErrDescriptionTooLong = errors.New("description too long")

	// ErrMemoTooLong is returned when a split memo exceeds the maximum length.
	ErrMemoTooLong = errors.New("memo too long")

	// ErrInvalidReconcileState is returned when a reconcile state is not one of n, c or y.
	ErrInvalidReconcileState = errors.New("invalid reconcile state")

	// ErrSplitReconciled is returned when modifying a split that is already reconciled.
	ErrSplitReconciled = errors.New("split is reconciled")

	// ErrExternalIDTaken is returned when an external reference is already carried by
	// another split on the same account.
	ErrExternalIDTaken = errors.New("external reference already in use on this account")

	// ErrSplitAlreadyLinked is returned when linking a split that already carries
	// a bank feed reference.
	ErrSplitAlreadyLinked = errors.New("split already linked to a feed item")

	// ErrSplitNotLinked is returned when unlinking a split that carries no
	// bank feed reference.
	ErrSplitNotLinked = errors.New("split is not linked to a feed item")

	// ErrMissingTransactionField is returned when a required field is absent.
	ErrMissingTransactionField = errors.New("missing required field")
)

// TransactionErrorCode defines error codes for transaction errors.
// Format: TXN-XXYYYY where XX is category and YYYY is specific error.
type TransactionErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeTransactionNotFound     TransactionErrorCode = "TXN-010001"
	ErrCodeSplitNotFound           TransactionErrorCode = "TXN-010002"
	ErrCodeInvalidTransactionDate  TransactionErrorCode = "TXN-010003"
	ErrCodeTransactionNeedsSplits  TransactionErrorCode = "TXN-010004"
	ErrCodeInvalidSplitAmount      TransactionErrorCode = "TXN-010005"
	ErrCodeSplitAccountNotFound    TransactionErrorCode = "TXN-010006"
	ErrCodeDescriptionTooLong      TransactionErrorCode = "TXN-010007"
	ErrCodeMemoTooLong             TransactionErrorCode = "TXN-010008"
	ErrCodeInvalidReconcileState   TransactionErrorCode = "TXN-010009"
	ErrCodeSplitReconciled         TransactionErrorCode = "TXN-010010"
	ErrCodeExternalIDTaken         TransactionErrorCode = "TXN-010011"
	ErrCodeMissingTransactionField TransactionErrorCode = "TXN-010012"
	ErrCodeSplitAlreadyLinked      TransactionErrorCode = "TXN-010013"
	ErrCodeSplitNotLinked          TransactionErrorCode = "TXN-010014"
)

// TransactionError represents a transaction error with code and message.
type TransactionError struct {
	Code    TransactionErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *TransactionError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *TransactionError) Unwrap() error {
	return e.Err
}

// NewTransactionError creates a new TransactionError with the given code and message.
func NewTransactionError(code TransactionErrorCode, message string, err error) *TransactionError {
	return &TransactionError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
