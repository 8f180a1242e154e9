// Package error defines domain-specific errors for the ledger feed service.
package error

import "errors"

// Sync domain errors.
var (
	// ErrSyncRunNotFound is returned when a sync run is not found in the system.
	ErrSyncRunNotFound = errors.New("sync run not found")

	// ErrSyncAlreadyRunning is returned when a sync is requested while another
	// holds the lock for the same link.
	ErrSyncAlreadyRunning = errors.New("sync already running for this link")

	// ErrNothingToSync is returned when a sync is requested and no enabled
	// links exist.
	ErrNothingToSync = errors.New("no enabled account links to sync")

	// ErrAmountConflict is returned when a feed item references a split whose
	// amount disagrees with the feed.
	ErrAmountConflict = errors.New("referenced split amount disagrees with feed")

	// ErrCurrencyMismatch is returned when the feed reports a currency other
	// than the linked ledger account's.
	ErrCurrencyMismatch = errors.New("feed currency does not match linked account")

	// ErrDiscrepancyNotFound is returned when a discrepancy is not found.
	ErrDiscrepancyNotFound = errors.New("discrepancy not found")

	// ErrDiscrepancyClosed is returned when acting on an already closed discrepancy.
	ErrDiscrepancyClosed = errors.New("discrepancy already closed")

	// ErrInvalidDiscrepancyStatus is returned when a status filter is not one
	// of open, resolved or ignored.
	ErrInvalidDiscrepancyStatus = errors.New("invalid discrepancy status")
)

// SyncErrorCode defines error codes for sync errors.
// Format: SYNC-XXYYYY where XX is category and YYYY is specific error.
type SyncErrorCode string

const (
	// Scheduling errors (01XXXX)
	ErrCodeSyncRunNotFound    SyncErrorCode = "SYNC-010001"
	ErrCodeSyncAlreadyRunning SyncErrorCode = "SYNC-010002"
	ErrCodeNothingToSync      SyncErrorCode = "SYNC-010003"

	// Matching errors (02XXXX)
	ErrCodeAmountConflict   SyncErrorCode = "SYNC-020001"
	ErrCodeCurrencyMismatch SyncErrorCode = "SYNC-020002"

	// Discrepancy errors (03XXXX)
	ErrCodeDiscrepancyNotFound      SyncErrorCode = "SYNC-030001"
	ErrCodeDiscrepancyClosed        SyncErrorCode = "SYNC-030002"
	ErrCodeInvalidDiscrepancyStatus SyncErrorCode = "SYNC-030003"
)

// SyncError represents a sync error with code and message.
type SyncError struct {
	Code    SyncErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *SyncError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *SyncError) Unwrap() error {
	return e.Err
}

// NewSyncError creates a new SyncError with the given code and message.
func NewSyncError(code SyncErrorCode, message string, err error) *SyncError {
	return &SyncError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
