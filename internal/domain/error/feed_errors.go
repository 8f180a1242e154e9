// Package error defines domain-specific errors for the ledger feed service.
package error

import "errors"

// Bank feed provider domain errors.
var (
	// ErrFeedUnauthorized is returned when the provider rejects the credentials.
	ErrFeedUnauthorized = errors.New("feed provider rejected credentials")

	// ErrFeedTokenExpired is returned when both access and refresh tokens are spent.
	ErrFeedTokenExpired = errors.New("feed tokens expired")

	// ErrFeedTokenNotFound is returned when no token pair has been stored yet.
	ErrFeedTokenNotFound = errors.New("feed tokens not found")

	// ErrFeedRateLimited is returned when the provider throttles the client.
	ErrFeedRateLimited = errors.New("feed provider rate limited the request")

	// ErrFeedUnavailable is returned when the provider cannot be reached or
	// answers with a server error.
	ErrFeedUnavailable = errors.New("feed provider unavailable")

	// ErrRequisitionNotFound is returned when a requisition is not found.
	ErrRequisitionNotFound = errors.New("requisition not found")

	// ErrRequisitionNotLinked is returned when accounts are requested from a
	// requisition the end user has not completed.
	ErrRequisitionNotLinked = errors.New("requisition not linked yet")

	// ErrInstitutionNotFound is returned when an institution is not found.
	ErrInstitutionNotFound = errors.New("institution not found")

	// ErrInvalidCountryCode is returned when an institution listing asks for a
	// malformed country code.
	ErrInvalidCountryCode = errors.New("invalid country code")

	// ErrNoUsableBalance is returned when none of the balance types the
	// provider reported can anchor a balance check.
	ErrNoUsableBalance = errors.New("no usable balance reported for account")

	// ErrFeedAccountNotFound is returned when the provider does not know the
	// requested bank account.
	ErrFeedAccountNotFound = errors.New("bank account not found at provider")

	// ErrFeedResponseMalformed is returned when a provider payload cannot be decoded.
	ErrFeedResponseMalformed = errors.New("malformed feed provider response")
)

// FeedErrorCode defines error codes for feed provider errors.
// Format: FEED-XXYYYY where XX is category and YYYY is specific error.
type FeedErrorCode string

const (
	// Authentication errors (01XXXX)
	ErrCodeFeedUnauthorized  FeedErrorCode = "FEED-010001"
	ErrCodeFeedTokenExpired  FeedErrorCode = "FEED-010002"
	ErrCodeFeedTokenNotFound FeedErrorCode = "FEED-010003"

	// Transport errors (02XXXX)
	ErrCodeFeedRateLimited       FeedErrorCode = "FEED-020001"
	ErrCodeFeedUnavailable       FeedErrorCode = "FEED-020002"
	ErrCodeFeedResponseMalformed FeedErrorCode = "FEED-020003"

	// Resource errors (03XXXX)
	ErrCodeRequisitionNotFound  FeedErrorCode = "FEED-030001"
	ErrCodeRequisitionNotLinked FeedErrorCode = "FEED-030002"
	ErrCodeInstitutionNotFound  FeedErrorCode = "FEED-030003"
	ErrCodeNoUsableBalance      FeedErrorCode = "FEED-030004"
	ErrCodeFeedAccountNotFound  FeedErrorCode = "FEED-030005"
	ErrCodeInvalidCountryCode   FeedErrorCode = "FEED-030006"
)

// FeedError represents a feed provider error with code and message.
type FeedError struct {
	Code    FeedErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *FeedError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *FeedError) Unwrap() error {
	return e.Err
}

// NewFeedError creates a new FeedError with the given code and message.
func NewFeedError(code FeedErrorCode, message string, err error) *FeedError {
	return &FeedError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
