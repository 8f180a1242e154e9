// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/ledgerfeed/backend/internal/domain/entity"
)

// TokenPair represents the provider token pair with absolute expiry times.
type TokenPair struct {
	Access           string
	AccessExpiresAt  time.Time
	Refresh          string
	RefreshExpiresAt time.Time
}

// ProviderRequisition represents a requisition as the provider reports it.
type ProviderRequisition struct {
	ID         string
	Status     string
	Link       string
	Reference  string
	AccountIDs []string
}

// BankFeedClient defines the interface for talking to the bank feed provider.
// Every call takes an access token obtained from the FeedTokenManager.
type BankFeedClient interface {
	// ObtainTokens exchanges the configured secrets for a fresh token pair.
	ObtainTokens(ctx context.Context) (*TokenPair, error)

	// RefreshAccessToken mints a new access token from a refresh token.
	RefreshAccessToken(ctx context.Context, refresh string) (string, time.Time, error)

	// ListInstitutions retrieves the institutions available in a country.
	ListInstitutions(ctx context.Context, accessToken, countryCode string) ([]*entity.Institution, error)

	// CreateRequisition starts a consent flow for an institution and returns
	// the provider's requisition with the end-user authorisation link.
	CreateRequisition(ctx context.Context, accessToken, institutionID, redirectURL, reference string) (*ProviderRequisition, error)

	// GetRequisition retrieves the provider's current view of a requisition.
	GetRequisition(ctx context.Context, accessToken, requisitionID string) (*ProviderRequisition, error)

	// DeleteRequisition removes a requisition at the provider.
	DeleteRequisition(ctx context.Context, accessToken, requisitionID string) error

	// GetBalance retrieves the usable balance for a bank account.
	GetBalance(ctx context.Context, accessToken, bankAccountID string) (*entity.BankBalance, error)

	// GetTransactions retrieves booked and pending transactions for a bank account.
	GetTransactions(ctx context.Context, accessToken, bankAccountID string) (booked, pending []entity.BankTransaction, err error)
}

// FeedTokenManager hands out a usable access token, obtaining or refreshing
// the stored pair as needed.
type FeedTokenManager interface {
	// AccessToken returns an access token valid for at least a short grace period.
	AccessToken(ctx context.Context) (string, error)

	// Invalidate drops the cached pair so the next call starts fresh.
	Invalidate(ctx context.Context) error
}
