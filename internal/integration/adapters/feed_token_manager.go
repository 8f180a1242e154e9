package adapters

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	"github.com/ledgerfeed/backend/internal/domain/entity"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
)

// accessTokenGrace is how much validity an access token must have left to be
// handed out without refreshing first.
const accessTokenGrace = 60 * time.Second

// errSealedTokenUnreadable marks a stored token that cannot be opened under
// the current seal key.
var errSealedTokenUnreadable = errors.New("sealed token unreadable")

// feedTokenManager implements the adapter.FeedTokenManager interface. It
// keeps the provider token pair sealed in the database and serialises all
// mint and refresh traffic through one mutex.
type feedTokenManager struct {
	client adapter.BankFeedClient
	tokens adapter.FeedTokenRepository
	sealer adapter.SecretSealer
	mu     sync.Mutex
}

// NewFeedTokenManager creates a new feed token manager instance.
func NewFeedTokenManager(client adapter.BankFeedClient, tokens adapter.FeedTokenRepository, sealer adapter.SecretSealer) adapter.FeedTokenManager {
	return &feedTokenManager{
		client: client,
		tokens: tokens,
		sealer: sealer,
	}
}

// AccessToken returns an access token valid for at least a short grace period.
func (m *feedTokenManager) AccessToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()

	stored, err := m.tokens.Get(ctx)
	if err != nil && !errors.Is(err, domainerror.ErrFeedTokenNotFound) {
		return "", fmt.Errorf("failed to load stored tokens: %w", err)
	}

	if stored != nil && stored.AccessUsable(now, accessTokenGrace) {
		access, err := m.sealer.Open(stored.SealedAccess)
		if err == nil {
			return access, nil
		}
		// Unreadable under the current seal key, likely rotated. Treat the
		// stored access token as absent and move on to the refresh token.
	}

	if stored != nil && stored.RefreshUsable(now) {
		access, err := m.refreshAccess(ctx, stored)
		if err == nil {
			return access, nil
		}
		if !errors.Is(err, domainerror.ErrFeedUnauthorized) && !errors.Is(err, errSealedTokenUnreadable) {
			return "", err
		}
		// A rejected or unreadable refresh token means the whole pair is
		// stale. Mint a new one from the secrets.
	}

	return m.obtainFresh(ctx)
}

// Invalidate drops the stored pair so the next call starts fresh.
func (m *feedTokenManager) Invalidate(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.tokens.Delete(ctx)
}

func (m *feedTokenManager) refreshAccess(ctx context.Context, stored *entity.FeedToken) (string, error) {
	refresh, err := m.sealer.Open(stored.SealedRefresh)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errSealedTokenUnreadable, err)
	}

	access, expiresAt, err := m.client.RefreshAccessToken(ctx, refresh)
	if err != nil {
		return "", err
	}

	sealedAccess, err := m.sealer.Seal(access)
	if err != nil {
		return "", fmt.Errorf("failed to seal access token: %w", err)
	}

	stored.RotateAccess(sealedAccess, tokenExpiry(access, expiresAt))
	if err := m.tokens.Save(ctx, stored); err != nil {
		return "", fmt.Errorf("failed to save refreshed tokens: %w", err)
	}
	return access, nil
}

func (m *feedTokenManager) obtainFresh(ctx context.Context) (string, error) {
	pair, err := m.client.ObtainTokens(ctx)
	if err != nil {
		return "", err
	}

	sealedAccess, err := m.sealer.Seal(pair.Access)
	if err != nil {
		return "", fmt.Errorf("failed to seal access token: %w", err)
	}
	sealedRefresh, err := m.sealer.Seal(pair.Refresh)
	if err != nil {
		return "", fmt.Errorf("failed to seal refresh token: %w", err)
	}

	token := entity.NewFeedToken(
		sealedAccess, tokenExpiry(pair.Access, pair.AccessExpiresAt),
		sealedRefresh, tokenExpiry(pair.Refresh, pair.RefreshExpiresAt),
	)
	if err := m.tokens.Save(ctx, token); err != nil {
		return "", fmt.Errorf("failed to save tokens: %w", err)
	}
	return pair.Access, nil
}

// tokenExpiry reads the expiry out of a provider token. Provider tokens are
// JWTs carrying their own exp claim; when the claim is missing or unreadable
// the computed fallback applies.
func tokenExpiry(token string, fallback time.Time) time.Time {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return fallback
	}

	expiresAt, err := parsed.Claims.GetExpirationTime()
	if err != nil || expiresAt == nil {
		return fallback
	}
	return expiresAt.Time.UTC()
}
