// Package linking contains bank connection and account link use cases.
package linking

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	"github.com/ledgerfeed/backend/internal/domain/entity"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
)

// DefaultInstitutionCacheTTL bounds how long a cached institution list is
// served before the provider is asked again.
const DefaultInstitutionCacheTTL = 24 * time.Hour

// ListInstitutionsInput represents the input for institution listing.
type ListInstitutionsInput struct {
	CountryCode string // ISO 3166-1 alpha-2
}

// ListInstitutionsOutput represents the output of institution listing.
type ListInstitutionsOutput struct {
	Institutions []*entity.Institution
	FromCache    bool
}

// ListInstitutionsUseCase handles institution listing logic.
type ListInstitutionsUseCase struct {
	feedClient   adapter.BankFeedClient
	tokenManager adapter.FeedTokenManager
	cache        adapter.FeedCache
	cacheTTL     time.Duration
}

// NewListInstitutionsUseCase creates a new ListInstitutionsUseCase instance.
// A nil cache disables caching.
func NewListInstitutionsUseCase(
	feedClient adapter.BankFeedClient,
	tokenManager adapter.FeedTokenManager,
	cache adapter.FeedCache,
	cacheTTL time.Duration,
) *ListInstitutionsUseCase {
	if cacheTTL <= 0 {
		cacheTTL = DefaultInstitutionCacheTTL
	}
	return &ListInstitutionsUseCase{
		feedClient:   feedClient,
		tokenManager: tokenManager,
		cache:        cache,
		cacheTTL:     cacheTTL,
	}
}

// Execute lists the institutions available in a country. Institution lists
// change rarely, so provider responses are cached. Cache failures fall back
// to the provider rather than failing the request.
func (uc *ListInstitutionsUseCase) Execute(ctx context.Context, input ListInstitutionsInput) (*ListInstitutionsOutput, error) {
	country := strings.ToUpper(strings.TrimSpace(input.CountryCode))
	if !isValidCountryCode(country) {
		return nil, domainerror.NewFeedError(
			domainerror.ErrCodeInvalidCountryCode,
			fmt.Sprintf("country must be a two-letter ISO code (got %q)", input.CountryCode),
			domainerror.ErrInvalidCountryCode,
		)
	}

	cacheKey := "institutions:" + country
	if institutions, ok := uc.fromCache(ctx, cacheKey); ok {
		return &ListInstitutionsOutput{Institutions: institutions, FromCache: true}, nil
	}

	accessToken, err := uc.tokenManager.AccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain provider access token: %w", err)
	}
	institutions, err := uc.feedClient.ListInstitutions(ctx, accessToken, country)
	if err != nil {
		return nil, wrapProviderError(ctx, uc.tokenManager, "list institutions", err)
	}

	uc.toCache(ctx, cacheKey, institutions)
	return &ListInstitutionsOutput{Institutions: institutions}, nil
}

func (uc *ListInstitutionsUseCase) fromCache(ctx context.Context, key string) ([]*entity.Institution, bool) {
	if uc.cache == nil {
		return nil, false
	}
	raw, ok, err := uc.cache.Get(ctx, key)
	if err != nil {
		slog.Debug("Skipping institution cache read", "key", key, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var institutions []*entity.Institution
	if err := json.Unmarshal([]byte(raw), &institutions); err != nil {
		slog.Debug("Dropping undecodable institution cache entry", "key", key, "error", err)
		return nil, false
	}
	return institutions, true
}

func (uc *ListInstitutionsUseCase) toCache(ctx context.Context, key string, institutions []*entity.Institution) {
	if uc.cache == nil {
		return
	}
	raw, err := json.Marshal(institutions)
	if err != nil {
		slog.Debug("Skipping institution cache write", "key", key, "error", err)
		return
	}
	if err := uc.cache.Set(ctx, key, string(raw), uc.cacheTTL); err != nil {
		slog.Debug("Skipping institution cache write", "key", key, "error", err)
	}
}

// isValidCountryCode reports whether the string is a two-letter ISO code.
func isValidCountryCode(code string) bool {
	if len(code) != 2 {
		return false
	}
	for _, r := range code {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
