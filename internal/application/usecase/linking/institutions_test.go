// Package linking contains bank connection and account link use cases.
package linking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ledgerfeed/backend/internal/domain/entity"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
)

func TestListInstitutions_Execute(t *testing.T) {
	ctx := context.Background()
	banks := []*entity.Institution{
		{ID: "TESTBANK_XX", Name: "Test Bank", Countries: []string{"DE"}},
		{ID: "OTHERBANK_YY", Name: "Other Bank", Countries: []string{"DE"}},
	}

	t.Run("fetches from the provider and fills the cache", func(t *testing.T) {
		client := &fakeFeedClient{institutions: banks}
		cache := newFakeCache()
		uc := NewListInstitutionsUseCase(client, &fakeTokenManager{}, cache, time.Hour)

		output, err := uc.Execute(ctx, ListInstitutionsInput{CountryCode: "de"})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if output.FromCache {
			t.Error("FromCache = true on the first call")
		}
		if len(output.Institutions) != 2 {
			t.Errorf("got %d institutions, want 2", len(output.Institutions))
		}
		if _, ok := cache.values["institutions:DE"]; !ok {
			t.Error("provider response was not cached under institutions:DE")
		}
		if cache.lastTTL != time.Hour {
			t.Errorf("cache TTL = %s, want 1h", cache.lastTTL)
		}
	})

	t.Run("serves the second call from the cache", func(t *testing.T) {
		client := &fakeFeedClient{institutions: banks}
		cache := newFakeCache()
		uc := NewListInstitutionsUseCase(client, &fakeTokenManager{}, cache, time.Hour)

		if _, err := uc.Execute(ctx, ListInstitutionsInput{CountryCode: "DE"}); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		output, err := uc.Execute(ctx, ListInstitutionsInput{CountryCode: "DE"})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if !output.FromCache {
			t.Error("FromCache = false on the second call")
		}
		if client.listCalls != 1 {
			t.Errorf("provider asked %d times, want once", client.listCalls)
		}
		if len(output.Institutions) != 2 || output.Institutions[0].ID != "TESTBANK_XX" {
			t.Errorf("cached institutions do not round-trip: %+v", output.Institutions)
		}
	})

	t.Run("falls back to the provider when the cache read fails", func(t *testing.T) {
		client := &fakeFeedClient{institutions: banks}
		cache := newFakeCache()
		cache.getErr = errBoom
		uc := NewListInstitutionsUseCase(client, &fakeTokenManager{}, cache, time.Hour)

		output, err := uc.Execute(ctx, ListInstitutionsInput{CountryCode: "DE"})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if output.FromCache {
			t.Error("FromCache = true with a broken cache")
		}
		if client.listCalls != 1 {
			t.Errorf("provider asked %d times, want once", client.listCalls)
		}
	})

	t.Run("works without a cache", func(t *testing.T) {
		client := &fakeFeedClient{institutions: banks}
		uc := NewListInstitutionsUseCase(client, &fakeTokenManager{}, nil, 0)

		if _, err := uc.Execute(ctx, ListInstitutionsInput{CountryCode: "DE"}); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
	})

	t.Run("rejects a malformed country code", func(t *testing.T) {
		uc := NewListInstitutionsUseCase(&fakeFeedClient{}, &fakeTokenManager{}, nil, 0)

		for _, code := range []string{"", "D", "DEU", "D1"} {
			if _, err := uc.Execute(ctx, ListInstitutionsInput{CountryCode: code}); !errors.Is(err, domainerror.ErrInvalidCountryCode) {
				t.Errorf("Execute(%q) error = %v, want ErrInvalidCountryCode", code, err)
			}
		}
	})

	t.Run("drops the token pair when the provider rejects it", func(t *testing.T) {
		client := &fakeFeedClient{institutionsErr: domainerror.ErrFeedUnauthorized}
		tokens := &fakeTokenManager{}
		uc := NewListInstitutionsUseCase(client, tokens, nil, 0)

		if _, err := uc.Execute(ctx, ListInstitutionsInput{CountryCode: "DE"}); !errors.Is(err, domainerror.ErrFeedUnauthorized) {
			t.Fatalf("Execute() error = %v, want ErrFeedUnauthorized", err)
		}
		if tokens.invalidated != 1 {
			t.Errorf("token pair invalidated %d times, want once", tokens.invalidated)
		}
	})
}
