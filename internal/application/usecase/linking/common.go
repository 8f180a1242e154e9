// Package linking contains bank connection and account link use cases.
package linking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
)

// wrapProviderError wraps a provider call failure. A rejected token drops the
// cached pair so the next call starts over with fresh credentials.
func wrapProviderError(ctx context.Context, tokens adapter.FeedTokenManager, operation string, err error) error {
	if errors.Is(err, domainerror.ErrFeedUnauthorized) {
		if invErr := tokens.Invalidate(ctx); invErr != nil {
			slog.Debug("Failed to invalidate provider tokens", "error", invErr)
		}
	}
	return fmt.Errorf("failed to %s: %w", operation, err)
}
