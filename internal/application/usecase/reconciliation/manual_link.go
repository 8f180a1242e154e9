// Package reconciliation contains reconciliation review use cases.
package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	"github.com/ledgerfeed/backend/internal/domain/entity"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
	"github.com/ledgerfeed/backend/internal/domain/valueobject"
)

// ManualLinkInput represents the input for manually linking a split to a feed item.
type ManualLinkInput struct {
	SplitID      uuid.UUID
	ExternalID   string
	Counterparty string
	FeedAmount   decimal.Decimal
	Force        bool // If true, allow linking even when the amounts disagree
}

// ManualLinkOutput represents the result of manual linking.
type ManualLinkOutput struct {
	Split        *entity.Split
	AmountsMatch bool
	Difference   decimal.Decimal
}

// ManualLinkUseCase handles adopting a feed item onto an existing split.
type ManualLinkUseCase struct {
	transactionRepo adapter.LedgerTransactionRepository
	config          valueobject.MatchingConfig
}

// NewManualLinkUseCase creates a new ManualLinkUseCase instance.
func NewManualLinkUseCase(transactionRepo adapter.LedgerTransactionRepository) *ManualLinkUseCase {
	return &ManualLinkUseCase{
		transactionRepo: transactionRepo,
		config:          valueobject.DefaultMatchingConfig(),
	}
}

// Execute stamps the feed reference onto the split. The split is marked
// reconciled only when the feed amount agrees with it; a forced link with a
// disagreeing amount keeps the current state so the conflict stays visible.
func (uc *ManualLinkUseCase) Execute(ctx context.Context, input ManualLinkInput) (*ManualLinkOutput, error) {
	// Validate external ID
	externalID := strings.TrimSpace(input.ExternalID)
	if externalID == "" {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeMissingTransactionField,
			"an external id is required",
			domainerror.ErrMissingTransactionField,
		)
	}

	split, err := uc.transactionRepo.FindSplitByID(ctx, input.SplitID)
	if err != nil {
		if errors.Is(err, domainerror.ErrSplitNotFound) {
			return nil, domainerror.NewTransactionError(
				domainerror.ErrCodeSplitNotFound,
				"split not found",
				domainerror.ErrSplitNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find split: %w", err)
	}

	if split.ExternalID != nil {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeSplitAlreadyLinked,
			"split already carries a feed reference, unlink it first",
			domainerror.ErrSplitAlreadyLinked,
		)
	}

	// The reference must stay unique per account
	taken, err := uc.transactionRepo.FindSplitByExternalID(ctx, split.AccountID, externalID)
	if err != nil && !errors.Is(err, domainerror.ErrSplitNotFound) {
		return nil, fmt.Errorf("failed to check external id: %w", err)
	}
	if err == nil && taken != nil {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeExternalIDTaken,
			"another split on this account already carries that external id",
			domainerror.ErrExternalIDTaken,
		)
	}

	// Check amounts (unless force is true)
	amountsMatch := uc.config.AmountsMatch(input.FeedAmount, split.Amount)
	if !amountsMatch && !input.Force {
		return nil, domainerror.NewSyncError(
			domainerror.ErrCodeAmountConflict,
			"feed amount disagrees with the split, use force to override",
			domainerror.ErrAmountConflict,
		)
	}

	split.SetExternalReference(externalID, strings.TrimSpace(input.Counterparty))
	if amountsMatch {
		split.MarkReconciled()
	}

	if err := uc.transactionRepo.UpdateSplit(ctx, split); err != nil {
		return nil, fmt.Errorf("failed to update split: %w", err)
	}

	return &ManualLinkOutput{
		Split:        split,
		AmountsMatch: amountsMatch,
		Difference:   input.FeedAmount.Sub(split.Amount),
	}, nil
}
