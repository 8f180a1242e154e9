// Package reconciliation contains reconciliation review use cases.
package reconciliation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
	"github.com/ledgerfeed/backend/internal/domain/valueobject"
)

// GetCandidatesInput represents the input for finding reference candidates.
type GetCandidatesInput struct {
	SplitID uuid.UUID
}

// GetCandidatesOutput represents the output for finding reference candidates.
type GetCandidatesOutput struct {
	Candidates []adapter.CandidateSplitData
}

// GetCandidatesUseCase finds referenced splits that probably describe the same
// bank movement as a pending split.
type GetCandidatesUseCase struct {
	transactionRepo    adapter.LedgerTransactionRepository
	reconciliationRepo adapter.ReconciliationRepository
	config             valueobject.MatchingConfig
}

// NewGetCandidatesUseCase creates a new GetCandidatesUseCase instance.
func NewGetCandidatesUseCase(
	transactionRepo adapter.LedgerTransactionRepository,
	reconciliationRepo adapter.ReconciliationRepository,
) *GetCandidatesUseCase {
	return &GetCandidatesUseCase{
		transactionRepo:    transactionRepo,
		reconciliationRepo: reconciliationRepo,
		config:             valueobject.DefaultMatchingConfig(),
	}
}

// Execute finds splits already carrying a feed reference whose account, amount
// and date sit close to the given pending split. A candidate usually means the
// feed imported a movement the user had also entered by hand.
func (uc *GetCandidatesUseCase) Execute(ctx context.Context, input GetCandidatesInput) (*GetCandidatesOutput, error) {
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
			"split already carries a feed reference",
			domainerror.ErrSplitAlreadyLinked,
		)
	}

	// The posting date lives on the transaction, not the split.
	transaction, err := uc.transactionRepo.FindByID(ctx, split.TransactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction for split: %w", err)
	}

	dateRange := adapter.DateRange{
		Start: transaction.Date.AddDate(0, 0, -uc.config.DateToleranceDays),
		End:   transaction.Date.AddDate(0, 0, uc.config.DateToleranceDays),
	}

	candidates, err := uc.reconciliationRepo.FindReferenceCandidates(ctx, split.AccountID, split.Amount, dateRange)
	if err != nil {
		return nil, fmt.Errorf("failed to find reference candidates: %w", err)
	}

	return &GetCandidatesOutput{Candidates: candidates}, nil
}
