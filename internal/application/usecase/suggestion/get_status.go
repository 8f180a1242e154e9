// Package suggestion contains offset suggestion use cases.
package suggestion

import (
	"context"
	"fmt"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	"github.com/ledgerfeed/backend/internal/domain/entity"
)

// GetStatusInput represents the input for the suggestion status query.
type GetStatusInput struct{}

// GetStatusOutput represents the output of the suggestion status query.
type GetStatusOutput struct {
	Status *entity.SuggestionRunStatus
	// Error carries why the last run stopped; nil after a clean run.
	Error *ProcessingError
}

// GetStatusUseCase handles retrieving the state of the suggestion pipeline.
type GetStatusUseCase struct {
	transactionRepo adapter.LedgerTransactionRepository
	suggestionRepo  adapter.AISuggestionRepository
	tracker         RunTracker
}

// NewGetStatusUseCase creates a new GetStatusUseCase instance.
func NewGetStatusUseCase(
	transactionRepo adapter.LedgerTransactionRepository,
	suggestionRepo adapter.AISuggestionRepository,
	tracker RunTracker,
) *GetStatusUseCase {
	return &GetStatusUseCase{
		transactionRepo: transactionRepo,
		suggestionRepo:  suggestionRepo,
		tracker:         tracker,
	}
}

// Execute reports the imbalance backlog, the pending suggestion count and
// whether a run is in flight.
func (uc *GetStatusUseCase) Execute(ctx context.Context, input GetStatusInput) (*GetStatusOutput, error) {
	imbalanceCount, err := uc.transactionRepo.CountImbalanceTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count imbalance transactions: %w", err)
	}

	pendingCount, err := uc.suggestionRepo.GetPendingCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending suggestions: %w", err)
	}

	status := &entity.SuggestionRunStatus{
		ImbalanceCount:          imbalanceCount,
		PendingSuggestionsCount: pendingCount,
	}

	var processingError *ProcessingError
	if uc.tracker != nil {
		status.IsProcessing = uc.tracker.IsRunning()
		if status.IsProcessing {
			jobID := uc.tracker.JobID()
			status.JobID = &jobID
		}
		processingError = uc.tracker.LastError()
	}

	return &GetStatusOutput{
		Status: status,
		Error:  processingError,
	}, nil
}
