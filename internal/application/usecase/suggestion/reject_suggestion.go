// Package suggestion contains offset suggestion use cases.
package suggestion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	"github.com/ledgerfeed/backend/internal/domain/entity"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
)

// RejectAction defines what happens to a rejected suggestion.
type RejectAction string

const (
	// RejectActionSkip marks the suggestion as skipped; the transaction
	// stays on the fallback account.
	RejectActionSkip RejectAction = "skip"

	// RejectActionRetry asks the service for a fresh suggestion, carrying
	// the rejected one and the reason as context.
	RejectActionRetry RejectAction = "retry"
)

// RejectSuggestionInput represents the input for rejecting a suggestion.
type RejectSuggestionInput struct {
	SuggestionID uuid.UUID
	Action       RejectAction
	RetryReason  string // Optional, tells the service why the proposal was wrong
}

// RejectSuggestionOutput represents the output of rejecting a suggestion.
type RejectSuggestionOutput struct {
	Status  entity.SuggestionStatus
	Message string
	// NewSuggestion is the retry replacement, nil for a skip or when the
	// service had no alternative.
	NewSuggestion *entity.AccountSuggestionWithDetails
}

// RejectSuggestionUseCase handles rejecting a suggestion by skipping it or
// requesting a replacement.
type RejectSuggestionUseCase struct {
	suggestionRepo  adapter.AISuggestionRepository
	transactionRepo adapter.LedgerTransactionRepository
	accountRepo     adapter.AccountRepository
	aiService       adapter.AISuggestionService
}

// NewRejectSuggestionUseCase creates a new RejectSuggestionUseCase instance.
func NewRejectSuggestionUseCase(
	suggestionRepo adapter.AISuggestionRepository,
	transactionRepo adapter.LedgerTransactionRepository,
	accountRepo adapter.AccountRepository,
	aiService adapter.AISuggestionService,
) *RejectSuggestionUseCase {
	return &RejectSuggestionUseCase{
		suggestionRepo:  suggestionRepo,
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
		aiService:       aiService,
	}
}

// Execute rejects the suggestion with the requested action.
func (uc *RejectSuggestionUseCase) Execute(ctx context.Context, input RejectSuggestionInput) (*RejectSuggestionOutput, error) {
	if input.Action != RejectActionSkip && input.Action != RejectActionRetry {
		return nil, domainerror.NewAISuggestionError(
			domainerror.ErrCodeAIInvalidAction,
			fmt.Sprintf("action must be skip or retry (got %q)", input.Action),
			domainerror.ErrAIInvalidAction,
		)
	}

	suggestion, err := uc.suggestionRepo.GetByID(ctx, input.SuggestionID)
	if err != nil {
		if errors.Is(err, domainerror.ErrAISuggestionNotFound) {
			return nil, domainerror.NewAISuggestionError(
				domainerror.ErrCodeAISuggestionNotFound,
				"Suggestion not found",
				domainerror.ErrAISuggestionNotFound,
			)
		}
		return nil, fmt.Errorf("failed to get suggestion: %w", err)
	}

	if suggestion.Status != entity.SuggestionStatusPending {
		return nil, domainerror.NewAISuggestionError(
			domainerror.ErrCodeAISuggestionAlreadyProcessed,
			"Suggestion has already been processed",
			domainerror.ErrAISuggestionAlreadyProcessed,
		)
	}

	if input.Action == RejectActionSkip {
		return uc.skip(ctx, suggestion)
	}
	return uc.retry(ctx, suggestion, strings.TrimSpace(input.RetryReason))
}

// skip marks the suggestion as skipped.
func (uc *RejectSuggestionUseCase) skip(ctx context.Context, suggestion *entity.AccountSuggestion) (*RejectSuggestionOutput, error) {
	suggestion.Status = entity.SuggestionStatusSkipped
	suggestion.UpdatedAt = time.Now().UTC()
	if err := uc.suggestionRepo.Update(ctx, suggestion); err != nil {
		return nil, fmt.Errorf("failed to update suggestion status: %w", err)
	}

	return &RejectSuggestionOutput{
		Status:  entity.SuggestionStatusSkipped,
		Message: "Suggestion skipped",
	}, nil
}

// retry marks the suggestion as rejected and asks the service for a
// replacement, handing it the rejected proposal as context.
func (uc *RejectSuggestionUseCase) retry(ctx context.Context, suggestion *entity.AccountSuggestion, reason string) (*RejectSuggestionOutput, error) {
	previousJSON, err := json.Marshal(suggestion)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize previous suggestion: %w", err)
	}
	previous := string(previousJSON)

	suggestion.Status = entity.SuggestionStatusRejected
	suggestion.UpdatedAt = time.Now().UTC()
	if err := uc.suggestionRepo.Update(ctx, suggestion); err != nil {
		return nil, fmt.Errorf("failed to update suggestion status: %w", err)
	}

	transaction, err := uc.transactionRepo.FindByID(ctx, suggestion.TransactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get suggested transaction: %w", err)
	}
	accounts, err := uc.accountRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}

	results, err := uc.aiService.Suggest(ctx, &adapter.AISuggestionRequest{
		Transactions:     []*adapter.TransactionForAI{transactionForAI(transaction)},
		ExistingAccounts: accountsForAI(accounts),
	})
	if err != nil {
		return nil, domainerror.NewAISuggestionError(
			domainerror.ErrCodeAIRetryFailed,
			"Failed to get a new suggestion from the service",
			domainerror.ErrAIRetryFailed,
		)
	}

	if len(results) == 0 {
		return &RejectSuggestionOutput{
			Status:  entity.SuggestionStatusRejected,
			Message: "Suggestion rejected, the service had no alternative",
		}, nil
	}

	replacement := suggestionFromResult(results[0])
	if replacement == nil {
		return &RejectSuggestionOutput{
			Status:  entity.SuggestionStatusRejected,
			Message: "Suggestion rejected, the service had no alternative",
		}, nil
	}

	replacement.PreviousSuggestion = &previous
	if reason != "" {
		replacement.RetryReason = &reason
	}
	if err := uc.suggestionRepo.Create(ctx, replacement); err != nil {
		return nil, fmt.Errorf("failed to create replacement suggestion: %w", err)
	}

	withDetails, err := uc.suggestionRepo.GetByIDWithDetails(ctx, replacement.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get replacement details: %w", err)
	}

	return &RejectSuggestionOutput{
		Status:        entity.SuggestionStatusRejected,
		Message:       "New suggestion generated",
		NewSuggestion: withDetails,
	}, nil
}
