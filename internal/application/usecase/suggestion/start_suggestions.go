// Package suggestion contains offset suggestion use cases.
package suggestion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	"github.com/ledgerfeed/backend/internal/domain/entity"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
)

const (
	// BatchSize is the number of transactions sent per service request.
	// Keeping this small (30-50) lets the model answer within the timeout.
	BatchSize = 40

	// BatchTimeout bounds a single service request.
	BatchTimeout = 45 * time.Second

	// MaxBatches caps one run (40 * 50 = 2000 transactions). The rest of
	// the backlog waits for the next run.
	MaxBatches = 50
)

// splitIntoBatches divides transactions into batches of BatchSize.
func splitIntoBatches(transactions []*adapter.TransactionForAI) [][]*adapter.TransactionForAI {
	batches := make([][]*adapter.TransactionForAI, 0)

	for i := 0; i < len(transactions); i += BatchSize {
		end := i + BatchSize
		if end > len(transactions) {
			end = len(transactions)
		}
		batches = append(batches, transactions[i:end])
	}

	return batches
}

// StartSuggestionsInput represents the input for starting a suggestion run.
type StartSuggestionsInput struct{}

// StartSuggestionsOutput represents the output of starting a suggestion run.
type StartSuggestionsOutput struct {
	JobID        string `json:"job_id"`
	Transactions int    `json:"transactions"`
	Message      string `json:"message"`
}

// StartSuggestionsUseCase handles starting an asynchronous suggestion run
// over the transactions that post to a fallback account.
type StartSuggestionsUseCase struct {
	transactionRepo adapter.LedgerTransactionRepository
	accountRepo     adapter.AccountRepository
	suggestionRepo  adapter.AISuggestionRepository
	aiService       adapter.AISuggestionService
	tracker         RunTracker
}

// NewStartSuggestionsUseCase creates a new StartSuggestionsUseCase instance.
func NewStartSuggestionsUseCase(
	transactionRepo adapter.LedgerTransactionRepository,
	accountRepo adapter.AccountRepository,
	suggestionRepo adapter.AISuggestionRepository,
	aiService adapter.AISuggestionService,
	tracker RunTracker,
) *StartSuggestionsUseCase {
	return &StartSuggestionsUseCase{
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
		suggestionRepo:  suggestionRepo,
		aiService:       aiService,
		tracker:         tracker,
	}
}

// Execute starts the suggestion run and returns as soon as the job is
// accepted.
func (uc *StartSuggestionsUseCase) Execute(ctx context.Context, input StartSuggestionsInput) (*StartSuggestionsOutput, error) {
	if !uc.aiService.IsAvailable() {
		return nil, domainerror.NewAISuggestionError(
			domainerror.ErrCodeAIInvalidConfig,
			"Suggestion service is not configured, set the Gemini API key",
			domainerror.ErrAIServiceError,
		)
	}

	if uc.tracker != nil && uc.tracker.IsRunning() {
		return nil, domainerror.NewAISuggestionError(
			domainerror.ErrCodeAIAlreadyProcessing,
			"A suggestion run is already in progress",
			domainerror.ErrAIAlreadyProcessing,
		)
	}

	// Forget the outcome of the previous run
	if uc.tracker != nil {
		uc.tracker.ClearError()
	}

	transactions, err := uc.transactionRepo.FindImbalanceTransactions(ctx, MaxBatches*BatchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list imbalance transactions: %w", err)
	}

	if len(transactions) == 0 {
		return nil, domainerror.NewAISuggestionError(
			domainerror.ErrCodeAINoImbalance,
			"No imbalance transactions found",
			domainerror.ErrAINoImbalance,
		)
	}

	jobID := uuid.New().String()
	if uc.tracker != nil {
		uc.tracker.Begin(jobID)
	}

	// The run outlives the request; status is served by the tracker.
	go uc.processAsync(context.Background(), jobID, transactions)

	return &StartSuggestionsOutput{
		JobID:        jobID,
		Transactions: len(transactions),
		Message:      fmt.Sprintf("Suggestion run started for %d imbalance transaction(s)", len(transactions)),
	}, nil
}

// processAsync walks the backlog in batches and saves the suggestions.
func (uc *StartSuggestionsUseCase) processAsync(ctx context.Context, jobID string, transactions []*entity.LedgerTransaction) {
	startedAt := time.Now()
	logger := slog.Default().With("job_id", jobID, "operation", "suggest")

	defer func() {
		if uc.tracker != nil {
			uc.tracker.Finish()
		}
		logger.Info("Suggestion run finished", "duration", time.Since(startedAt).String())
	}()

	logger.Info("Suggestion run started", "transactions", len(transactions))
	if len(transactions) == MaxBatches*BatchSize {
		logger.Warn("Imbalance backlog reached the run cap, the rest waits for the next run",
			"cap", MaxBatches*BatchSize)
	}

	accounts, err := uc.accountRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to load accounts", "error", err)
		uc.setError(err)
		return
	}
	existingAccounts := accountsForAI(accounts)

	forAI := make([]*adapter.TransactionForAI, len(transactions))
	for i, transaction := range transactions {
		forAI[i] = transactionForAI(transaction)
	}

	batches := splitIntoBatches(forAI)
	logger.Info("Processing in batches", "batches", len(batches), "batch_size", BatchSize)

	results := make([]*adapter.AISuggestionResult, 0, len(transactions))
	for i, batch := range batches {
		batchLogger := logger.With("batch", i+1, "batches", len(batches))

		batchCtx, cancel := context.WithTimeout(ctx, BatchTimeout)
		batchResults, err := uc.aiService.Suggest(batchCtx, &adapter.AISuggestionRequest{
			Transactions:     batch,
			ExistingAccounts: existingAccounts,
		})
		cancel()
		if err != nil {
			batchLogger.Error("Batch failed", "error", err)
			uc.setError(err)
			return
		}

		batchLogger.Info("Batch completed", "results", len(batchResults))
		results = append(results, batchResults...)
	}

	suggestions := make([]*entity.AccountSuggestion, 0, len(results))
	for _, result := range results {
		if suggestion := suggestionFromResult(result); suggestion != nil {
			suggestions = append(suggestions, suggestion)
		}
	}

	if len(suggestions) == 0 {
		logger.Info("No suggestions generated")
		return
	}
	if err := uc.suggestionRepo.CreateBatch(ctx, suggestions); err != nil {
		logger.Error("Failed to save suggestions", "error", err, "suggestions", len(suggestions))
		uc.setError(err)
		return
	}
	logger.Info("Saved suggestions", "suggestions", len(suggestions))
}

// setError classifies and records the failure for the status endpoint.
func (uc *StartSuggestionsUseCase) setError(err error) {
	if uc.tracker == nil {
		return
	}
	uc.tracker.SetError(classifyError(err))
}

// transactionForAI flattens a ledger transaction for the suggestion request.
// The counterparty and amount come from the feed side of the transaction,
// falling back to the first split for hand-entered ones.
func transactionForAI(transaction *entity.LedgerTransaction) *adapter.TransactionForAI {
	forAI := &adapter.TransactionForAI{
		ID:          transaction.ID,
		Description: transaction.Description,
		Date:        transaction.Date.Format("2006-01-02"),
	}

	var source *entity.Split
	for _, split := range transaction.Splits {
		if split.ExternalID != nil {
			source = split
			break
		}
	}
	if source == nil && len(transaction.Splits) > 0 {
		source = transaction.Splits[0]
	}
	if source != nil {
		forAI.Amount = source.Amount.String()
		if source.Counterparty != nil {
			forAI.Counterparty = *source.Counterparty
		}
	}
	return forAI
}

// accountsForAI flattens the chart of accounts for the suggestion request.
// Fallback accounts are not offered as targets.
func accountsForAI(accounts []*entity.Account) []*adapter.AccountForAI {
	forAI := make([]*adapter.AccountForAI, 0, len(accounts))
	for _, account := range accounts {
		if account.IsImbalance() {
			continue
		}
		forAI = append(forAI, &adapter.AccountForAI{
			ID:       account.ID,
			FullName: account.FullName,
			Type:     string(account.Type),
		})
	}
	return forAI
}

// suggestionFromResult converts one service result into a pending suggestion.
// Returns nil when the result names neither an existing nor a new account.
func suggestionFromResult(result *adapter.AISuggestionResult) *entity.AccountSuggestion {
	switch {
	case result.SuggestedAccountID != nil:
		return entity.NewAccountSuggestion(
			result.TransactionID,
			*result.SuggestedAccountID,
			result.MatchType,
			result.MatchKeyword,
			result.AffectedTransactionIDs,
			result.Confidence,
			result.Reasoning,
		)
	case result.SuggestedAccountNew != nil:
		return entity.NewAccountSuggestionWithNewAccount(
			result.TransactionID,
			*result.SuggestedAccountNew,
			result.MatchType,
			result.MatchKeyword,
			result.AffectedTransactionIDs,
			result.Confidence,
			result.Reasoning,
		)
	default:
		return nil
	}
}
