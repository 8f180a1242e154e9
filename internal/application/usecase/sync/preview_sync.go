// Package sync contains bank feed synchronization use cases.
package sync

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	"github.com/ledgerfeed/backend/internal/domain/entity"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
	"github.com/ledgerfeed/backend/internal/domain/valueobject"
)

// PreviewSyncInput represents the input for previewing a sync.
type PreviewSyncInput struct {
	AccountLinkID uuid.UUID
}

// PreviewItem represents the planned outcome for one feed item.
type PreviewItem struct {
	ExternalID          string   `json:"external_id,omitempty"`
	Date                string   `json:"date"`
	Amount              string   `json:"amount"`
	Description         string   `json:"description"`
	Outcome             string   `json:"outcome"`
	Confidence          string   `json:"confidence,omitempty"`
	DateDistance        string   `json:"date_distance,omitempty"`
	MatchedSplitID      string   `json:"matched_split_id,omitempty"`
	MatchedAmount       string   `json:"matched_amount,omitempty"`
	MatchedDate         string   `json:"matched_date,omitempty"`
	MatchedDescription  string   `json:"matched_description,omitempty"`
	ProposedDescription string   `json:"proposed_description,omitempty"`
	ProposedOffsets     []string `json:"proposed_offsets,omitempty"`
}

// PreviewSyncOutput represents the output of previewing a sync.
type PreviewSyncOutput struct {
	AccountLinkID string         `json:"account_link_id"`
	AccountName   string         `json:"account_name"`
	BankBalance   string         `json:"bank_balance"`
	Currency      string         `json:"currency"`
	Fetched       int            `json:"fetched"`
	Pending       int            `json:"pending"`
	Items         []*PreviewItem `json:"items"`
}

// PreviewSyncUseCase plans a sync for one link without writing anything.
type PreviewSyncUseCase struct {
	linkRepo    adapter.AccountLinkRepository
	accountRepo adapter.AccountRepository
	fetcher     *feedImporter
	resolver    *offsetResolver
	config      valueobject.MatchingConfig
}

// NewPreviewSyncUseCase creates a new PreviewSyncUseCase instance.
func NewPreviewSyncUseCase(
	linkRepo adapter.AccountLinkRepository,
	accountRepo adapter.AccountRepository,
	transactionRepo adapter.LedgerTransactionRepository,
	ruleRepo adapter.PayeeRuleRepository,
	feedClient adapter.BankFeedClient,
	tokenManager adapter.FeedTokenManager,
	config valueobject.MatchingConfig,
) *PreviewSyncUseCase {
	return &PreviewSyncUseCase{
		linkRepo:    linkRepo,
		accountRepo: accountRepo,
		fetcher: &feedImporter{
			transactionRepo: transactionRepo,
			feedClient:      feedClient,
			tokenManager:    tokenManager,
		},
		resolver: &offsetResolver{
			transactionRepo: transactionRepo,
			accountRepo:     accountRepo,
			ruleRepo:        ruleRepo,
		},
		config: config,
	}
}

// Execute fetches the feed and reports how each booked item would resolve.
func (uc *PreviewSyncUseCase) Execute(ctx context.Context, input PreviewSyncInput) (*PreviewSyncOutput, error) {
	link, err := uc.linkRepo.FindByID(ctx, input.AccountLinkID)
	if err != nil {
		if errors.Is(err, domainerror.ErrAccountLinkNotFound) {
			return nil, domainerror.NewLinkError(
				domainerror.ErrCodeAccountLinkNotFound,
				"Account link not found",
				err,
			)
		}
		return nil, fmt.Errorf("failed to get account link: %w", err)
	}
	account, err := uc.accountRepo.FindByID(ctx, link.LedgerAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load linked account: %w", err)
	}

	feed, err := uc.fetcher.fetchFeed(ctx, link)
	if err != nil {
		return nil, err
	}

	splits, err := uc.fetcher.transactionRepo.FindSplitsByAccount(ctx, link.LedgerAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load account splits: %w", err)
	}
	m := newMatcher(uc.config, splits)

	accountNames := map[uuid.UUID]string{}
	items := make([]*PreviewItem, 0, len(feed.Booked))
	for _, item := range feed.Booked {
		if item.Currency != "" && !strings.EqualFold(item.Currency, account.Currency) {
			items = append(items, &PreviewItem{
				ExternalID:  item.ExternalID,
				Date:        item.DateFor(link.DateBasis).Format("2006-01-02"),
				Amount:      item.Amount.StringFixed(2),
				Description: item.Description,
				Outcome:     string(valueobject.MatchOutcomeConflict),
			})
			continue
		}
		plan := m.plan(item, item.DateFor(link.DateBasis))
		preview := uc.toPreviewItem(ctx, link, account, plan)
		if plan.Outcome == valueobject.MatchOutcomeCreated {
			// Register a stand-in so a duplicate id later in the feed
			// previews as confirmed, the way a real run would resolve it.
			m.registerCreated(item.ExternalID, &adapter.SplitWithTransaction{
				Split:       entity.NewSplit(link.LedgerAccountID, item.Amount, ""),
				Date:        plan.Date,
				Description: preview.ProposedDescription,
			})
		}
		uc.nameOffsets(ctx, preview, accountNames)
		items = append(items, preview)
	}

	return &PreviewSyncOutput{
		AccountLinkID: link.ID.String(),
		AccountName:   linkDisplayName(link, account),
		BankBalance:   feed.Balance.Amount.StringFixed(2),
		Currency:      feed.Balance.Currency,
		Fetched:       len(feed.Booked),
		Pending:       len(feed.Pending),
		Items:         items,
	}, nil
}

// toPreviewItem renders one planned outcome.
func (uc *PreviewSyncUseCase) toPreviewItem(ctx context.Context, link *entity.AccountLink, account *entity.Account, plan itemPlan) *PreviewItem {
	preview := &PreviewItem{
		ExternalID:  plan.Item.ExternalID,
		Date:        plan.Date.Format("2006-01-02"),
		Amount:      plan.Item.Amount.StringFixed(2),
		Description: plan.Item.Description,
		Outcome:     string(plan.Outcome),
	}

	switch plan.Outcome {
	case valueobject.MatchOutcomeConfirmed, valueobject.MatchOutcomeConflict:
		preview.MatchedSplitID = plan.Matched.Split.ID.String()
		preview.MatchedAmount = plan.Matched.Split.Amount.StringFixed(2)
		preview.MatchedDate = plan.Matched.Date.Format("2006-01-02")
		preview.MatchedDescription = plan.Matched.Description

	case valueobject.MatchOutcomeLinked:
		preview.MatchedSplitID = plan.Matched.Split.ID.String()
		preview.MatchedAmount = plan.Matched.Split.Amount.StringFixed(2)
		preview.MatchedDate = plan.Matched.Date.Format("2006-01-02")
		preview.MatchedDescription = plan.Matched.Description
		preview.DateDistance = valueobject.FormatDateDistance(plan.DateDistanceDays)
		preview.Confidence = string(valueobject.CalculateConfidence(
			uc.config, plan.Item.Amount, plan.Matched.Split.Amount, plan.DateDistanceDays))

	case valueobject.MatchOutcomeCreated:
		preview.ProposedDescription = plan.Item.Description
		currency := plan.Item.Currency
		if currency == "" {
			currency = account.Currency
		}
		if resolved := uc.resolver.fromRules(ctx, plan.Item); resolved != nil {
			preview.ProposedDescription = resolved.Description
			preview.ProposedOffsets = offsetAccountIDs(resolved.Splits)
		} else if resolved := uc.resolver.fromHistory(ctx, link.LedgerAccountID, plan.Item); resolved != nil {
			preview.ProposedDescription = resolved.Description
			preview.ProposedOffsets = offsetAccountIDs(resolved.Splits)
		} else {
			preview.ProposedOffsets = []string{entity.ImbalanceAccountName(currency)}
		}
	}
	return preview
}

// nameOffsets swaps offset account ids for their full names where possible.
func (uc *PreviewSyncUseCase) nameOffsets(ctx context.Context, preview *PreviewItem, cache map[uuid.UUID]string) {
	for i, raw := range preview.ProposedOffsets {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		if name, ok := cache[id]; ok {
			preview.ProposedOffsets[i] = name
			continue
		}
		account, err := uc.accountRepo.FindByID(ctx, id)
		if err != nil {
			continue
		}
		cache[id] = account.FullName
		preview.ProposedOffsets[i] = account.FullName
	}
}

// offsetAccountIDs lists the account ids a resolution would post against.
func offsetAccountIDs(splits []*entity.Split) []string {
	ids := make([]string, 0, len(splits))
	for _, split := range splits {
		ids = append(ids, split.AccountID.String())
	}
	return ids
}
