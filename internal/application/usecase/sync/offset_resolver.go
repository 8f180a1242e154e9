// Package sync contains bank feed synchronization use cases.
package sync

import (
	"context"
	"errors"
	"log/slog"
	"regexp"

	"github.com/google/uuid"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	"github.com/ledgerfeed/backend/internal/domain/entity"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
)

// resolvedOffsets is what the resolver proposes for a feed item that becomes
// a new transaction: the description to record and the splits that balance
// the feed split.
type resolvedOffsets struct {
	Description string
	Splits      []*entity.Split
}

// offsetResolver decides which accounts balance a created transaction.
// Payee rules are tried first, then the most recent transaction recorded
// against the same counterparty; when neither applies the transaction falls
// back to the currency's imbalance account.
type offsetResolver struct {
	transactionRepo adapter.LedgerTransactionRepository
	accountRepo     adapter.AccountRepository
	ruleRepo        adapter.PayeeRuleRepository
}

// resolve proposes offsets for a feed item posting to the given ledger
// account. Soft failures in the rule and history lookups fall through to
// the next source; only the imbalance fallback can error.
func (r *offsetResolver) resolve(ctx context.Context, ledgerAccountID uuid.UUID, item entity.BankTransaction) (*resolvedOffsets, error) {
	if resolved := r.fromRules(ctx, item); resolved != nil {
		return resolved, nil
	}
	if resolved := r.fromHistory(ctx, ledgerAccountID, item); resolved != nil {
		return resolved, nil
	}
	return r.fromImbalance(ctx, item)
}

// fromRules matches the item's counterparty against the active payee rules,
// highest priority first. Returns nil when no rule matches.
func (r *offsetResolver) fromRules(ctx context.Context, item entity.BankTransaction) *resolvedOffsets {
	if r.ruleRepo == nil {
		return nil
	}
	rules, err := r.ruleRepo.FindActive(ctx)
	if err != nil {
		slog.Debug("Skipping payee rules", "error", err)
		return nil
	}

	for _, rule := range rules {
		re, err := regexp.Compile("(?i)" + rule.Pattern)
		if err != nil {
			slog.Debug("Invalid payee rule pattern", "rule_id", rule.ID, "pattern", rule.Pattern, "error", err)
			continue
		}
		if !re.MatchString(item.Description) {
			continue
		}

		description := item.Description
		if rule.Description != "" {
			description = rule.Description
		}
		return &resolvedOffsets{
			Description: description,
			Splits:      []*entity.Split{entity.NewSplit(rule.AccountID, item.Amount.Neg(), "")},
		}
	}
	return nil
}

// fromHistory replays the most recent transaction recorded against the same
// counterparty: the new transaction takes its description and its offsetting
// accounts, with each offset scaled to the feed amount. Returns nil when no
// usable precedent exists.
func (r *offsetResolver) fromHistory(ctx context.Context, ledgerAccountID uuid.UUID, item entity.BankTransaction) *resolvedOffsets {
	previous, err := r.transactionRepo.FindLatestByCounterparty(ctx, ledgerAccountID, item.Description)
	if err != nil {
		if !errors.Is(err, domainerror.ErrTransactionNotFound) {
			slog.Debug("Skipping counterparty history", "counterparty", item.Description, "error", err)
		}
		return nil
	}

	anchor := previous.SplitForAccount(ledgerAccountID)
	if anchor == nil || anchor.Amount.IsZero() {
		return nil
	}

	var others []*entity.Split
	for _, split := range previous.Splits {
		if split.ID == anchor.ID {
			continue
		}
		others = append(others, split)
	}
	if len(others) == 0 {
		return nil
	}

	// Scale each offset by the ratio of the feed amount to the precedent's
	// anchor amount. The last offset absorbs the rounding remainder so the
	// splits always sum to zero.
	splits := make([]*entity.Split, 0, len(others))
	remainder := item.Amount.Neg()
	for i, other := range others {
		amount := remainder
		if i < len(others)-1 {
			amount = item.Amount.Mul(other.Amount).DivRound(anchor.Amount, 2)
			remainder = remainder.Sub(amount)
		}
		splits = append(splits, entity.NewSplit(other.AccountID, amount, ""))
	}

	return &resolvedOffsets{
		Description: previous.Description,
		Splits:      splits,
	}
}

// fromImbalance balances the item against the currency's fallback account.
func (r *offsetResolver) fromImbalance(ctx context.Context, item entity.BankTransaction) (*resolvedOffsets, error) {
	imbalance, err := r.accountRepo.FindOrCreateImbalance(ctx, item.Currency)
	if err != nil {
		return nil, err
	}
	return &resolvedOffsets{
		Description: item.Description,
		Splits:      []*entity.Split{entity.NewSplit(imbalance.ID, item.Amount.Neg(), "")},
	}, nil
}

// balanceWithImbalance appends a fallback split when the proposed splits do
// not sum to zero. History offsets are remainder-corrected, so this only
// fires for transactions that were already unbalanced at the precedent.
func balanceWithImbalance(ctx context.Context, accountRepo adapter.AccountRepository, transaction *entity.LedgerTransaction) error {
	missing := transaction.Imbalance()
	if missing.IsZero() {
		return nil
	}
	imbalance, err := accountRepo.FindOrCreateImbalance(ctx, transaction.Currency)
	if err != nil {
		return err
	}
	split := entity.NewSplit(imbalance.ID, missing, "")
	split.TransactionID = transaction.ID
	transaction.Splits = append(transaction.Splits, split)
	return nil
}
