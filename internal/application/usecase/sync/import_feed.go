// Package sync contains bank feed synchronization use cases.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	"github.com/ledgerfeed/backend/internal/domain/entity"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
	"github.com/ledgerfeed/backend/internal/domain/valueobject"
)

// feedImporter runs the merge pipeline for one account link: fetch the feed,
// resolve each booked item against the ledger, check the closing balance,
// and record the run.
type feedImporter struct {
	runRepo         adapter.SyncRunRepository
	linkRepo        adapter.AccountLinkRepository
	accountRepo     adapter.AccountRepository
	transactionRepo adapter.LedgerTransactionRepository
	discrepancyRepo adapter.DiscrepancyRepository
	feedClient      adapter.BankFeedClient
	tokenManager    adapter.FeedTokenManager
	emailService    adapter.EmailService
	resolver        *offsetResolver
	config          valueobject.MatchingConfig
}

// importLink syncs one link and returns the recorded run. The run row is
// created up front so failures stay visible in the run history.
func (im *feedImporter) importLink(ctx context.Context, logger *slog.Logger, link *entity.AccountLink) (*entity.SyncRun, error) {
	run := entity.NewSyncRun(link.ID)
	if err := im.runRepo.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to create sync run: %w", err)
	}

	if err := im.merge(ctx, logger, link, run); err != nil {
		run.Fail(err)
		if updateErr := im.runRepo.Update(ctx, run); updateErr != nil {
			logger.Error("Failed to record sync failure", "run_id", run.ID, "error", updateErr)
		}
		return run, err
	}

	if err := im.runRepo.Update(ctx, run); err != nil {
		return run, fmt.Errorf("failed to record sync run: %w", err)
	}

	link.MarkSynced(time.Now().UTC())
	if err := im.linkRepo.Update(ctx, link); err != nil {
		logger.Warn("Failed to stamp link sync time", "link_id", link.ID, "error", err)
	}
	return run, nil
}

// merge performs the fetch, match and balance steps, filling the run's
// counters as it goes.
func (im *feedImporter) merge(ctx context.Context, logger *slog.Logger, link *entity.AccountLink, run *entity.SyncRun) error {
	account, err := im.accountRepo.FindByID(ctx, link.LedgerAccountID)
	if err != nil {
		return fmt.Errorf("failed to load linked account: %w", err)
	}

	feed, err := im.fetchFeed(ctx, link)
	if err != nil {
		return err
	}
	if feed.Balance.Currency != "" && !strings.EqualFold(feed.Balance.Currency, account.Currency) {
		return domainerror.NewSyncError(
			domainerror.ErrCodeCurrencyMismatch,
			fmt.Sprintf("feed reports %s but %s is kept in %s", feed.Balance.Currency, account.FullName, account.Currency),
			domainerror.ErrCurrencyMismatch,
		)
	}

	run.Fetched = len(feed.Booked)
	run.Pending = len(feed.Pending)

	splits, err := im.transactionRepo.FindSplitsByAccount(ctx, link.LedgerAccountID)
	if err != nil {
		return fmt.Errorf("failed to load account splits: %w", err)
	}
	m := newMatcher(im.config, splits)

	for _, item := range feed.Booked {
		if item.Currency != "" && !strings.EqualFold(item.Currency, account.Currency) {
			logger.Error("Feed item currency disagrees with account",
				"external_id", item.ExternalID,
				"item_currency", item.Currency,
				"account_currency", account.Currency)
			run.Conflicts++
			continue
		}
		plan := m.plan(item, item.DateFor(link.DateBasis))
		if err := im.apply(ctx, logger, link, account, m, plan, run); err != nil {
			return err
		}
	}

	ledgerBalance, err := im.accountRepo.GetBalance(ctx, link.LedgerAccountID)
	if err != nil {
		return fmt.Errorf("failed to compute ledger balance: %w", err)
	}
	inSync := im.config.AmountsMatch(feed.Balance.Amount, ledgerBalance)
	if err := im.settleDiscrepancy(ctx, logger, link, account, ledgerBalance, feed.Balance.Amount, inSync); err != nil {
		return err
	}

	run.Complete(ledgerBalance, feed.Balance.Amount, inSync)
	return nil
}

// fetchFeed pulls the balance and transactions for the link's bank account.
// An unauthorized answer drops the stored token pair so the next run mints
// fresh credentials.
func (im *feedImporter) fetchFeed(ctx context.Context, link *entity.AccountLink) (*entity.BankFeed, error) {
	token, err := im.tokenManager.AccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain access token: %w", err)
	}

	balance, err := im.feedClient.GetBalance(ctx, token, link.BankAccountID)
	if err != nil {
		return nil, im.feedError(ctx, "failed to fetch balance", err)
	}
	booked, pending, err := im.feedClient.GetTransactions(ctx, token, link.BankAccountID)
	if err != nil {
		return nil, im.feedError(ctx, "failed to fetch transactions", err)
	}

	return &entity.BankFeed{
		Booked:  booked,
		Pending: pending,
		Balance: *balance,
	}, nil
}

// feedError wraps a provider error, invalidating the stored tokens when the
// provider no longer accepts them.
func (im *feedImporter) feedError(ctx context.Context, msg string, err error) error {
	if errors.Is(err, domainerror.ErrFeedUnauthorized) {
		if invErr := im.tokenManager.Invalidate(ctx); invErr != nil {
			slog.Debug("Failed to drop stale feed tokens", "error", invErr)
		}
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// apply carries out the planned outcome for one feed item.
func (im *feedImporter) apply(ctx context.Context, logger *slog.Logger, link *entity.AccountLink, account *entity.Account, m *matcher, plan itemPlan, run *entity.SyncRun) error {
	switch plan.Outcome {
	case valueobject.MatchOutcomeConfirmed:
		split := plan.Matched.Split
		if split.ReconcileState != entity.ReconcileStateReconciled {
			split.MarkReconciled()
			if err := im.transactionRepo.UpdateSplit(ctx, split); err != nil {
				return fmt.Errorf("failed to reconcile split %s: %w", split.ID, err)
			}
		}
		run.Confirmed++

	case valueobject.MatchOutcomeConflict:
		logger.Error("Feed amount disagrees with referenced split",
			"external_id", plan.Item.ExternalID,
			"split_id", plan.Matched.Split.ID,
			"feed_amount", plan.Item.Amount,
			"split_amount", plan.Matched.Split.Amount)
		run.Conflicts++

	case valueobject.MatchOutcomeLinked:
		split := plan.Matched.Split
		if plan.Item.ExternalID != "" {
			split.SetExternalReference(plan.Item.ExternalID, plan.Item.Description)
			if err := im.transactionRepo.UpdateSplit(ctx, split); err != nil {
				return fmt.Errorf("failed to tag split %s: %w", split.ID, err)
			}
		}
		if !sameDay(plan.Matched.Date, plan.Date) {
			if err := im.transactionRepo.UpdateTransactionDate(ctx, split.TransactionID, plan.Date); err != nil {
				return fmt.Errorf("failed to move transaction %s: %w", split.TransactionID, err)
			}
			plan.Matched.Date = plan.Date
		}
		logger.Debug("Feed item claimed an existing split",
			"external_id", plan.Item.ExternalID,
			"split_id", split.ID,
			"date_distance", valueobject.FormatDateDistance(plan.DateDistanceDays))
		run.Linked++

	case valueobject.MatchOutcomeCreated:
		entry, err := im.createTransaction(ctx, logger, link, account, plan)
		if err != nil {
			return err
		}
		m.registerCreated(plan.Item.ExternalID, entry)
		run.Created++
	}
	return nil
}

// createTransaction builds and persists a new ledger transaction for a feed
// item nothing in the ledger accounted for.
func (im *feedImporter) createTransaction(ctx context.Context, logger *slog.Logger, link *entity.AccountLink, account *entity.Account, plan itemPlan) (*adapter.SplitWithTransaction, error) {
	item := plan.Item

	feedSplit := entity.NewSplit(link.LedgerAccountID, item.Amount, "")
	if item.ExternalID != "" {
		feedSplit.SetExternalReference(item.ExternalID, item.Description)
	}

	resolved, err := im.resolver.resolve(ctx, link.LedgerAccountID, item)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve offsets: %w", err)
	}

	currency := item.Currency
	if currency == "" {
		currency = account.Currency
	}
	splits := append([]*entity.Split{feedSplit}, resolved.Splits...)
	transaction := entity.NewLedgerTransaction(plan.Date, resolved.Description, currency, splits)
	if err := balanceWithImbalance(ctx, im.accountRepo, transaction); err != nil {
		return nil, fmt.Errorf("failed to balance transaction: %w", err)
	}

	if err := im.transactionRepo.Create(ctx, transaction); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	logger.Debug("Created transaction from feed item",
		"transaction_id", transaction.ID,
		"external_id", item.ExternalID,
		"amount", item.Amount)

	return &adapter.SplitWithTransaction{
		Split:       feedSplit,
		Date:        transaction.Date,
		Description: transaction.Description,
	}, nil
}

// settleDiscrepancy reconciles the balance-check outcome with the link's
// open discrepancy: raise or refresh it on a mismatch, resolve it when the
// balances agree again. Only a newly raised discrepancy queues an alert.
func (im *feedImporter) settleDiscrepancy(ctx context.Context, logger *slog.Logger, link *entity.AccountLink, account *entity.Account, ledgerBalance, bankBalance decimal.Decimal, inSync bool) error {
	open, err := im.discrepancyRepo.FindOpenByLink(ctx, link.ID)
	if err != nil && !errors.Is(err, domainerror.ErrDiscrepancyNotFound) {
		return fmt.Errorf("failed to look up open discrepancy: %w", err)
	}

	if inSync {
		if open != nil {
			open.Resolve("balance matched on a later sync")
			if err := im.discrepancyRepo.Update(ctx, open); err != nil {
				return fmt.Errorf("failed to resolve discrepancy: %w", err)
			}
			logger.Info("Balance discrepancy resolved", "discrepancy_id", open.ID)
		}
		return nil
	}

	if open != nil {
		open.Refresh(ledgerBalance, bankBalance)
		if err := im.discrepancyRepo.Update(ctx, open); err != nil {
			return fmt.Errorf("failed to refresh discrepancy: %w", err)
		}
		logger.Warn("Balance discrepancy persists",
			"discrepancy_id", open.ID,
			"difference", open.Difference)
		return nil
	}

	discrepancy := entity.NewDiscrepancy(link.ID, ledgerBalance, bankBalance)
	if err := im.discrepancyRepo.Create(ctx, discrepancy); err != nil {
		return fmt.Errorf("failed to create discrepancy: %w", err)
	}
	logger.Warn("Balance discrepancy detected",
		"discrepancy_id", discrepancy.ID,
		"ledger_balance", ledgerBalance,
		"bank_balance", bankBalance)

	if im.emailService != nil {
		alertErr := im.emailService.QueueDiscrepancyAlertEmail(ctx, adapter.QueueDiscrepancyAlertInput{
			AccountName:   linkDisplayName(link, account),
			Currency:      account.Currency,
			LedgerBalance: ledgerBalance.StringFixed(2),
			BankBalance:   bankBalance.StringFixed(2),
			Difference:    discrepancy.Difference.StringFixed(2),
			DetectedAt:    discrepancy.CreatedAt.Format(time.RFC1123),
		})
		if alertErr != nil {
			logger.Warn("Failed to queue discrepancy alert", "error", alertErr)
		}
	}
	return nil
}

// linkDisplayName prefers the link's alias over the account's full name.
func linkDisplayName(link *entity.AccountLink, account *entity.Account) string {
	if link.Alias != "" {
		return link.Alias
	}
	if account != nil {
		return account.FullName
	}
	return link.BankAccountID
}

// sameDay reports whether two timestamps fall on the same calendar day.
func sameDay(a, b time.Time) bool {
	return dayNumber(a) == dayNumber(b)
}
