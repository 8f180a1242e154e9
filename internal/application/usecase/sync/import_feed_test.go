// Package sync contains bank feed synchronization use cases.
package sync

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ledgerfeed/backend/internal/application/adapter"
	"github.com/ledgerfeed/backend/internal/domain/entity"
	domainerror "github.com/ledgerfeed/backend/internal/domain/error"
	"github.com/ledgerfeed/backend/internal/domain/valueobject"
)

type importerFixture struct {
	importer    *feedImporter
	runRepo     *fakeRunRepo
	linkRepo    *fakeLinkRepo
	accountRepo *fakeAccountRepo
	txRepo      *fakeTransactionRepo
	discRepo    *fakeDiscrepancyRepo
	client      *fakeFeedClient
	tokens      *fakeTokenManager
	emails      *fakeEmailService
	account     *entity.Account
	link        *entity.AccountLink
}

func newImporterFixture() *importerFixture {
	accountRepo := newFakeAccountRepo()
	account := accountRepo.add(entity.NewAccount("Checking", nil, entity.AccountTypeAsset, "EUR", ""))

	linkRepo := newFakeLinkRepo()
	link := linkRepo.add(entity.NewAccountLink(account.ID, nil, "bank-1", "TESTBANK_XX", "Main checking", entity.DateBasisBooking))

	f := &importerFixture{
		runRepo:     &fakeRunRepo{},
		linkRepo:    linkRepo,
		accountRepo: accountRepo,
		txRepo:      newFakeTransactionRepo(),
		discRepo:    newFakeDiscrepancyRepo(),
		client: &fakeFeedClient{
			balance: &entity.BankBalance{Amount: decimal.Zero, Currency: "EUR", BalanceType: "interimBooked"},
		},
		tokens:  &fakeTokenManager{},
		emails:  &fakeEmailService{},
		account: account,
		link:    link,
	}
	f.importer = &feedImporter{
		runRepo:         f.runRepo,
		linkRepo:        f.linkRepo,
		accountRepo:     f.accountRepo,
		transactionRepo: f.txRepo,
		discrepancyRepo: f.discRepo,
		feedClient:      f.client,
		tokenManager:    f.tokens,
		emailService:    f.emails,
		resolver: &offsetResolver{
			transactionRepo: f.txRepo,
			accountRepo:     f.accountRepo,
			ruleRepo:        &fakeRuleRepo{},
		},
		config: valueobject.DefaultMatchingConfig(),
	}
	return f
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFeedImporter_Confirm(t *testing.T) {
	t.Run("marks the referenced split reconciled", func(t *testing.T) {
		f := newImporterFixture()
		entry := referencedEntry("tx-1", "-12.50", day(0))
		f.txRepo.splits = []*adapter.SplitWithTransaction{entry}
		f.client.booked = []entity.BankTransaction{feedItem("tx-1", "-12.50", day(0))}

		run, err := f.importer.importLink(context.Background(), testLogger(), f.link)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if run.Confirmed != 1 {
			t.Errorf("expected 1 confirmed, got %d", run.Confirmed)
		}
		if entry.Split.ReconcileState != entity.ReconcileStateReconciled {
			t.Errorf("expected state y, got %s", entry.Split.ReconcileState)
		}
		if len(f.txRepo.updatedSplits) != 1 {
			t.Errorf("expected 1 split update, got %d", len(f.txRepo.updatedSplits))
		}
	})

	t.Run("leaves an already reconciled split alone", func(t *testing.T) {
		f := newImporterFixture()
		entry := referencedEntry("tx-1", "-12.50", day(0))
		entry.Split.MarkReconciled()
		f.txRepo.splits = []*adapter.SplitWithTransaction{entry}
		f.client.booked = []entity.BankTransaction{feedItem("tx-1", "-12.50", day(0))}

		run, err := f.importer.importLink(context.Background(), testLogger(), f.link)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if run.Confirmed != 1 {
			t.Errorf("expected 1 confirmed, got %d", run.Confirmed)
		}
		if len(f.txRepo.updatedSplits) != 0 {
			t.Errorf("expected no split updates, got %d", len(f.txRepo.updatedSplits))
		}
	})

	t.Run("counts a conflict without touching the split", func(t *testing.T) {
		f := newImporterFixture()
		entry := referencedEntry("tx-1", "-12.50", day(0))
		f.txRepo.splits = []*adapter.SplitWithTransaction{entry}
		f.client.booked = []entity.BankTransaction{feedItem("tx-1", "-99.00", day(0))}

		run, err := f.importer.importLink(context.Background(), testLogger(), f.link)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if run.Conflicts != 1 {
			t.Errorf("expected 1 conflict, got %d", run.Conflicts)
		}
		if len(f.txRepo.updatedSplits) != 0 {
			t.Errorf("expected no split updates, got %d", len(f.txRepo.updatedSplits))
		}
		if entry.Split.ReconcileState != entity.ReconcileStateNew {
			t.Errorf("expected state n, got %s", entry.Split.ReconcileState)
		}
	})
}

func TestFeedImporter_Adopt(t *testing.T) {
	t.Run("tags the claimed split and moves the transaction date", func(t *testing.T) {
		f := newImporterFixture()
		entry := poolEntry("-30.00", day(2))
		f.txRepo.splits = []*adapter.SplitWithTransaction{entry}
		item := feedItem("tx-2", "-30.00", day(0))
		f.client.booked = []entity.BankTransaction{item}

		run, err := f.importer.importLink(context.Background(), testLogger(), f.link)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if run.Linked != 1 {
			t.Errorf("expected 1 linked, got %d", run.Linked)
		}
		if entry.Split.ExternalID == nil || *entry.Split.ExternalID != "tx-2" {
			t.Error("expected the split to carry the item's reference")
		}
		if entry.Split.Counterparty == nil || *entry.Split.Counterparty != item.Description {
			t.Error("expected the split to carry the counterparty text")
		}
		if entry.Split.ReconcileState != entity.ReconcileStateNew {
			t.Errorf("expected the reconcile state untouched, got %s", entry.Split.ReconcileState)
		}
		moved, ok := f.txRepo.movedDates[entry.Split.TransactionID]
		if !ok {
			t.Fatal("expected the parent transaction date to move")
		}
		if !moved.Equal(day(0)) {
			t.Errorf("expected date %s, got %s", day(0), moved)
		}
	})

	t.Run("does not move the date when it already matches", func(t *testing.T) {
		f := newImporterFixture()
		entry := poolEntry("-30.00", day(0))
		f.txRepo.splits = []*adapter.SplitWithTransaction{entry}
		f.client.booked = []entity.BankTransaction{feedItem("tx-2", "-30.00", day(0))}

		if _, err := f.importer.importLink(context.Background(), testLogger(), f.link); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(f.txRepo.movedDates) != 0 {
			t.Errorf("expected no date moves, got %d", len(f.txRepo.movedDates))
		}
	})
}

func TestFeedImporter_Create(t *testing.T) {
	t.Run("creates a balanced transaction against the imbalance account", func(t *testing.T) {
		f := newImporterFixture()
		item := feedItem("tx-9", "-8.00", day(0))
		f.client.booked = []entity.BankTransaction{item}
		f.client.balance.Amount = decimal.RequireFromString("-8.00")
		f.accountRepo.balance = decimal.RequireFromString("-8.00")

		run, err := f.importer.importLink(context.Background(), testLogger(), f.link)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if run.Created != 1 {
			t.Errorf("expected 1 created, got %d", run.Created)
		}
		if len(f.txRepo.created) != 1 {
			t.Fatalf("expected 1 transaction, got %d", len(f.txRepo.created))
		}

		transaction := f.txRepo.created[0]
		if !transaction.IsBalanced() {
			t.Error("expected the transaction to balance")
		}
		if len(transaction.Splits) != 2 {
			t.Fatalf("expected 2 splits, got %d", len(transaction.Splits))
		}

		feedSplit := transaction.SplitForAccount(f.account.ID)
		if feedSplit == nil {
			t.Fatal("expected a split on the linked account")
		}
		if feedSplit.ExternalID == nil || *feedSplit.ExternalID != "tx-9" {
			t.Error("expected the feed split to carry the reference")
		}
		if feedSplit.ReconcileState != entity.ReconcileStateNew {
			t.Errorf("expected state n, got %s", feedSplit.ReconcileState)
		}

		imbalance := f.accountRepo.imbalances["EUR"]
		if imbalance == nil {
			t.Fatal("expected the EUR imbalance account to exist")
		}
		offset := transaction.SplitForAccount(imbalance.ID)
		if offset == nil {
			t.Fatal("expected the offset on the imbalance account")
		}
		if !offset.Amount.Equal(decimal.RequireFromString("8.00")) {
			t.Errorf("expected offset 8.00, got %s", offset.Amount)
		}
	})

	t.Run("a duplicate feed id in one batch confirms the creation", func(t *testing.T) {
		f := newImporterFixture()
		item := feedItem("tx-9", "-8.00", day(0))
		f.client.booked = []entity.BankTransaction{item, item}
		f.client.balance.Amount = decimal.RequireFromString("-8.00")
		f.accountRepo.balance = decimal.RequireFromString("-8.00")

		run, err := f.importer.importLink(context.Background(), testLogger(), f.link)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if run.Created != 1 {
			t.Errorf("expected 1 created, got %d", run.Created)
		}
		if run.Confirmed != 1 {
			t.Errorf("expected the duplicate to confirm, got %d confirmed", run.Confirmed)
		}
		if len(f.txRepo.created) != 1 {
			t.Errorf("expected a single transaction, got %d", len(f.txRepo.created))
		}
	})

	t.Run("replays counterparty history with scaled offsets", func(t *testing.T) {
		f := newImporterFixture()
		groceries := f.accountRepo.add(entity.NewAccount("Groceries", nil, entity.AccountTypeExpense, "EUR", ""))
		household := f.accountRepo.add(entity.NewAccount("Household", nil, entity.AccountTypeExpense, "EUR", ""))

		anchor := entity.NewSplit(f.account.ID, decimal.RequireFromString("-50.00"), "")
		anchor.SetExternalReference("prior-id", "SUPERMARKET ROW 1")
		previous := entity.NewLedgerTransaction(day(-30), "Weekly shop", "EUR", []*entity.Split{
			anchor,
			entity.NewSplit(groceries.ID, decimal.RequireFromString("30.00"), ""),
			entity.NewSplit(household.ID, decimal.RequireFromString("20.00"), ""),
		})
		f.txRepo.latestByCounterparty["SUPERMARKET ROW 1"] = previous

		item := feedItem("tx-10", "-25.00", day(0))
		item.Description = "SUPERMARKET ROW 1"
		f.client.booked = []entity.BankTransaction{item}
		f.client.balance.Amount = decimal.RequireFromString("-25.00")
		f.accountRepo.balance = decimal.RequireFromString("-25.00")

		if _, err := f.importer.importLink(context.Background(), testLogger(), f.link); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(f.txRepo.created) != 1 {
			t.Fatalf("expected 1 transaction, got %d", len(f.txRepo.created))
		}

		transaction := f.txRepo.created[0]
		if transaction.Description != "Weekly shop" {
			t.Errorf("expected the prior description, got %q", transaction.Description)
		}
		if !transaction.IsBalanced() {
			t.Error("expected the transaction to balance")
		}
		groceriesSplit := transaction.SplitForAccount(groceries.ID)
		if groceriesSplit == nil || !groceriesSplit.Amount.Equal(decimal.RequireFromString("15.00")) {
			t.Errorf("expected groceries offset 15.00, got %v", groceriesSplit)
		}
		householdSplit := transaction.SplitForAccount(household.ID)
		if householdSplit == nil || !householdSplit.Amount.Equal(decimal.RequireFromString("10.00")) {
			t.Errorf("expected household offset 10.00, got %v", householdSplit)
		}
	})
}

func TestFeedImporter_BalanceCheck(t *testing.T) {
	t.Run("raises a discrepancy and queues an alert on mismatch", func(t *testing.T) {
		f := newImporterFixture()
		f.accountRepo.balance = decimal.RequireFromString("100.00")
		f.client.balance.Amount = decimal.RequireFromString("90.00")

		run, err := f.importer.importLink(context.Background(), testLogger(), f.link)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if run.BalanceInSync {
			t.Error("expected the run to be out of sync")
		}
		if len(f.discRepo.created) != 1 {
			t.Fatalf("expected 1 discrepancy, got %d", len(f.discRepo.created))
		}
		if !f.discRepo.created[0].Difference.Equal(decimal.RequireFromString("10.00")) {
			t.Errorf("expected difference 10.00, got %s", f.discRepo.created[0].Difference)
		}
		if len(f.emails.alerts) != 1 {
			t.Errorf("expected 1 alert email, got %d", len(f.emails.alerts))
		}
	})

	t.Run("refreshes an open discrepancy without another alert", func(t *testing.T) {
		f := newImporterFixture()
		f.accountRepo.balance = decimal.RequireFromString("100.00")
		f.client.balance.Amount = decimal.RequireFromString("90.00")
		existing := entity.NewDiscrepancy(f.link.ID, decimal.RequireFromString("100.00"), decimal.RequireFromString("95.00"))
		f.discRepo.open[f.link.ID] = existing

		if _, err := f.importer.importLink(context.Background(), testLogger(), f.link); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(f.discRepo.created) != 0 {
			t.Errorf("expected no new discrepancy, got %d", len(f.discRepo.created))
		}
		if len(f.discRepo.updated) != 1 {
			t.Fatalf("expected 1 update, got %d", len(f.discRepo.updated))
		}
		if !existing.Difference.Equal(decimal.RequireFromString("10.00")) {
			t.Errorf("expected refreshed difference 10.00, got %s", existing.Difference)
		}
		if len(f.emails.alerts) != 0 {
			t.Errorf("expected no alert emails, got %d", len(f.emails.alerts))
		}
	})

	t.Run("resolves an open discrepancy when balances agree", func(t *testing.T) {
		f := newImporterFixture()
		f.accountRepo.balance = decimal.RequireFromString("90.00")
		f.client.balance.Amount = decimal.RequireFromString("90.00")
		existing := entity.NewDiscrepancy(f.link.ID, decimal.RequireFromString("100.00"), decimal.RequireFromString("90.00"))
		f.discRepo.open[f.link.ID] = existing

		run, err := f.importer.importLink(context.Background(), testLogger(), f.link)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !run.BalanceInSync {
			t.Error("expected the run to be in sync")
		}
		if existing.Status != entity.DiscrepancyStatusResolved {
			t.Errorf("expected the discrepancy resolved, got %s", existing.Status)
		}
	})
}

func TestFeedImporter_Currency(t *testing.T) {
	t.Run("fails the run when the feed currency disagrees", func(t *testing.T) {
		f := newImporterFixture()
		f.client.balance.Currency = "USD"

		_, err := f.importer.importLink(context.Background(), testLogger(), f.link)
		if !errors.Is(err, domainerror.ErrCurrencyMismatch) {
			t.Fatalf("expected a currency mismatch, got %v", err)
		}
		if len(f.runRepo.updates) != 1 || f.runRepo.updates[0].Status != entity.SyncRunStatusFailed {
			t.Error("expected the run to be recorded as failed")
		}
	})

	t.Run("counts a stray item currency as a conflict", func(t *testing.T) {
		f := newImporterFixture()
		item := feedItem("tx-1", "-5.00", day(0))
		item.Currency = "USD"
		f.client.booked = []entity.BankTransaction{item}
		f.client.balance.Amount = decimal.Zero

		run, err := f.importer.importLink(context.Background(), testLogger(), f.link)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if run.Conflicts != 1 {
			t.Errorf("expected 1 conflict, got %d", run.Conflicts)
		}
		if len(f.txRepo.created) != 0 {
			t.Errorf("expected no transactions, got %d", len(f.txRepo.created))
		}
	})
}

func TestFeedImporter_Unauthorized(t *testing.T) {
	t.Run("drops the stored tokens when the provider rejects them", func(t *testing.T) {
		f := newImporterFixture()
		f.client.balanceErr = domainerror.ErrFeedUnauthorized

		_, err := f.importer.importLink(context.Background(), testLogger(), f.link)
		if !errors.Is(err, domainerror.ErrFeedUnauthorized) {
			t.Fatalf("expected the provider error, got %v", err)
		}
		if f.tokens.invalidated != 1 {
			t.Errorf("expected 1 invalidation, got %d", f.tokens.invalidated)
		}
	})
}
