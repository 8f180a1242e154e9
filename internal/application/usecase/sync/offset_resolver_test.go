// Package sync contains bank feed synchronization use cases.
package sync

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerfeed/backend/internal/domain/entity"
)

func newTestResolver() (*offsetResolver, *fakeTransactionRepo, *fakeAccountRepo, *fakeRuleRepo) {
	txRepo := newFakeTransactionRepo()
	accountRepo := newFakeAccountRepo()
	ruleRepo := &fakeRuleRepo{}
	resolver := &offsetResolver{
		transactionRepo: txRepo,
		accountRepo:     accountRepo,
		ruleRepo:        ruleRepo,
	}
	return resolver, txRepo, accountRepo, ruleRepo
}

func TestOffsetResolver_Rules(t *testing.T) {
	t.Run("matches the counterparty case-insensitively", func(t *testing.T) {
		resolver, _, _, ruleRepo := newTestResolver()
		target := uuid.New()
		ruleRepo.rules = []*entity.PayeeRule{entity.NewPayeeRule("coffee", target, "", 10)}

		resolved, err := resolver.resolve(context.Background(), uuid.New(), feedItem("tx-1", "-4.50", day(0)))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(resolved.Splits) != 1 || resolved.Splits[0].AccountID != target {
			t.Fatal("expected the rule's account to take the offset")
		}
		if !resolved.Splits[0].Amount.Equal(decimal.RequireFromString("4.50")) {
			t.Errorf("expected offset 4.50, got %s", resolved.Splits[0].Amount)
		}
		if resolved.Description != "COFFEE SHOP 42" {
			t.Errorf("expected the item description kept, got %q", resolved.Description)
		}
	})

	t.Run("rule description replaces the item description", func(t *testing.T) {
		resolver, _, _, ruleRepo := newTestResolver()
		ruleRepo.rules = []*entity.PayeeRule{entity.NewPayeeRule("coffee", uuid.New(), "Morning coffee", 10)}

		resolved, err := resolver.resolve(context.Background(), uuid.New(), feedItem("tx-1", "-4.50", day(0)))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resolved.Description != "Morning coffee" {
			t.Errorf("expected the rule description, got %q", resolved.Description)
		}
	})

	t.Run("first matching rule wins", func(t *testing.T) {
		resolver, _, _, ruleRepo := newTestResolver()
		first := uuid.New()
		second := uuid.New()
		ruleRepo.rules = []*entity.PayeeRule{
			entity.NewPayeeRule("coffee shop", first, "", 20),
			entity.NewPayeeRule("coffee", second, "", 10),
		}

		resolved, err := resolver.resolve(context.Background(), uuid.New(), feedItem("tx-1", "-4.50", day(0)))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resolved.Splits[0].AccountID != first {
			t.Error("expected the higher priority rule to win")
		}
	})

	t.Run("an invalid pattern is skipped", func(t *testing.T) {
		resolver, _, accountRepo, ruleRepo := newTestResolver()
		target := uuid.New()
		ruleRepo.rules = []*entity.PayeeRule{
			entity.NewPayeeRule("(", uuid.New(), "", 20),
			entity.NewPayeeRule("coffee", target, "", 10),
		}

		resolved, err := resolver.resolve(context.Background(), uuid.New(), feedItem("tx-1", "-4.50", day(0)))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resolved.Splits[0].AccountID != target {
			t.Error("expected the broken rule to be skipped")
		}
		if len(accountRepo.imbalances) != 0 {
			t.Error("expected no imbalance fallback")
		}
	})
}

func TestOffsetResolver_History(t *testing.T) {
	t.Run("scales prior offsets to the feed amount", func(t *testing.T) {
		resolver, txRepo, _, _ := newTestResolver()
		ledgerAccount := uuid.New()
		groceries := uuid.New()
		household := uuid.New()

		anchor := entity.NewSplit(ledgerAccount, decimal.RequireFromString("-50.00"), "")
		previous := entity.NewLedgerTransaction(day(-30), "Weekly shop", "EUR", []*entity.Split{
			anchor,
			entity.NewSplit(groceries, decimal.RequireFromString("30.00"), ""),
			entity.NewSplit(household, decimal.RequireFromString("20.00"), ""),
		})
		txRepo.latestByCounterparty["SUPERMARKET ROW 1"] = previous

		item := feedItem("tx-1", "-25.01", day(0))
		item.Description = "SUPERMARKET ROW 1"

		resolved, err := resolver.resolve(context.Background(), ledgerAccount, item)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resolved.Description != "Weekly shop" {
			t.Errorf("expected the prior description, got %q", resolved.Description)
		}
		if len(resolved.Splits) != 2 {
			t.Fatalf("expected 2 offsets, got %d", len(resolved.Splits))
		}
		if !resolved.Splits[0].Amount.Equal(decimal.RequireFromString("15.01")) {
			t.Errorf("expected the first offset rounded to 15.01, got %s", resolved.Splits[0].Amount)
		}
		if !resolved.Splits[1].Amount.Equal(decimal.RequireFromString("10.00")) {
			t.Errorf("expected the remainder 10.00 on the last offset, got %s", resolved.Splits[1].Amount)
		}

		total := item.Amount
		for _, split := range resolved.Splits {
			total = total.Add(split.Amount)
		}
		if !total.IsZero() {
			t.Errorf("expected the offsets to balance the item, total %s", total)
		}
	})

	t.Run("ignores a precedent with a zero anchor", func(t *testing.T) {
		resolver, txRepo, accountRepo, _ := newTestResolver()
		ledgerAccount := uuid.New()

		anchor := entity.NewSplit(ledgerAccount, decimal.Zero, "")
		previous := entity.NewLedgerTransaction(day(-30), "Zero day", "EUR", []*entity.Split{
			anchor,
			entity.NewSplit(uuid.New(), decimal.Zero, ""),
		})
		txRepo.latestByCounterparty["COFFEE SHOP 42"] = previous

		resolved, err := resolver.resolve(context.Background(), ledgerAccount, feedItem("tx-1", "-4.50", day(0)))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if accountRepo.imbalances["EUR"] == nil {
			t.Fatal("expected the imbalance fallback")
		}
		if resolved.Splits[0].AccountID != accountRepo.imbalances["EUR"].ID {
			t.Error("expected the offset on the imbalance account")
		}
	})

	t.Run("ignores a precedent without offsets", func(t *testing.T) {
		resolver, txRepo, accountRepo, _ := newTestResolver()
		ledgerAccount := uuid.New()

		anchor := entity.NewSplit(ledgerAccount, decimal.RequireFromString("-4.50"), "")
		previous := entity.NewLedgerTransaction(day(-30), "Lonely split", "EUR", []*entity.Split{anchor})
		txRepo.latestByCounterparty["COFFEE SHOP 42"] = previous

		_, err := resolver.resolve(context.Background(), ledgerAccount, feedItem("tx-1", "-4.50", day(0)))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if accountRepo.imbalances["EUR"] == nil {
			t.Error("expected the imbalance fallback")
		}
	})
}

func TestOffsetResolver_Fallback(t *testing.T) {
	t.Run("offsets to the currency's imbalance account", func(t *testing.T) {
		resolver, _, accountRepo, _ := newTestResolver()

		resolved, err := resolver.resolve(context.Background(), uuid.New(), feedItem("tx-1", "12.00", day(0)))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		imbalance := accountRepo.imbalances["EUR"]
		if imbalance == nil {
			t.Fatal("expected the EUR imbalance account to be created")
		}
		if imbalance.Name != "Imbalance-EUR" {
			t.Errorf("expected Imbalance-EUR, got %s", imbalance.Name)
		}
		if !resolved.Splits[0].Amount.Equal(decimal.RequireFromString("-12.00")) {
			t.Errorf("expected offset -12.00, got %s", resolved.Splits[0].Amount)
		}
	})
}
