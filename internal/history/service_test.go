package history

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pouchpay/pouchpay/internal/ledger"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func seedLedger(t *testing.T) ledger.Ledger {
	t.Helper()
	ctx := context.Background()

	led := ledger.NewInMemory()
	for _, owner := range []string{"alice", "bob"} {
		if _, err := led.OpenWallet(ctx, owner, "USD"); err != nil {
			t.Fatalf("open wallet: %v", err)
		}
	}
	if _, err := led.Deposit(ctx, ledger.Posting{OwnerID: "alice", Amount: dec("100"), Description: "Deposit"}); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if _, err := led.Withdraw(ctx, ledger.Posting{OwnerID: "alice", Amount: dec("40"), Description: "Withdrawal"}); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if _, err := led.Transfer(ctx, ledger.TransferPosting{
		FromOwnerID:     "alice",
		ToOwnerID:       "bob",
		Amount:          dec("25"),
		FromDescription: "Transfer to bob@example.com",
		ToDescription:   "Transfer from alice@example.com",
	}); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	return led
}

func TestListNewestFirst(t *testing.T) {
	svc := NewService(seedLedger(t))

	page, err := svc.List(context.Background(), ListInput{UserID: "alice"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 3 || page.Pages != 1 {
		t.Fatalf("expected 3 transactions on one page, got total=%d pages=%d", page.Total, page.Pages)
	}
	if page.Transactions[0].Type != ledger.TypeTransferOut {
		t.Fatalf("expected newest entry first, got %s", page.Transactions[0].Type)
	}
	// 1000 + 100 - 40 - 25
	if !page.Balance.Equal(dec("1035")) {
		t.Fatalf("expected balance 1035, got %s", page.Balance)
	}
}

func TestListTypeFilter(t *testing.T) {
	svc := NewService(seedLedger(t))

	page, err := svc.List(context.Background(), ListInput{UserID: "alice", Type: ledger.TypeDeposit})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 1 || page.Transactions[0].Type != ledger.TypeDeposit {
		t.Fatalf("unexpected filtered page: %+v", page)
	}
}

func TestListDateFilter(t *testing.T) {
	svc := NewService(seedLedger(t))
	ctx := context.Background()

	today := time.Now().Format("2006-01-02")
	page, err := svc.List(ctx, ListInput{UserID: "alice", StartDate: today, EndDate: today})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 3 {
		t.Fatalf("expected all transactions within today, got %d", page.Total)
	}

	tomorrow := time.Now().Add(24 * time.Hour).Format("2006-01-02")
	page, err = svc.List(ctx, ListInput{UserID: "alice", StartDate: tomorrow})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 0 {
		t.Fatalf("expected empty page for a future start date, got %d", page.Total)
	}
}

func TestListBadFilters(t *testing.T) {
	svc := NewService(seedLedger(t))
	ctx := context.Background()

	if _, err := svc.List(ctx, ListInput{UserID: "alice", Type: "purchase"}); err != ErrInvalidType {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
	if _, err := svc.List(ctx, ListInput{UserID: "alice", StartDate: "31-12-2024"}); err != ErrInvalidDate {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestSummaryBuckets(t *testing.T) {
	svc := NewService(seedLedger(t))

	sum, err := svc.Summary(context.Background(), "alice", "", "")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.Deposits.Count != 1 || !sum.Deposits.TotalAmount.Equal(dec("100")) {
		t.Fatalf("unexpected deposits bucket: %+v", sum.Deposits)
	}
	if sum.Withdrawals.Count != 1 || !sum.Withdrawals.TotalAmount.Equal(dec("40")) {
		t.Fatalf("unexpected withdrawals bucket: %+v", sum.Withdrawals)
	}
	if sum.Transfers.Count != 1 || !sum.Transfers.TotalAmount.Equal(dec("25")) {
		t.Fatalf("unexpected transfers bucket: %+v", sum.Transfers)
	}
	if !sum.Balance.Equal(dec("1035")) {
		t.Fatalf("expected balance 1035, got %s", sum.Balance)
	}
}
