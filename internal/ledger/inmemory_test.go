package ledger

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestInMemoryLedger_OpenWalletStartingBalance(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()
	owner := uuid.NewString()

	w, err := l.OpenWallet(ctx, owner, "")
	if err != nil {
		t.Fatalf("open wallet: %v", err)
	}
	if !w.Balance.Equal(dec("1000")) {
		t.Fatalf("expected starting balance 1000, got %s", w.Balance)
	}
	if w.Currency != "USD" {
		t.Fatalf("expected default currency USD, got %s", w.Currency)
	}
	if !w.Active {
		t.Fatal("expected wallet to be active")
	}

	if _, err := l.OpenWallet(ctx, owner, "EUR"); err != ErrWalletExists {
		t.Fatalf("expected ErrWalletExists, got %v", err)
	}
}

func TestInMemoryLedger_DepositRoundsOnWrite(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()
	owner := uuid.NewString()
	if _, err := l.OpenWallet(ctx, owner, "USD"); err != nil {
		t.Fatalf("open wallet: %v", err)
	}

	res, err := l.Deposit(ctx, Posting{OwnerID: owner, Amount: dec("19.999"), Description: "Deposit"})
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if !res.Transaction.Amount.Equal(dec("20")) {
		t.Fatalf("expected amount rounded to 20.00, got %s", res.Transaction.Amount)
	}
	if !res.Balance.Equal(dec("1020")) {
		t.Fatalf("expected balance 1020.00, got %s", res.Balance)
	}
	if res.Transaction.Type != TypeDeposit || res.Transaction.Category != CategoryIncome {
		t.Fatalf("unexpected type/category: %s/%s", res.Transaction.Type, res.Transaction.Category)
	}
	if !res.Transaction.BalanceAfter.Equal(res.Balance) {
		t.Fatalf("balance after %s does not match wallet balance %s", res.Transaction.BalanceAfter, res.Balance)
	}
}

func TestInMemoryLedger_WithdrawInsufficientNoSideEffects(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()
	owner := uuid.NewString()
	if _, err := l.OpenWallet(ctx, owner, "USD"); err != nil {
		t.Fatalf("open wallet: %v", err)
	}

	if _, err := l.Withdraw(ctx, Posting{OwnerID: owner, Amount: dec("1000.01")}); err != ErrInsufficientFunds {
		t.Fatalf("expected insufficient funds, got %v", err)
	}

	page, err := l.History(ctx, HistoryQuery{OwnerID: owner})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if page.Total != 0 {
		t.Fatalf("expected no transactions after rejected withdrawal, got %d", page.Total)
	}
	if !page.Balance.Equal(dec("1000")) {
		t.Fatalf("expected untouched balance 1000, got %s", page.Balance)
	}
}

func TestInMemoryLedger_TransferLinksLegs(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()
	sender := uuid.NewString()
	recipient := uuid.NewString()
	if _, err := l.OpenWallet(ctx, sender, "USD"); err != nil {
		t.Fatalf("open sender wallet: %v", err)
	}
	if _, err := l.OpenWallet(ctx, recipient, "USD"); err != nil {
		t.Fatalf("open recipient wallet: %v", err)
	}

	res, err := l.Transfer(ctx, TransferPosting{
		FromOwnerID:     sender,
		ToOwnerID:       recipient,
		Amount:          dec("50"),
		FromDescription: "Transfer out",
		ToDescription:   "Transfer in",
	})
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}

	if !res.FromBalance.Equal(dec("950")) || !res.ToBalance.Equal(dec("1050")) {
		t.Fatalf("unexpected balances: from=%s to=%s", res.FromBalance, res.ToBalance)
	}
	if res.OutLeg.Type != TypeTransferOut || res.InLeg.Type != TypeTransferIn {
		t.Fatalf("unexpected leg types: %s/%s", res.OutLeg.Type, res.InLeg.Type)
	}
	if res.OutLeg.RelatedTransaction != res.InLeg.ID {
		t.Fatal("out leg does not reference in leg")
	}
	if res.InLeg.RelatedTransaction != res.OutLeg.ID {
		t.Fatal("in leg does not reference out leg")
	}
	if res.OutLeg.RelatedUser != recipient || res.InLeg.RelatedUser != sender {
		t.Fatal("legs do not reference the counterparty user")
	}

	// The stored out leg must carry the backfilled link too.
	page, err := l.History(ctx, HistoryQuery{OwnerID: sender, Type: TypeTransferOut})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(page.Transactions) != 1 || page.Transactions[0].RelatedTransaction != res.InLeg.ID {
		t.Fatal("stored out leg missing backfilled related transaction")
	}
}

func TestInMemoryLedger_TransferInsufficient(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()
	sender := uuid.NewString()
	recipient := uuid.NewString()
	l.OpenWallet(ctx, sender, "USD")
	l.OpenWallet(ctx, recipient, "USD")
	SeedBalance(l, sender, dec("10"))

	if _, err := l.Transfer(ctx, TransferPosting{FromOwnerID: sender, ToOwnerID: recipient, Amount: dec("10.01")}); err != ErrInsufficientFunds {
		t.Fatalf("expected insufficient funds, got %v", err)
	}
}

func TestInMemoryLedger_HistoryPagination(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()
	owner := uuid.NewString()
	l.OpenWallet(ctx, owner, "USD")

	for i := 1; i <= 25; i++ {
		if _, err := l.Deposit(ctx, Posting{OwnerID: owner, Amount: decimal.NewFromInt(int64(i))}); err != nil {
			t.Fatalf("deposit %d: %v", i, err)
		}
	}

	page, err := l.History(ctx, HistoryQuery{OwnerID: owner, Page: 2, Limit: 10})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if page.Total != 25 || page.Pages != 3 {
		t.Fatalf("expected total 25 pages 3, got %d/%d", page.Total, page.Pages)
	}
	if len(page.Transactions) != 10 {
		t.Fatalf("expected 10 transactions, got %d", len(page.Transactions))
	}
	// Newest first: page 2 starts with the 15th deposit.
	if !page.Transactions[0].Amount.Equal(dec("15")) {
		t.Fatalf("expected first entry amount 15, got %s", page.Transactions[0].Amount)
	}
	if !page.Transactions[9].Amount.Equal(dec("6")) {
		t.Fatalf("expected last entry amount 6, got %s", page.Transactions[9].Amount)
	}
}

func TestInMemoryLedger_SummaryBuckets(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()
	owner := uuid.NewString()
	other := uuid.NewString()
	l.OpenWallet(ctx, owner, "USD")
	l.OpenWallet(ctx, other, "USD")

	l.Deposit(ctx, Posting{OwnerID: owner, Amount: dec("100")})
	l.Deposit(ctx, Posting{OwnerID: owner, Amount: dec("200")})
	l.Withdraw(ctx, Posting{OwnerID: owner, Amount: dec("50")})
	l.Transfer(ctx, TransferPosting{FromOwnerID: owner, ToOwnerID: other, Amount: dec("25")})
	l.Transfer(ctx, TransferPosting{FromOwnerID: other, ToOwnerID: owner, Amount: dec("10")})

	s, err := l.Summary(ctx, owner, DateRange{})
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if s.Deposits.Count != 2 || !s.Deposits.TotalAmount.Equal(dec("300")) {
		t.Fatalf("unexpected deposits bucket: %+v", s.Deposits)
	}
	if s.Withdrawals.Count != 1 || !s.Withdrawals.TotalAmount.Equal(dec("50")) {
		t.Fatalf("unexpected withdrawals bucket: %+v", s.Withdrawals)
	}
	// Gross transfers: the 25 out leg plus the 10 in leg.
	if s.Transfers.Count != 2 || !s.Transfers.TotalAmount.Equal(dec("35")) {
		t.Fatalf("unexpected transfers bucket: %+v", s.Transfers)
	}
}

func TestInMemoryLedger_ConcurrentWithdrawalsNeverOverdraw(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()
	owner := uuid.NewString()
	l.OpenWallet(ctx, owner, "USD")
	SeedBalance(l, owner, dec("100"))

	const workers = 10
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Outcome depends on ordering; the invariant is no overdraw.
			l.Withdraw(ctx, Posting{OwnerID: owner, Amount: dec("30")})
		}()
	}
	wg.Wait()

	w, err := l.WalletByOwner(ctx, owner)
	if err != nil {
		t.Fatalf("wallet: %v", err)
	}
	if w.Balance.IsNegative() {
		t.Fatalf("balance went negative: %s", w.Balance)
	}
	if !w.Balance.Equal(dec("10")) {
		t.Fatalf("expected 3 withdrawals to succeed leaving 10, got %s", w.Balance)
	}
}
