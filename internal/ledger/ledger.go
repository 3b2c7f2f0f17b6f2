package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrWalletNotFound occurs when no wallet exists for the requested owner.
	ErrWalletNotFound = errors.New("wallet not found")

	// ErrWalletExists indicates the owner already has a wallet; ownership is 1:1.
	ErrWalletExists = errors.New("wallet already exists for owner")

	// ErrInsufficientFunds occurs when a debit would take the wallet balance
	// below zero. Debits are rejected, never clamped.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Posting captures a single-wallet debit or credit request.
type Posting struct {
	OwnerID     string
	Amount      decimal.Decimal
	Description string
}

// TransferPosting captures a two-wallet transfer request.
type TransferPosting struct {
	FromOwnerID     string
	ToOwnerID       string
	Amount          decimal.Decimal
	FromDescription string
	ToDescription   string
}

// Posted is the outcome of a deposit or withdrawal.
type Posted struct {
	Transaction Transaction
	Balance     decimal.Decimal
}

// TransferPosted is the outcome of a transfer: both legs plus the updated
// balances on each side.
type TransferPosted struct {
	OutLeg      Transaction
	InLeg       Transaction
	FromBalance decimal.Decimal
	ToBalance   decimal.Decimal
}

// DateRange bounds a query by creation time. Zero values mean unbounded.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// HistoryQuery narrows and pages a transaction listing.
type HistoryQuery struct {
	OwnerID string
	Type    string
	Range   DateRange
	Page    int
	Limit   int
}

// HistoryPage is one page of an owner's ledger, newest first.
type HistoryPage struct {
	Transactions []Transaction
	Page         int
	Limit        int
	Total        int
	Pages        int
	Balance      decimal.Decimal
}

// Bucket aggregates one transaction type.
type Bucket struct {
	Count       int
	TotalAmount decimal.Decimal
}

// Summary groups an owner's transactions by type. Transfers combines both
// legs into one gross bucket.
type Summary struct {
	Deposits    Bucket
	Withdrawals Bucket
	Transfers   Bucket
	Balance     decimal.Decimal
}

// Ledger is the persistence engine behind wallets and their transaction
// entries. Implementations must guarantee that each mutating operation is
// all-or-nothing and that the sufficiency check for debits happens under
// the same guard as the balance write.
type Ledger interface {
	OpenWallet(ctx context.Context, ownerID, currency string) (Wallet, error)
	WalletByOwner(ctx context.Context, ownerID string) (Wallet, error)
	SetCurrency(ctx context.Context, ownerID, currency string) (Wallet, error)
	Deposit(ctx context.Context, p Posting) (Posted, error)
	Withdraw(ctx context.Context, p Posting) (Posted, error)
	Transfer(ctx context.Context, p TransferPosting) (TransferPosted, error)
	History(ctx context.Context, q HistoryQuery) (HistoryPage, error)
	Summary(ctx context.Context, ownerID string, r DateRange) (Summary, error)
}
