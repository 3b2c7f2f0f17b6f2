package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types.
const (
	TypeDeposit     = "deposit"
	TypeWithdrawal  = "withdrawal"
	TypeTransferIn  = "transfer_in"
	TypeTransferOut = "transfer_out"
)

// Transaction categories.
const (
	CategoryIncome   = "income"
	CategoryExpense  = "expense"
	CategoryTransfer = "transfer"
	CategoryOther    = "other"
)

// Transaction statuses.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// DefaultCurrency is assigned to wallets opened without an explicit currency.
const DefaultCurrency = "USD"

// StartingBalance is credited to every wallet at signup.
var StartingBalance = decimal.NewFromInt(1000)

// MinAmount is the smallest amount a transaction may carry.
var MinAmount = decimal.New(1, -2)

// Wallet is the per-user balance record.
type Wallet struct {
	ID              string
	OwnerID         string
	Balance         decimal.Decimal
	Currency        string
	Active          bool
	LastTransaction time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Transaction is an append-only entry recording one balance-affecting event.
// BalanceAfter snapshots the owning wallet's balance immediately after the
// entry was posted. RelatedUser and RelatedTransaction are set only on
// transfer legs and reference the counterparty and the paired leg.
type Transaction struct {
	ID                 string
	WalletID           string
	UserID             string
	Type               string
	Amount             decimal.Decimal
	Description        string
	Category           string
	Status             string
	BalanceAfter       decimal.Decimal
	RelatedUser        string
	RelatedTransaction string
	CreatedAt          time.Time
}

// round2 applies the ledger-wide monetary rounding rule: two decimal
// places, halves rounded away from zero.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Round2 exposes the rounding rule to callers preparing amounts for posting.
func Round2(d decimal.Decimal) decimal.Decimal {
	return round2(d)
}
