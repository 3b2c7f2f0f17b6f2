package wallet

import (
	"time"

	"github.com/pouchpay/pouchpay/internal/ledger"
)

// View is the client-facing projection of a wallet.
type View struct {
	ID              string    `json:"id"`
	User            string    `json:"user"`
	Balance         float64   `json:"balance"`
	Currency        string    `json:"currency"`
	IsActive        bool      `json:"isActive"`
	LastTransaction time.Time `json:"lastTransaction"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// NewView projects a ledger wallet into its response shape.
func NewView(w ledger.Wallet) View {
	return View{
		ID:              w.ID,
		User:            w.OwnerID,
		Balance:         w.Balance.InexactFloat64(),
		Currency:        w.Currency,
		IsActive:        w.Active,
		LastTransaction: w.LastTransaction,
		CreatedAt:       w.CreatedAt,
		UpdatedAt:       w.UpdatedAt,
	}
}
