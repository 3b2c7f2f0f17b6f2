package ledger

import "time"

// TransactionView is the client-facing projection of a transaction, shared
// by every endpoint that returns ledger entries.
type TransactionView struct {
	ID                 string    `json:"id"`
	Wallet             string    `json:"wallet"`
	User               string    `json:"user"`
	Type               string    `json:"type"`
	Amount             float64   `json:"amount"`
	Description        string    `json:"description"`
	Category           string    `json:"category"`
	Status             string    `json:"status"`
	BalanceAfter       float64   `json:"balanceAfter"`
	RelatedUser        string    `json:"relatedUser,omitempty"`
	RelatedTransaction string    `json:"relatedTransaction,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
}

// NewTransactionView projects a transaction into its response shape.
func NewTransactionView(t Transaction) TransactionView {
	return TransactionView{
		ID:                 t.ID,
		Wallet:             t.WalletID,
		User:               t.UserID,
		Type:               t.Type,
		Amount:             t.Amount.InexactFloat64(),
		Description:        t.Description,
		Category:           t.Category,
		Status:             t.Status,
		BalanceAfter:       t.BalanceAfter.InexactFloat64(),
		RelatedUser:        t.RelatedUser,
		RelatedTransaction: t.RelatedTransaction,
		CreatedAt:          t.CreatedAt,
	}
}
