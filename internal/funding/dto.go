package funding

import "github.com/pouchpay/pouchpay/internal/ledger"

// moveRequest captures user-provided data for a deposit or withdrawal.
type moveRequest struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

// moveResponse is the data payload returned for deposits and withdrawals.
type moveResponse struct {
	Transaction ledger.TransactionView `json:"transaction"`
	NewBalance  float64                `json:"newBalance"`
}
