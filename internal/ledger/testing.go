package ledger

import "github.com/shopspring/decimal"

// SeedBalance is a test helper that overwrites a wallet's balance when
// using the in-memory ledger.
func SeedBalance(l Ledger, ownerID string, balance decimal.Decimal) {
	if mem, ok := l.(*inMemoryLedger); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		if w, exists := mem.wallets[ownerID]; exists {
			w.Balance = round2(balance)
			mem.wallets[ownerID] = w
		}
	}
}
