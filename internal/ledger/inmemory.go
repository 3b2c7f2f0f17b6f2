package ledger

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type inMemoryLedger struct {
	mu      sync.RWMutex
	wallets map[string]Wallet // keyed by owner ID
	entries []Transaction     // append order doubles as creation order
}

// NewInMemory creates a concurrency-safe in-memory ledger. It backs unit
// tests and local runs without a database; the mutex serializes every
// operation, so postings are atomic by construction.
func NewInMemory() Ledger {
	return &inMemoryLedger{wallets: make(map[string]Wallet)}
}

func (l *inMemoryLedger) OpenWallet(_ context.Context, ownerID, currency string) (Wallet, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.wallets[ownerID]; exists {
		return Wallet{}, ErrWalletExists
	}

	if currency == "" {
		currency = DefaultCurrency
	}

	now := time.Now().UTC()
	w := Wallet{
		ID:              uuid.NewString(),
		OwnerID:         ownerID,
		Balance:         round2(StartingBalance),
		Currency:        strings.ToUpper(currency),
		Active:          true,
		LastTransaction: now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	l.wallets[ownerID] = w
	return w, nil
}

func (l *inMemoryLedger) WalletByOwner(_ context.Context, ownerID string) (Wallet, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	w, ok := l.wallets[ownerID]
	if !ok {
		return Wallet{}, ErrWalletNotFound
	}
	return w, nil
}

func (l *inMemoryLedger) SetCurrency(_ context.Context, ownerID, currency string) (Wallet, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	w, ok := l.wallets[ownerID]
	if !ok {
		return Wallet{}, ErrWalletNotFound
	}
	w.Currency = strings.ToUpper(currency)
	w.UpdatedAt = time.Now().UTC()
	l.wallets[ownerID] = w
	return w, nil
}

func (l *inMemoryLedger) Deposit(_ context.Context, p Posting) (Posted, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.wallets[p.OwnerID]
	if !ok {
		return Posted{}, ErrWalletNotFound
	}

	amount := round2(p.Amount)
	entry := l.append(Transaction{
		WalletID:     w.ID,
		UserID:       p.OwnerID,
		Type:         TypeDeposit,
		Amount:       amount,
		Description:  p.Description,
		Category:     CategoryIncome,
		Status:       StatusCompleted,
		BalanceAfter: round2(w.Balance.Add(amount)),
	})
	l.applyDelta(&w, amount)

	return Posted{Transaction: entry, Balance: w.Balance}, nil
}

func (l *inMemoryLedger) Withdraw(_ context.Context, p Posting) (Posted, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.wallets[p.OwnerID]
	if !ok {
		return Posted{}, ErrWalletNotFound
	}

	amount := round2(p.Amount)
	if w.Balance.LessThan(amount) {
		return Posted{}, ErrInsufficientFunds
	}

	entry := l.append(Transaction{
		WalletID:     w.ID,
		UserID:       p.OwnerID,
		Type:         TypeWithdrawal,
		Amount:       amount,
		Description:  p.Description,
		Category:     CategoryExpense,
		Status:       StatusCompleted,
		BalanceAfter: round2(w.Balance.Sub(amount)),
	})
	l.applyDelta(&w, amount.Neg())

	return Posted{Transaction: entry, Balance: w.Balance}, nil
}

func (l *inMemoryLedger) Transfer(_ context.Context, p TransferPosting) (TransferPosted, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	from, ok := l.wallets[p.FromOwnerID]
	if !ok {
		return TransferPosted{}, ErrWalletNotFound
	}
	to, ok := l.wallets[p.ToOwnerID]
	if !ok {
		return TransferPosted{}, ErrWalletNotFound
	}

	amount := round2(p.Amount)
	if from.Balance.LessThan(amount) {
		return TransferPosted{}, ErrInsufficientFunds
	}

	out := l.append(Transaction{
		WalletID:     from.ID,
		UserID:       p.FromOwnerID,
		Type:         TypeTransferOut,
		Amount:       amount,
		Description:  p.FromDescription,
		Category:     CategoryTransfer,
		Status:       StatusCompleted,
		BalanceAfter: round2(from.Balance.Sub(amount)),
		RelatedUser:  p.ToOwnerID,
	})
	in := l.append(Transaction{
		WalletID:           to.ID,
		UserID:             p.ToOwnerID,
		Type:               TypeTransferIn,
		Amount:             amount,
		Description:        p.ToDescription,
		Category:           CategoryTransfer,
		Status:             StatusCompleted,
		BalanceAfter:       round2(to.Balance.Add(amount)),
		RelatedUser:        p.FromOwnerID,
		RelatedTransaction: out.ID,
	})

	// Backfill the out leg so both legs reference each other.
	out.RelatedTransaction = in.ID
	l.entries[len(l.entries)-2].RelatedTransaction = in.ID

	l.applyDelta(&from, amount.Neg())
	l.applyDelta(&to, amount)

	return TransferPosted{OutLeg: out, InLeg: in, FromBalance: from.Balance, ToBalance: to.Balance}, nil
}

func (l *inMemoryLedger) History(_ context.Context, q HistoryQuery) (HistoryPage, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	w, ok := l.wallets[q.OwnerID]
	if !ok {
		return HistoryPage{}, ErrWalletNotFound
	}

	page, limit := normalizePage(q.Page, q.Limit)

	var matched []Transaction
	for i := len(l.entries) - 1; i >= 0; i-- {
		entry := l.entries[i]
		if entry.UserID != q.OwnerID {
			continue
		}
		if q.Type != "" && entry.Type != q.Type {
			continue
		}
		if !inRange(entry.CreatedAt, q.Range) {
			continue
		}
		matched = append(matched, entry)
	}

	total := len(matched)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return HistoryPage{
		Transactions: matched[start:end],
		Page:         page,
		Limit:        limit,
		Total:        total,
		Pages:        pageCount(total, limit),
		Balance:      w.Balance,
	}, nil
}

func (l *inMemoryLedger) Summary(_ context.Context, ownerID string, r DateRange) (Summary, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	w, ok := l.wallets[ownerID]
	if !ok {
		return Summary{}, ErrWalletNotFound
	}

	s := NewSummary()
	for _, entry := range l.entries {
		if entry.UserID != ownerID || !inRange(entry.CreatedAt, r) {
			continue
		}
		s.fold(entry.Type, 1, entry.Amount)
	}
	s.Balance = w.Balance
	return s, nil
}

// append stamps identity and creation time on the entry and stores it.
// Callers hold the write lock.
func (l *inMemoryLedger) append(entry Transaction) Transaction {
	entry.ID = uuid.NewString()
	entry.CreatedAt = time.Now().UTC()
	l.entries = append(l.entries, entry)
	return entry
}

// applyDelta is the raw balance mutator: it rounds and stores the adjusted
// balance and stamps the last-transaction time. It performs no bounds
// check; callers validate sufficiency for negative deltas first.
func (l *inMemoryLedger) applyDelta(w *Wallet, delta decimal.Decimal) {
	now := time.Now().UTC()
	w.Balance = round2(w.Balance.Add(delta))
	w.LastTransaction = now
	w.UpdatedAt = now
	l.wallets[w.OwnerID] = *w
}

func inRange(t time.Time, r DateRange) bool {
	if !r.Start.IsZero() && t.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && t.After(r.End) {
		return false
	}
	return true
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return page, limit
}

func pageCount(total, limit int) int {
	if total == 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// NewSummary returns a summary with zeroed buckets so every bucket is
// present in responses even when no transactions matched.
func NewSummary() Summary {
	zero := Bucket{TotalAmount: decimal.Zero}
	return Summary{Deposits: zero, Withdrawals: zero, Transfers: zero, Balance: decimal.Zero}
}

// fold merges a per-type aggregate into the matching bucket. Both transfer
// legs land in the combined gross transfers bucket.
func (s *Summary) fold(entryType string, count int, total decimal.Decimal) {
	switch entryType {
	case TypeDeposit:
		s.Deposits.Count += count
		s.Deposits.TotalAmount = s.Deposits.TotalAmount.Add(total)
	case TypeWithdrawal:
		s.Withdrawals.Count += count
		s.Withdrawals.TotalAmount = s.Withdrawals.TotalAmount.Add(total)
	case TypeTransferIn, TypeTransferOut:
		s.Transfers.Count += count
		s.Transfers.TotalAmount = s.Transfers.TotalAmount.Add(total)
	}
}
