package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PostgresLedger persists wallets and transactions in PostgreSQL. Every
// mutating operation runs in a single database transaction with the wallet
// rows locked, so the sufficiency check, the entry inserts, and the balance
// updates commit or roll back together.
type PostgresLedger struct {
	db *pgxpool.Pool
}

// NewPostgresLedger constructs a Postgres-backed ledger implementation.
func NewPostgresLedger(db *pgxpool.Pool) *PostgresLedger {
	return &PostgresLedger{db: db}
}

const walletColumns = `id, owner_id, balance::text, currency, active, last_transaction, created_at, updated_at`

const transactionColumns = `id, wallet_id, user_id, type, amount::text, description, category, status,
        balance_after::text, related_user, related_transaction, created_at`

// OpenWallet inserts a wallet row credited with the starting balance.
func (l *PostgresLedger) OpenWallet(ctx context.Context, ownerID, currency string) (Wallet, error) {
	ownerUUID, err := uuid.Parse(ownerID)
	if err != nil {
		return Wallet{}, err
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

	_, err = l.db.Exec(ctx, `INSERT INTO wallets (id, owner_id, balance, currency, active, last_transaction, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		uuid.MustParse(w.ID), ownerUUID, w.Balance.StringFixed(2), w.Currency, w.Active, w.LastTransaction, w.CreatedAt, w.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Wallet{}, ErrWalletExists
		}
		return Wallet{}, err
	}
	return w, nil
}

// WalletByOwner fetches the owner's wallet.
func (l *PostgresLedger) WalletByOwner(ctx context.Context, ownerID string) (Wallet, error) {
	row := l.db.QueryRow(ctx, `SELECT `+walletColumns+` FROM wallets WHERE owner_id = $1`, ownerID)
	return scanWallet(row)
}

// SetCurrency updates the wallet's denomination code.
func (l *PostgresLedger) SetCurrency(ctx context.Context, ownerID, currency string) (Wallet, error) {
	row := l.db.QueryRow(ctx, `UPDATE wallets SET currency = $1, updated_at = now()
        WHERE owner_id = $2
        RETURNING `+walletColumns, strings.ToUpper(currency), ownerID)
	w, err := scanWallet(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Wallet{}, ErrWalletNotFound
	}
	return w, err
}

// Deposit credits the wallet and records the entry in one transaction.
func (l *PostgresLedger) Deposit(ctx context.Context, p Posting) (Posted, error) {
	amount := round2(p.Amount)

	var posted Posted
	err := l.withTx(ctx, func(tx pgx.Tx) error {
		w, err := lockWallet(ctx, tx, p.OwnerID)
		if err != nil {
			return err
		}

		entry, err := insertEntry(ctx, tx, Transaction{
			WalletID:     w.ID,
			UserID:       p.OwnerID,
			Type:         TypeDeposit,
			Amount:       amount,
			Description:  p.Description,
			Category:     CategoryIncome,
			Status:       StatusCompleted,
			BalanceAfter: round2(w.Balance.Add(amount)),
		})
		if err != nil {
			return err
		}

		balance, err := applyDelta(ctx, tx, w, amount)
		if err != nil {
			return err
		}

		posted = Posted{Transaction: entry, Balance: balance}
		return nil
	})
	return posted, err
}

// Withdraw debits the wallet after checking sufficiency under the row lock.
func (l *PostgresLedger) Withdraw(ctx context.Context, p Posting) (Posted, error) {
	amount := round2(p.Amount)

	var posted Posted
	err := l.withTx(ctx, func(tx pgx.Tx) error {
		w, err := lockWallet(ctx, tx, p.OwnerID)
		if err != nil {
			return err
		}
		if w.Balance.LessThan(amount) {
			return ErrInsufficientFunds
		}

		entry, err := insertEntry(ctx, tx, Transaction{
			WalletID:     w.ID,
			UserID:       p.OwnerID,
			Type:         TypeWithdrawal,
			Amount:       amount,
			Description:  p.Description,
			Category:     CategoryExpense,
			Status:       StatusCompleted,
			BalanceAfter: round2(w.Balance.Sub(amount)),
		})
		if err != nil {
			return err
		}

		balance, err := applyDelta(ctx, tx, w, amount.Neg())
		if err != nil {
			return err
		}

		posted = Posted{Transaction: entry, Balance: balance}
		return nil
	})
	return posted, err
}

// Transfer posts both legs, links them, and moves the funds, all within a
// single transaction.
func (l *PostgresLedger) Transfer(ctx context.Context, p TransferPosting) (TransferPosted, error) {
	amount := round2(p.Amount)

	var posted TransferPosted
	err := l.withTx(ctx, func(tx pgx.Tx) error {
		// Lock wallets in a stable order so crossing transfers cannot deadlock.
		first, second := p.FromOwnerID, p.ToOwnerID
		if second < first {
			first, second = second, first
		}
		firstWallet, err := lockWallet(ctx, tx, first)
		if err != nil {
			return err
		}
		secondWallet, err := lockWallet(ctx, tx, second)
		if err != nil {
			return err
		}
		from, to := firstWallet, secondWallet
		if first != p.FromOwnerID {
			from, to = secondWallet, firstWallet
		}

		if from.Balance.LessThan(amount) {
			return ErrInsufficientFunds
		}

		out, err := insertEntry(ctx, tx, Transaction{
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
		if err != nil {
			return err
		}

		in, err := insertEntry(ctx, tx, Transaction{
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
		if err != nil {
			return err
		}

		// Backfill the out leg so the legs reference each other.
		if _, err := tx.Exec(ctx, `UPDATE transactions SET related_transaction = $1 WHERE id = $2`,
			uuid.MustParse(in.ID), uuid.MustParse(out.ID)); err != nil {
			return err
		}
		out.RelatedTransaction = in.ID

		fromBalance, err := applyDelta(ctx, tx, from, amount.Neg())
		if err != nil {
			return err
		}
		toBalance, err := applyDelta(ctx, tx, to, amount)
		if err != nil {
			return err
		}

		posted = TransferPosted{OutLeg: out, InLeg: in, FromBalance: fromBalance, ToBalance: toBalance}
		return nil
	})
	return posted, err
}

// History returns one page of the owner's transactions, newest first.
func (l *PostgresLedger) History(ctx context.Context, q HistoryQuery) (HistoryPage, error) {
	w, err := l.WalletByOwner(ctx, q.OwnerID)
	if err != nil {
		return HistoryPage{}, err
	}

	page, limit := normalizePage(q.Page, q.Limit)

	where := []string{"user_id = $1"}
	args := []any{q.OwnerID}
	if q.Type != "" {
		args = append(args, q.Type)
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}
	if !q.Range.Start.IsZero() {
		args = append(args, q.Range.Start)
		where = append(where, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if !q.Range.End.IsZero() {
		args = append(args, q.Range.End)
		where = append(where, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	clause := strings.Join(where, " AND ")

	var total int
	if err := l.db.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE `+clause, args...).Scan(&total); err != nil {
		return HistoryPage{}, err
	}

	args = append(args, limit, (page-1)*limit)
	query := fmt.Sprintf(`SELECT %s FROM transactions WHERE %s
        ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, transactionColumns, clause, len(args)-1, len(args))

	rows, err := l.db.Query(ctx, query, args...)
	if err != nil {
		return HistoryPage{}, err
	}
	defer rows.Close()

	var entries []Transaction
	for rows.Next() {
		entry, err := scanTransaction(rows)
		if err != nil {
			return HistoryPage{}, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return HistoryPage{}, err
	}

	return HistoryPage{
		Transactions: entries,
		Page:         page,
		Limit:        limit,
		Total:        total,
		Pages:        pageCount(total, limit),
		Balance:      w.Balance,
	}, nil
}

// Summary aggregates the owner's transactions by type within the range.
func (l *PostgresLedger) Summary(ctx context.Context, ownerID string, r DateRange) (Summary, error) {
	w, err := l.WalletByOwner(ctx, ownerID)
	if err != nil {
		return Summary{}, err
	}

	where := []string{"user_id = $1"}
	args := []any{ownerID}
	if !r.Start.IsZero() {
		args = append(args, r.Start)
		where = append(where, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if !r.End.IsZero() {
		args = append(args, r.End)
		where = append(where, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	rows, err := l.db.Query(ctx, `SELECT type, COUNT(*), COALESCE(SUM(amount), 0)::text
        FROM transactions WHERE `+strings.Join(where, " AND ")+` GROUP BY type`, args...)
	if err != nil {
		return Summary{}, err
	}
	defer rows.Close()

	s := NewSummary()
	for rows.Next() {
		var (
			entryType string
			count     int
			totalText string
		)
		if err := rows.Scan(&entryType, &count, &totalText); err != nil {
			return Summary{}, err
		}
		total, err := decimal.NewFromString(totalText)
		if err != nil {
			return Summary{}, fmt.Errorf("parse summary total: %w", err)
		}
		s.fold(entryType, count, total)
	}
	if err := rows.Err(); err != nil {
		return Summary{}, err
	}

	s.Balance = w.Balance
	return s, nil
}

func (l *PostgresLedger) withTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := l.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func lockWallet(ctx context.Context, tx pgx.Tx, ownerID string) (Wallet, error) {
	row := tx.QueryRow(ctx, `SELECT `+walletColumns+` FROM wallets WHERE owner_id = $1 FOR UPDATE`, ownerID)
	w, err := scanWallet(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Wallet{}, ErrWalletNotFound
	}
	return w, err
}

func insertEntry(ctx context.Context, tx pgx.Tx, entry Transaction) (Transaction, error) {
	entry.ID = uuid.NewString()
	entry.CreatedAt = time.Now().UTC()

	var relatedUser, relatedTx any
	if entry.RelatedUser != "" {
		relatedUser = uuid.MustParse(entry.RelatedUser)
	}
	if entry.RelatedTransaction != "" {
		relatedTx = uuid.MustParse(entry.RelatedTransaction)
	}

	_, err := tx.Exec(ctx, `INSERT INTO transactions
        (id, wallet_id, user_id, type, amount, description, category, status, balance_after, related_user, related_transaction, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		uuid.MustParse(entry.ID), uuid.MustParse(entry.WalletID), uuid.MustParse(entry.UserID),
		entry.Type, entry.Amount.StringFixed(2), entry.Description, entry.Category, entry.Status,
		entry.BalanceAfter.StringFixed(2), relatedUser, relatedTx, entry.CreatedAt)
	return entry, err
}

// applyDelta is the raw balance mutator: it writes the rounded adjusted
// balance and stamps the last-transaction time. No bounds check; callers
// validate sufficiency for negative deltas while holding the row lock.
func applyDelta(ctx context.Context, tx pgx.Tx, w Wallet, delta decimal.Decimal) (decimal.Decimal, error) {
	balance := round2(w.Balance.Add(delta))
	_, err := tx.Exec(ctx, `UPDATE wallets SET balance = $1, last_transaction = now(), updated_at = now()
        WHERE id = $2`, balance.StringFixed(2), uuid.MustParse(w.ID))
	return balance, err
}

func scanWallet(row pgx.Row) (Wallet, error) {
	var (
		w           Wallet
		id, ownerID uuid.UUID
		balanceText string
	)
	if err := row.Scan(&id, &ownerID, &balanceText, &w.Currency, &w.Active, &w.LastTransaction, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return Wallet{}, err
	}
	balance, err := decimal.NewFromString(balanceText)
	if err != nil {
		return Wallet{}, fmt.Errorf("parse wallet balance: %w", err)
	}
	w.ID = id.String()
	w.OwnerID = ownerID.String()
	w.Balance = balance
	w.LastTransaction = w.LastTransaction.UTC()
	w.CreatedAt = w.CreatedAt.UTC()
	w.UpdatedAt = w.UpdatedAt.UTC()
	return w, nil
}

func scanTransaction(row pgx.Row) (Transaction, error) {
	var (
		entry                   Transaction
		id, walletID, userID    uuid.UUID
		amountText, balanceText string
		relatedUser, relatedTx  *uuid.UUID
	)
	if err := row.Scan(&id, &walletID, &userID, &entry.Type, &amountText, &entry.Description,
		&entry.Category, &entry.Status, &balanceText, &relatedUser, &relatedTx, &entry.CreatedAt); err != nil {
		return Transaction{}, err
	}

	amount, err := decimal.NewFromString(amountText)
	if err != nil {
		return Transaction{}, fmt.Errorf("parse transaction amount: %w", err)
	}
	balanceAfter, err := decimal.NewFromString(balanceText)
	if err != nil {
		return Transaction{}, fmt.Errorf("parse balance after: %w", err)
	}

	entry.ID = id.String()
	entry.WalletID = walletID.String()
	entry.UserID = userID.String()
	entry.Amount = amount
	entry.BalanceAfter = balanceAfter
	if relatedUser != nil {
		entry.RelatedUser = relatedUser.String()
	}
	if relatedTx != nil {
		entry.RelatedTransaction = relatedTx.String()
	}
	entry.CreatedAt = entry.CreatedAt.UTC()
	return entry, nil
}
