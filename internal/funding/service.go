package funding

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pouchpay/pouchpay/internal/ledger"
)

const maxDescriptionLen = 200

var (
	// ErrInvalidAmount occurs when the amount is missing, non-positive, or
	// below the 0.01 minimum.
	ErrInvalidAmount = errors.New("please provide a valid amount")

	// ErrDescriptionTooLong occurs when the free-text description exceeds
	// the 200 character limit.
	ErrDescriptionTooLong = fmt.Errorf("description cannot exceed %d characters", maxDescriptionLen)
)

// Service handles money moving into and out of a single wallet.
type Service struct {
	ledger ledger.Ledger
}

// NewService builds a funding service.
func NewService(l ledger.Ledger) *Service {
	return &Service{ledger: l}
}

// Input captures a deposit or withdrawal request.
type Input struct {
	UserID      string
	Amount      decimal.Decimal
	Description string
}

// Result is the domain outcome of a deposit or withdrawal.
type Result struct {
	Transaction ledger.Transaction
	NewBalance  decimal.Decimal
}

// Deposit credits the user's wallet and records the ledger entry.
func (s *Service) Deposit(ctx context.Context, input Input) (Result, error) {
	description, err := validate(input, "Deposit")
	if err != nil {
		return Result{}, err
	}

	posted, err := s.ledger.Deposit(ctx, ledger.Posting{
		OwnerID:     input.UserID,
		Amount:      input.Amount,
		Description: description,
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Transaction: posted.Transaction, NewBalance: posted.Balance}, nil
}

// Withdraw debits the user's wallet after the ledger verifies sufficiency.
func (s *Service) Withdraw(ctx context.Context, input Input) (Result, error) {
	description, err := validate(input, "Withdrawal")
	if err != nil {
		return Result{}, err
	}

	posted, err := s.ledger.Withdraw(ctx, ledger.Posting{
		OwnerID:     input.UserID,
		Amount:      input.Amount,
		Description: description,
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Transaction: posted.Transaction, NewBalance: posted.Balance}, nil
}

// validate checks the amount and description and applies the fallback
// description for the operation.
func validate(input Input, fallback string) (string, error) {
	if input.Amount.LessThan(ledger.MinAmount) {
		return "", ErrInvalidAmount
	}
	description := strings.TrimSpace(input.Description)
	if len(description) > maxDescriptionLen {
		return "", ErrDescriptionTooLong
	}
	if description == "" {
		description = fallback
	}
	return description, nil
}
