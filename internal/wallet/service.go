package wallet

import (
	"context"
	"errors"
	"unicode"

	"github.com/pouchpay/pouchpay/internal/ledger"
)

// ErrBadCurrency indicates the currency code is not a 3-letter code.
var ErrBadCurrency = errors.New("please provide a valid 3-letter currency code")

// Service exposes wallet operations backed by the ledger.
type Service struct {
	ledger ledger.Ledger
}

// NewService builds a wallet service instance.
func NewService(l ledger.Ledger) *Service {
	return &Service{ledger: l}
}

// Open provisions a wallet for a new owner with the starting balance.
func (s *Service) Open(ctx context.Context, ownerID string) (ledger.Wallet, error) {
	return s.ledger.OpenWallet(ctx, ownerID, ledger.DefaultCurrency)
}

// ByOwner retrieves the owner's wallet.
func (s *Service) ByOwner(ctx context.Context, ownerID string) (ledger.Wallet, error) {
	return s.ledger.WalletByOwner(ctx, ownerID)
}

// SetCurrency validates and stores a new denomination code.
func (s *Service) SetCurrency(ctx context.Context, ownerID, currency string) (ledger.Wallet, error) {
	if len(currency) != 3 {
		return ledger.Wallet{}, ErrBadCurrency
	}
	for _, r := range currency {
		if !unicode.IsLetter(r) {
			return ledger.Wallet{}, ErrBadCurrency
		}
	}
	return s.ledger.SetCurrency(ctx, ownerID, currency)
}
