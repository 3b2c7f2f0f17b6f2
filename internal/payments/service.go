package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pouchpay/pouchpay/internal/identity"
	"github.com/pouchpay/pouchpay/internal/ledger"
	"github.com/pouchpay/pouchpay/internal/notification"
)

const maxDescriptionLen = 200

var (
	// ErrInvalidAmount occurs when the amount is missing, non-positive, or
	// below the 0.01 minimum.
	ErrInvalidAmount = errors.New("please provide recipient email and valid amount")

	// ErrSelfTransfer occurs when the recipient resolves to the sender.
	ErrSelfTransfer = errors.New("cannot transfer to yourself")

	// ErrRecipientNotFound occurs when no user matches the recipient email.
	ErrRecipientNotFound = errors.New("recipient not found")

	// ErrDescriptionTooLong occurs when the free-text description exceeds
	// the 200 character limit.
	ErrDescriptionTooLong = fmt.Errorf("description cannot exceed %d characters", maxDescriptionLen)
)

// Service moves funds between two users' wallets.
type Service struct {
	ledger   ledger.Ledger
	ids      *identity.Service
	idRepo   identity.Repository
	notifier notification.Notifier
}

// NewService constructs a payments service.
func NewService(l ledger.Ledger, ids *identity.Service, idRepo identity.Repository, notifier notification.Notifier) *Service {
	return &Service{ledger: l, ids: ids, idRepo: idRepo, notifier: notifier}
}

// TransferInput captures the data needed to move funds to another user.
type TransferInput struct {
	SenderID       string
	RecipientEmail string
	Amount         decimal.Decimal
	Description    string
}

// TransferResult describes the outcome for the sender: their leg of the
// transfer, the recipient's public identity, and their new balance.
type TransferResult struct {
	Transaction ledger.Transaction
	Recipient   identity.Profile
	NewBalance  decimal.Decimal
}

// Transfer validates the request, posts both ledger legs, and notifies the
// recipient.
func (s *Service) Transfer(ctx context.Context, input TransferInput) (TransferResult, error) {
	if strings.TrimSpace(input.RecipientEmail) == "" || input.Amount.LessThan(ledger.MinAmount) {
		return TransferResult{}, ErrInvalidAmount
	}

	description := strings.TrimSpace(input.Description)
	if len(description) > maxDescriptionLen {
		return TransferResult{}, ErrDescriptionTooLong
	}

	sender, err := s.idRepo.FindByID(ctx, input.SenderID)
	if err != nil {
		return TransferResult{}, err
	}

	recipient, err := s.ids.ResolveByEmail(ctx, input.RecipientEmail)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			return TransferResult{}, ErrRecipientNotFound
		}
		return TransferResult{}, err
	}
	if recipient.ID == sender.ID {
		return TransferResult{}, ErrSelfTransfer
	}

	fromDescription := description
	toDescription := description
	if description == "" {
		fromDescription = fmt.Sprintf("Transfer to %s", recipient.Email)
		toDescription = fmt.Sprintf("Transfer from %s", sender.Email)
	}

	posted, err := s.ledger.Transfer(ctx, ledger.TransferPosting{
		FromOwnerID:     sender.ID,
		ToOwnerID:       recipient.ID,
		Amount:          input.Amount,
		FromDescription: fromDescription,
		ToDescription:   toDescription,
	})
	if err != nil {
		return TransferResult{}, err
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindTransferReceived,
			Destination: recipient.Email,
			Body:        fmt.Sprintf("You received %s from %s", posted.InLeg.Amount.StringFixed(2), sender.Email),
		})
	}

	return TransferResult{
		Transaction: posted.OutLeg,
		Recipient:   recipient.Public(),
		NewBalance:  posted.FromBalance,
	}, nil
}
