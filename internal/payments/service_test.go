package payments

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/pouchpay/pouchpay/internal/identity"
	"github.com/pouchpay/pouchpay/internal/ledger"
	"github.com/pouchpay/pouchpay/internal/notification"
)

type testNotifier struct {
	last notification.Message
}

func (n *testNotifier) Send(_ context.Context, msg notification.Message) error {
	n.last = msg
	return nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

type fixture struct {
	svc      *Service
	led      ledger.Ledger
	notifier *testNotifier
	sender   identity.User
	receiver identity.User
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()

	led := ledger.NewInMemory()
	repo := identity.NewMemoryRepository()
	ids := identity.NewService(repo)

	sender, err := ids.Register(ctx, identity.Credentials{Name: "Sender", Email: "sender@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("register sender: %v", err)
	}
	receiver, err := ids.Register(ctx, identity.Credentials{Name: "Receiver", Email: "receiver@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("register receiver: %v", err)
	}
	if _, err := led.OpenWallet(ctx, sender.ID, "USD"); err != nil {
		t.Fatalf("open sender wallet: %v", err)
	}
	if _, err := led.OpenWallet(ctx, receiver.ID, "USD"); err != nil {
		t.Fatalf("open receiver wallet: %v", err)
	}

	notifier := &testNotifier{}
	return fixture{
		svc:      NewService(led, ids, repo, notifier),
		led:      led,
		notifier: notifier,
		sender:   sender,
		receiver: receiver,
	}
}

func TestTransferSuccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Transfer(ctx, TransferInput{
		SenderID:       f.sender.ID,
		RecipientEmail: "Receiver@Example.com",
		Amount:         dec("50"),
	})
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}

	if !res.NewBalance.Equal(dec("950")) {
		t.Fatalf("expected sender balance 950, got %s", res.NewBalance)
	}
	if res.Transaction.Type != ledger.TypeTransferOut {
		t.Fatalf("expected out leg, got %s", res.Transaction.Type)
	}
	if res.Transaction.Description != "Transfer to receiver@example.com" {
		t.Fatalf("unexpected default description: %q", res.Transaction.Description)
	}
	if res.Recipient.Email != "receiver@example.com" {
		t.Fatalf("unexpected recipient: %+v", res.Recipient)
	}

	w, err := f.led.WalletByOwner(ctx, f.receiver.ID)
	if err != nil {
		t.Fatalf("receiver wallet: %v", err)
	}
	if !w.Balance.Equal(dec("1050")) {
		t.Fatalf("expected receiver balance 1050, got %s", w.Balance)
	}

	// Both legs exist and reference each other.
	page, err := f.led.History(ctx, ledger.HistoryQuery{OwnerID: f.receiver.ID, Type: ledger.TypeTransferIn})
	if err != nil {
		t.Fatalf("receiver history: %v", err)
	}
	if len(page.Transactions) != 1 {
		t.Fatalf("expected one in leg, got %d", len(page.Transactions))
	}
	inLeg := page.Transactions[0]
	if inLeg.RelatedTransaction != res.Transaction.ID || res.Transaction.RelatedTransaction != inLeg.ID {
		t.Fatal("transfer legs do not reference each other")
	}

	if f.notifier.last.Kind != notification.KindTransferReceived {
		t.Fatal("expected recipient notification")
	}
	if f.notifier.last.Destination != "receiver@example.com" {
		t.Fatalf("unexpected notification destination: %s", f.notifier.last.Destination)
	}
}

func TestTransferToSelf(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Transfer(context.Background(), TransferInput{
		SenderID:       f.sender.ID,
		RecipientEmail: "sender@example.com",
		Amount:         dec("10"),
	})
	if err != ErrSelfTransfer {
		t.Fatalf("expected ErrSelfTransfer, got %v", err)
	}

	page, _ := f.led.History(context.Background(), ledger.HistoryQuery{OwnerID: f.sender.ID})
	if page.Total != 0 {
		t.Fatalf("self transfer left side effects: %d entries", page.Total)
	}
}

func TestTransferRecipientMissing(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Transfer(context.Background(), TransferInput{
		SenderID:       f.sender.ID,
		RecipientEmail: "ghost@example.com",
		Amount:         dec("10"),
	})
	if err != ErrRecipientNotFound {
		t.Fatalf("expected ErrRecipientNotFound, got %v", err)
	}
}

func TestTransferInsufficientFunds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ledger.SeedBalance(f.led, f.sender.ID, dec("5"))

	_, err := f.svc.Transfer(ctx, TransferInput{
		SenderID:       f.sender.ID,
		RecipientEmail: "receiver@example.com",
		Amount:         dec("10"),
	})
	if err != ledger.ErrInsufficientFunds {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	w, _ := f.led.WalletByOwner(ctx, f.receiver.ID)
	if !w.Balance.Equal(dec("1000")) {
		t.Fatalf("receiver balance changed on rejected transfer: %s", w.Balance)
	}
}

func TestTransferValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Transfer(ctx, TransferInput{SenderID: f.sender.ID, RecipientEmail: "", Amount: dec("10")}); err != ErrInvalidAmount {
		t.Fatalf("missing recipient: expected ErrInvalidAmount, got %v", err)
	}
	if _, err := f.svc.Transfer(ctx, TransferInput{SenderID: f.sender.ID, RecipientEmail: "receiver@example.com", Amount: dec("0")}); err != ErrInvalidAmount {
		t.Fatalf("zero amount: expected ErrInvalidAmount, got %v", err)
	}
}
