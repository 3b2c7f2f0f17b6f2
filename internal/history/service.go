package history

import (
	"context"
	"errors"
	"time"

	"github.com/pouchpay/pouchpay/internal/ledger"
)

var (
	// ErrInvalidType is returned when the type filter is not a known
	// transaction type.
	ErrInvalidType = errors.New("invalid transaction type")
	// ErrInvalidDate is returned when a date filter cannot be parsed.
	ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")
)

const dateLayout = "2006-01-02"

// Service reads a user's transaction history out of the ledger.
type Service struct {
	ledger ledger.Ledger
}

// NewService constructs a history service.
func NewService(l ledger.Ledger) *Service {
	return &Service{ledger: l}
}

// ListInput carries the raw filters of a history listing.
type ListInput struct {
	UserID    string
	Type      string
	StartDate string
	EndDate   string
	Page      int
	Limit     int
}

// List returns the user's transactions newest first, filtered by type and
// date range, one page at a time.
func (s *Service) List(ctx context.Context, in ListInput) (ledger.HistoryPage, error) {
	if err := validateType(in.Type); err != nil {
		return ledger.HistoryPage{}, err
	}
	r, err := parseRange(in.StartDate, in.EndDate)
	if err != nil {
		return ledger.HistoryPage{}, err
	}
	return s.ledger.History(ctx, ledger.HistoryQuery{
		OwnerID: in.UserID,
		Type:    in.Type,
		Range:   r,
		Page:    in.Page,
		Limit:   in.Limit,
	})
}

// Summary aggregates the user's transactions per type over an optional
// date range.
func (s *Service) Summary(ctx context.Context, userID, startDate, endDate string) (ledger.Summary, error) {
	r, err := parseRange(startDate, endDate)
	if err != nil {
		return ledger.Summary{}, err
	}
	return s.ledger.Summary(ctx, userID, r)
}

func validateType(t string) error {
	switch t {
	case "", ledger.TypeDeposit, ledger.TypeWithdrawal, ledger.TypeTransferIn, ledger.TypeTransferOut:
		return nil
	}
	return ErrInvalidType
}

func parseRange(startDate, endDate string) (ledger.DateRange, error) {
	var r ledger.DateRange
	if startDate != "" {
		start, err := time.Parse(dateLayout, startDate)
		if err != nil {
			return ledger.DateRange{}, ErrInvalidDate
		}
		r.Start = start
	}
	if endDate != "" {
		end, err := time.Parse(dateLayout, endDate)
		if err != nil {
			return ledger.DateRange{}, ErrInvalidDate
		}
		// The end date is inclusive: cover the whole day.
		r.End = end.Add(24*time.Hour - time.Nanosecond)
	}
	return r, nil
}
