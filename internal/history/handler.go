package history

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/pouchpay/pouchpay/internal/ledger"
)

// Handler exposes the transaction history endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a history handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type bucketView struct {
	Count       int     `json:"count"`
	TotalAmount float64 `json:"totalAmount"`
}

func newBucketView(b ledger.Bucket) bucketView {
	return bucketView{Count: b.Count, TotalAmount: b.TotalAmount.InexactFloat64()}
}

// List handles GET /transactions.
func (h *Handler) List(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)

	page, err := h.service.List(c.UserContext(), ListInput{
		UserID:    uid,
		Type:      c.Query("type"),
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
		Page:      c.QueryInt("page", 1),
		Limit:     c.QueryInt("limit", 10),
	})
	if err != nil {
		return mapError(err)
	}

	views := make([]ledger.TransactionView, 0, len(page.Transactions))
	for _, tx := range page.Transactions {
		views = append(views, ledger.NewTransactionView(tx))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"transactions": views,
			"pagination": fiber.Map{
				"page":  page.Page,
				"limit": page.Limit,
				"total": page.Total,
				"pages": page.Pages,
			},
			"currentBalance": page.Balance.InexactFloat64(),
		},
	})
}

// Summary handles GET /transactions/summary.
func (h *Handler) Summary(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)

	sum, err := h.service.Summary(c.UserContext(), uid, c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		return mapError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"summary": fiber.Map{
				"deposits":    newBucketView(sum.Deposits),
				"withdrawals": newBucketView(sum.Withdrawals),
				"transfers":   newBucketView(sum.Transfers),
			},
			"currentBalance": sum.Balance.InexactFloat64(),
		},
	})
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidType) || errors.Is(err, ErrInvalidDate):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ledger.ErrWalletNotFound):
		return fiber.NewError(http.StatusNotFound, "wallet not found")
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
