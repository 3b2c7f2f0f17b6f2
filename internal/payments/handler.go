package payments

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/pouchpay/pouchpay/internal/ledger"
)

// Handler exposes the transfer endpoint.
type Handler struct {
	service *Service
}

// NewHandler constructs a payments handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type transferRequest struct {
	RecipientEmail string  `json:"recipientEmail"`
	Amount         float64 `json:"amount"`
	Description    string  `json:"description"`
}

// Transfer moves funds from the authenticated user to the recipient.
func (h *Handler) Transfer(c *fiber.Ctx) error {
	var req transferRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	uid, _ := c.Locals("user_id").(string)

	res, err := h.service.Transfer(c.UserContext(), TransferInput{
		SenderID:       uid,
		RecipientEmail: req.RecipientEmail,
		Amount:         decimal.NewFromFloat(req.Amount),
		Description:    req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAmount) || errors.Is(err, ErrSelfTransfer) || errors.Is(err, ErrDescriptionTooLong):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		case errors.Is(err, ledger.ErrInsufficientFunds):
			return fiber.NewError(http.StatusBadRequest, "insufficient funds")
		case errors.Is(err, ErrRecipientNotFound):
			return fiber.NewError(http.StatusNotFound, "recipient not found")
		case errors.Is(err, ledger.ErrWalletNotFound):
			return fiber.NewError(http.StatusNotFound, "wallet not found")
		default:
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Transfer successful",
		"data": fiber.Map{
			"transaction": ledger.NewTransactionView(res.Transaction),
			"recipient":   fiber.Map{"name": res.Recipient.Name, "email": res.Recipient.Email},
			"newBalance":  res.NewBalance.InexactFloat64(),
		},
	})
}
