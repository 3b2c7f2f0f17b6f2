package wallet

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/pouchpay/pouchpay/internal/ledger"
)

// Handler exposes wallet HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a wallet HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// MyWallet returns the authenticated user's wallet.
func (h *Handler) MyWallet(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	w, err := h.service.ByOwner(c.UserContext(), uid)
	if err != nil {
		if errors.Is(err, ledger.ErrWalletNotFound) {
			return fiber.NewError(http.StatusNotFound, "wallet not found")
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    NewView(w),
	})
}

type currencyRequest struct {
	Currency string `json:"currency"`
}

// UpdateCurrency changes the wallet's denomination code.
func (h *Handler) UpdateCurrency(c *fiber.Ctx) error {
	var req currencyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	uid, _ := c.Locals("user_id").(string)

	w, err := h.service.SetCurrency(c.UserContext(), uid, req.Currency)
	if err != nil {
		switch {
		case errors.Is(err, ErrBadCurrency):
			return fiber.NewError(http.StatusBadRequest, ErrBadCurrency.Error())
		case errors.Is(err, ledger.ErrWalletNotFound):
			return fiber.NewError(http.StatusNotFound, "wallet not found")
		default:
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Currency updated successfully",
		"data":    NewView(w),
	})
}
