package routes

import (
    "github.com/gofiber/fiber/v2"

    "github.com/pouchpay/pouchpay/internal/payments"
)

// RegisterPaymentRoutes wires the transfer endpoint.
func RegisterPaymentRoutes(r fiber.Router, h *payments.Handler) {
    r.Post("/transfer", h.Transfer)
}
