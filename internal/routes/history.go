package routes

import (
    "github.com/gofiber/fiber/v2"

    "github.com/pouchpay/pouchpay/internal/history"
)

// RegisterHistoryRoutes wires the transaction listing and summary endpoints.
func RegisterHistoryRoutes(r fiber.Router, h *history.Handler) {
    r.Get("/", h.List)
    r.Get("/summary", h.Summary)
}
