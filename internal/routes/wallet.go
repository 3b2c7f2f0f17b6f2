package routes

import (
    "github.com/gofiber/fiber/v2"

    "github.com/pouchpay/pouchpay/internal/wallet"
)

// RegisterWalletRoutes wires wallet-related endpoints.
func RegisterWalletRoutes(r fiber.Router, h *wallet.Handler) {
    group := r.Group("/wallets")
    group.Get("/my-wallet", h.MyWallet)
    group.Put("/currency", h.UpdateCurrency)
}
