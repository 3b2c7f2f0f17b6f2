package routes

import (
    "github.com/gofiber/fiber/v2"

    "github.com/pouchpay/pouchpay/internal/identity"
)

// RegisterProfileRoutes wires the user profile endpoints.
func RegisterProfileRoutes(r fiber.Router, h *identity.Handler) {
    group := r.Group("/users")
    group.Get("/profile", h.Profile)
    group.Put("/profile", h.UpdateProfile)
}
