package routes

import (
    "github.com/gofiber/fiber/v2"

    "github.com/pouchpay/pouchpay/internal/auth"
)

// RegisterAuthRoutes wires the public authentication endpoints.
func RegisterAuthRoutes(r fiber.Router, h *auth.Handler, rateLimiter fiber.Handler) {
    group := r.Group("/auth")
    group.Post("/signup", h.Signup)
    if rateLimiter != nil {
        group.Post("/login", rateLimiter, h.Login)
    } else {
        group.Post("/login", h.Login)
    }
    group.Post("/refresh", h.Refresh)
}

// RegisterSessionRoutes wires the authenticated session endpoints.
func RegisterSessionRoutes(r fiber.Router, h *auth.Handler) {
    group := r.Group("/auth")
    group.Post("/logout", h.Logout)
    group.Get("/me", h.Me)
}
