package identity

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes profile endpoints for the authenticated user.
type Handler struct {
	service *Service
	repo    Repository
}

// NewHandler constructs an identity HTTP handler.
func NewHandler(service *Service, repo Repository) *Handler {
	return &Handler{service: service, repo: repo}
}

// Profile returns the authenticated user's public profile.
func (h *Handler) Profile(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	user, err := h.repo.FindByID(c.UserContext(), uid)
	if err != nil {
		return fiber.NewError(http.StatusNotFound, "user not found")
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"user": user.Public()},
	})
}

type updateProfileRequest struct {
	Name string `json:"name"`
}

// UpdateProfile changes the user's display name.
func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	uid, _ := c.Locals("user_id").(string)

	user, err := h.service.UpdateName(c.UserContext(), uid, req.Name)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return fiber.NewError(http.StatusNotFound, "user not found")
		}
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Profile updated successfully",
		"data":    fiber.Map{"user": user.Public()},
	})
}
