package user

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes username endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a user HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type saveUsernameRequest struct {
	Username string `json:"username"`
}

// SaveUsername records the caller's username.
func (h *Handler) SaveUsername(c *fiber.Ctx) error {
	var req saveUsernameRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}
	callerID, _ := c.Locals("user_id").(string)

	if err := h.service.SaveUsername(c.UserContext(), callerID, req.Username); err != nil {
		switch {
		case errors.Is(err, ErrMissingUsername):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrUsernameTaken):
			return fiber.NewError(http.StatusConflict, err.Error())
		default:
			return fiber.NewError(http.StatusInternalServerError, "could not save username")
		}
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "saved"})
}

// ByUsername resolves a username to a user id. An unknown username is not an
// error: the response carries a null user_id, matching what send flows expect.
func (h *Handler) ByUsername(c *fiber.Ctx) error {
	username := c.Params("username")

	userID, err := h.service.ResolveUsername(c.UserContext(), username)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingUsername):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrNotFound):
			return c.Status(http.StatusOK).JSON(fiber.Map{"user_id": nil})
		default:
			return fiber.NewError(http.StatusInternalServerError, "could not resolve username")
		}
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"user_id": userID})
}

// Public returns the public profile for a user id.
func (h *Handler) Public(c *fiber.Ctx) error {
	userID := c.Params("id")

	rec, err := h.service.PublicProfile(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, "user not found")
		}
		return fiber.NewError(http.StatusInternalServerError, "could not load profile")
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"user_id": rec.UserID, "username": rec.Username})
}
