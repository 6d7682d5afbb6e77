package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/visual-wallet/vault/internal/user"
)

// RegisterUserRoutes wires username registration and lookup endpoints.
func RegisterUserRoutes(r fiber.Router, h *user.Handler) {
	r.Post("/users/username", h.SaveUsername)
	r.Get("/users/by-username/:username", h.ByUsername)
	r.Get("/users/:id/public", h.Public)
}
