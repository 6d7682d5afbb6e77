package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/visual-wallet/vault/internal/transfer"
)

// RegisterTransferRoutes wires the transfer endpoint and history listing.
func RegisterTransferRoutes(r fiber.Router, h *transfer.Handler, rateLimit fiber.Handler) {
	r.Post("/transfers", rateLimit, h.Send)
	r.Get("/transfers/history", h.History)
}
