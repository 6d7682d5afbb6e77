package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/visual-wallet/vault/internal/wallet"
)

// RegisterWalletRoutes wires wallet provisioning and listing endpoints.
func RegisterWalletRoutes(r fiber.Router, h *wallet.Handler) {
	r.Post("/wallets/init", h.Init)
	r.Get("/wallets", h.List)
}
