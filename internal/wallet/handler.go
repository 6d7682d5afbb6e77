package wallet

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Handler exposes wallet HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a wallet HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type walletResponse struct {
	ID        string          `json:"id"`
	OwnerID   string          `json:"owner_id"`
	Currency  string          `json:"currency"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
}

// Init provisions the initial wallet set for the authenticated caller, one
// zero-balance wallet per supported currency.
func (h *Handler) Init(c *fiber.Ctx) error {
	callerID, _ := c.Locals("user_id").(string)

	wallets, err := h.service.Provision(c.UserContext(), callerID)
	if err != nil {
		if errors.Is(err, ErrMissingOwner) {
			return fiber.NewError(http.StatusUnauthorized, "missing caller identity")
		}
		return fiber.NewError(http.StatusInternalServerError, "could not create wallets")
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"wallets": toResponses(wallets)})
}

// List returns the authenticated caller's wallets.
func (h *Handler) List(c *fiber.Ctx) error {
	callerID, _ := c.Locals("user_id").(string)

	wallets, err := h.service.List(c.UserContext(), callerID)
	if err != nil {
		if errors.Is(err, ErrMissingOwner) {
			return fiber.NewError(http.StatusUnauthorized, "missing caller identity")
		}
		return fiber.NewError(http.StatusInternalServerError, "could not list wallets")
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"wallets": toResponses(wallets)})
}

func toResponses(wallets []Wallet) []walletResponse {
	out := make([]walletResponse, 0, len(wallets))
	for _, w := range wallets {
		out = append(out, walletResponse{
			ID:        w.ID,
			OwnerID:   w.OwnerID,
			Currency:  w.Currency.String(),
			Balance:   w.Balance,
			CreatedAt: w.CreatedAt,
		})
	}
	return out
}
