package transfer

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/visual-wallet/vault/internal/currency"
	"github.com/visual-wallet/vault/internal/store"
	"github.com/visual-wallet/vault/internal/wallet"
)

// Handler exposes transfer endpoints.
type Handler struct {
	engine *Engine
}

// NewHandler constructs a transfer handler.
func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

type sendRequest struct {
	SenderWalletID   string          `json:"sender_wallet_id"`
	ReceiverWalletID string          `json:"receiver_wallet_id"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
}

// Send processes a wallet-to-wallet transfer for the authenticated caller.
func (h *Handler) Send(c *fiber.Ctx) error {
	var req sendRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}
	callerID, _ := c.Locals("user_id").(string)

	receipt, err := h.engine.Send(c.UserContext(), SendInput{
		CallerID:         callerID,
		SenderWalletID:   req.SenderWalletID,
		ReceiverWalletID: req.ReceiverWalletID,
		Amount:           req.Amount,
		Currency:         req.Currency,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingField), errors.Is(err, ErrInvalidAmount),
			errors.Is(err, ErrSameWallet), errors.Is(err, currency.ErrUnsupported):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrSenderWallet):
			return fiber.NewError(http.StatusForbidden, err.Error())
		case errors.Is(err, ErrReceiverNotFound):
			return fiber.NewError(http.StatusNotFound, err.Error())
		case errors.Is(err, ErrCurrencyMismatch), errors.Is(err, ErrInsufficientFunds):
			return fiber.NewError(http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, store.ErrTxConflict):
			return fiber.NewError(http.StatusServiceUnavailable, "transfer could not be completed, try again")
		default:
			return fiber.NewError(http.StatusInternalServerError, "internal error")
		}
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"transaction_id": receipt.TransactionID,
		"message":        receipt.Message,
	})
}

type historyEntry struct {
	ID               string          `json:"id"`
	SenderID         string          `json:"sender_id"`
	ReceiverID       string          `json:"receiver_id"`
	SenderWalletID   string          `json:"sender_wallet_id"`
	ReceiverWalletID string          `json:"receiver_wallet_id"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	Timestamp        time.Time       `json:"timestamp"`
	Direction        string          `json:"direction"`
}

// History lists the caller's transactions, sent and received, newest first.
func (h *Handler) History(c *fiber.Ctx) error {
	callerID, _ := c.Locals("user_id").(string)

	records, err := h.engine.History(c.UserContext(), callerID)
	if err != nil {
		if errors.Is(err, ErrMissingField) {
			return fiber.NewError(http.StatusUnauthorized, "missing caller identity")
		}
		return fiber.NewError(http.StatusInternalServerError, "internal error")
	}

	entries := make([]historyEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, toHistoryEntry(rec, callerID))
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"transactions": entries})
}

func toHistoryEntry(rec wallet.TransactionRecord, callerID string) historyEntry {
	direction := "received"
	if rec.SenderID == callerID {
		direction = "sent"
	}
	return historyEntry{
		ID:               rec.ID,
		SenderID:         rec.SenderID,
		ReceiverID:       rec.ReceiverID,
		SenderWalletID:   rec.SenderWalletID,
		ReceiverWalletID: rec.ReceiverWalletID,
		Amount:           rec.Amount,
		Currency:         rec.Currency.String(),
		Timestamp:        rec.Timestamp,
		Direction:        direction,
	}
}
