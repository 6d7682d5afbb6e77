package wallet

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/visual-wallet/vault/internal/currency"
)

// Wallet is a per-user, per-currency balance record. Everything except
// Balance is immutable after creation; Balance only changes inside a store
// transaction driven by the transfer engine. Invariant: Balance >= 0.
type Wallet struct {
	ID        string
	OwnerID   string
	Currency  currency.Code
	Balance   decimal.Decimal
	CreatedAt time.Time
}

// TransactionRecord is the immutable audit entry for a completed transfer.
// Records are append-only: never updated, never deleted. Timestamp is
// assigned by the store at commit time.
type TransactionRecord struct {
	ID               string
	SenderID         string
	ReceiverID       string
	SenderWalletID   string
	ReceiverWalletID string
	Amount           decimal.Decimal
	Currency         currency.Code
	Timestamp        time.Time
}
