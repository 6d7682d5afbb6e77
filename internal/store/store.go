package store

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/visual-wallet/vault/internal/wallet"
)

var (
	// ErrWalletNotFound occurs when a referenced wallet document does not exist.
	ErrWalletNotFound = errors.New("wallet not found")

	// ErrTxConflict surfaces when a transaction could not commit within the
	// retry budget because of concurrent writes to overlapping wallets.
	ErrTxConflict = errors.New("transaction conflict, retries exhausted")
)

// TxView is the scoped view handed to a transaction body. Reads observe a
// consistent snapshot; writes become visible only when the enclosing
// transaction commits.
type TxView interface {
	Wallet(ctx context.Context, id string) (wallet.Wallet, error)
	UpdateBalance(ctx context.Context, id string, balance decimal.Decimal) error

	// AppendTransaction adds an immutable record to the transaction log and
	// returns its generated id. The timestamp is assigned by the store.
	AppendTransaction(ctx context.Context, rec wallet.TransactionRecord) (string, error)
}

// Store is the injected document-store client. WithTransaction runs fn as a
// single isolated unit: fn may be re-invoked on conflict, so it must not
// perform side effects beyond TxView reads and writes.
type Store interface {
	WithTransaction(ctx context.Context, fn func(TxView) error) error

	// CreateWallets writes the batch atomically, both-or-neither.
	CreateWallets(ctx context.Context, wallets []wallet.Wallet) error

	Wallet(ctx context.Context, id string) (wallet.Wallet, error)
	WalletsByOwner(ctx context.Context, ownerID string) ([]wallet.Wallet, error)

	// TransactionsByUser returns records where the user is sender or
	// receiver, newest first.
	TransactionsByUser(ctx context.Context, userID string) ([]wallet.TransactionRecord, error)
}
