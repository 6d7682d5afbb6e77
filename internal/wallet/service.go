package wallet

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/visual-wallet/vault/internal/currency"
)

// ErrMissingOwner occurs when provisioning is requested without an owner id.
var ErrMissingOwner = errors.New("owner id is required")

// Store is the slice of the document store the wallet service needs.
type Store interface {
	// CreateWallets writes the batch atomically, both-or-neither.
	CreateWallets(ctx context.Context, wallets []Wallet) error
	WalletsByOwner(ctx context.Context, ownerID string) ([]Wallet, error)
}

// Service provisions and lists wallets on top of the injected store.
type Service struct {
	store Store
}

// NewService builds a wallet service instance.
func NewService(st Store) *Service {
	return &Service{store: st}
}

// Provision creates the initial wallet set for a new owner: one wallet per
// supported currency, all with zero balance, written as a single atomic
// batch so the owner never ends up with a partial set.
func (s *Service) Provision(ctx context.Context, ownerID string) ([]Wallet, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, ErrMissingOwner
	}

	now := time.Now().UTC()
	wallets := make([]Wallet, 0, len(currency.Supported()))
	for _, code := range currency.Supported() {
		wallets = append(wallets, Wallet{
			ID:        uuid.NewString(),
			OwnerID:   ownerID,
			Currency:  code,
			Balance:   decimal.Zero,
			CreatedAt: now,
		})
	}

	if err := s.store.CreateWallets(ctx, wallets); err != nil {
		return nil, err
	}
	return wallets, nil
}

// List returns every wallet owned by the user.
func (s *Service) List(ctx context.Context, ownerID string) ([]Wallet, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, ErrMissingOwner
	}
	return s.store.WalletsByOwner(ctx, ownerID)
}
