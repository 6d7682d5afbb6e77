package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/visual-wallet/vault/internal/wallet"
)

// MemoryStore is a concurrency-safe in-memory store. Transactions are
// serialized by a single mutex, which trivially satisfies the isolation
// contract; writes are staged and applied only when the body returns nil,
// so a failed body leaves no partial state.
type MemoryStore struct {
	mu      sync.RWMutex
	wallets map[string]wallet.Wallet
	log     []wallet.TransactionRecord
}

// NewMemory creates an empty in-memory store, used by tests and by the dev
// wiring when no database is configured.
func NewMemory() *MemoryStore {
	return &MemoryStore{wallets: make(map[string]wallet.Wallet)}
}

// WithTransaction runs fn against a staged view under the store mutex.
func (s *MemoryStore) WithTransaction(_ context.Context, fn func(TxView) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := &memTxView{store: s, staged: make(map[string]decimal.Decimal)}
	if err := fn(view); err != nil {
		return err
	}

	for id, balance := range view.staged {
		w := s.wallets[id]
		w.Balance = balance
		s.wallets[id] = w
	}
	s.log = append(s.log, view.appended...)
	return nil
}

type memTxView struct {
	store    *MemoryStore
	staged   map[string]decimal.Decimal
	appended []wallet.TransactionRecord
}

func (v *memTxView) Wallet(_ context.Context, id string) (wallet.Wallet, error) {
	w, ok := v.store.wallets[id]
	if !ok {
		return wallet.Wallet{}, ErrWalletNotFound
	}
	if balance, staged := v.staged[id]; staged {
		w.Balance = balance
	}
	return w, nil
}

func (v *memTxView) UpdateBalance(_ context.Context, id string, balance decimal.Decimal) error {
	if _, ok := v.store.wallets[id]; !ok {
		return ErrWalletNotFound
	}
	v.staged[id] = balance
	return nil
}

func (v *memTxView) AppendTransaction(_ context.Context, rec wallet.TransactionRecord) (string, error) {
	rec.ID = uuid.NewString()
	rec.Timestamp = time.Now().UTC()
	v.appended = append(v.appended, rec)
	return rec.ID, nil
}

// CreateWallets stores the batch, rejecting the whole batch on a duplicate id.
func (s *MemoryStore) CreateWallets(_ context.Context, wallets []wallet.Wallet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range wallets {
		if _, exists := s.wallets[w.ID]; exists {
			return errors.New("wallet exists")
		}
	}
	for _, w := range wallets {
		s.wallets[w.ID] = w
	}
	return nil
}

// Wallet fetches a wallet by id.
func (s *MemoryStore) Wallet(_ context.Context, id string) (wallet.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.wallets[id]
	if !ok {
		return wallet.Wallet{}, ErrWalletNotFound
	}
	return w, nil
}

// WalletsByOwner lists wallets for one owner.
func (s *MemoryStore) WalletsByOwner(_ context.Context, ownerID string) ([]wallet.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []wallet.Wallet
	for _, w := range s.wallets {
		if w.OwnerID == ownerID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Currency < out[j].Currency })
	return out, nil
}

// TransactionsByUser returns records involving the user, newest first.
func (s *MemoryStore) TransactionsByUser(_ context.Context, userID string) ([]wallet.TransactionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []wallet.TransactionRecord
	for _, rec := range s.log {
		if rec.SenderID == userID || rec.ReceiverID == userID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}
