package store

import "github.com/shopspring/decimal"

// SeedBalance is a test helper that sets a wallet balance directly when the
// store is the in-memory implementation. No-op otherwise.
func SeedBalance(s Store, walletID string, balance decimal.Decimal) {
	mem, ok := s.(*MemoryStore)
	if !ok {
		return
	}
	mem.mu.Lock()
	defer mem.mu.Unlock()
	w, ok := mem.wallets[walletID]
	if !ok {
		return
	}
	w.Balance = balance
	mem.wallets[walletID] = w
}
