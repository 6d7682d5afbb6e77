package transfer

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/visual-wallet/vault/internal/currency"
	"github.com/visual-wallet/vault/internal/notification"
	"github.com/visual-wallet/vault/internal/store"
	"github.com/visual-wallet/vault/internal/wallet"
)

type testNotifier struct {
	mu   sync.Mutex
	sent []notification.Message
}

func (n *testNotifier) Send(_ context.Context, msg notification.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return nil
}

func seedWallets(t *testing.T, st *store.MemoryStore) (wallet.Wallet, wallet.Wallet) {
	t.Helper()
	ctx := context.Background()
	svc := wallet.NewService(st)

	senderWallets, err := svc.Provision(ctx, "alice")
	if err != nil {
		t.Fatalf("provision sender: %v", err)
	}
	receiverWallets, err := svc.Provision(ctx, "bob")
	if err != nil {
		t.Fatalf("provision receiver: %v", err)
	}

	var sender, receiver wallet.Wallet
	for _, w := range senderWallets {
		if w.Currency == currency.BTC {
			sender = w
		}
	}
	for _, w := range receiverWallets {
		if w.Currency == currency.BTC {
			receiver = w
		}
	}
	return sender, receiver
}

func TestSendSuccess(t *testing.T) {
	st := store.NewMemory()
	sender, receiver := seedWallets(t, st)
	store.SeedBalance(st, sender.ID, decimal.NewFromInt(100))

	notifier := &testNotifier{}
	engine := NewEngine(st, notifier)

	ctx := context.Background()
	receipt, err := engine.Send(ctx, SendInput{
		CallerID:         "alice",
		SenderWalletID:   sender.ID,
		ReceiverWalletID: receiver.ID,
		Amount:           decimal.NewFromInt(40),
		Currency:         "BTC",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if receipt.TransactionID == "" {
		t.Fatal("expected a transaction id")
	}

	got, _ := st.Wallet(ctx, sender.ID)
	if !got.Balance.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("sender balance = %s, want 60", got.Balance)
	}
	got, _ = st.Wallet(ctx, receiver.ID)
	if !got.Balance.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("receiver balance = %s, want 40", got.Balance)
	}

	records, err := st.TransactionsByUser(ctx, "alice")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected exactly one record, got %d", len(records))
	}
	rec := records[0]
	if rec.SenderID != "alice" || rec.ReceiverID != "bob" ||
		rec.SenderWalletID != sender.ID || rec.ReceiverWalletID != receiver.ID {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if !rec.Amount.Equal(decimal.NewFromInt(40)) || rec.Currency != currency.BTC {
		t.Fatalf("unexpected amount/currency: %+v", rec)
	}
	if rec.Timestamp.IsZero() {
		t.Fatal("expected a store-assigned timestamp")
	}

	if len(notifier.sent) != 1 || notifier.sent[0].Destination != "bob" {
		t.Fatalf("expected one notification to bob, got %+v", notifier.sent)
	}
}

func TestSendInsufficientFunds(t *testing.T) {
	st := store.NewMemory()
	sender, receiver := seedWallets(t, st)
	store.SeedBalance(st, sender.ID, decimal.NewFromInt(10))

	engine := NewEngine(st, nil)
	ctx := context.Background()

	_, err := engine.Send(ctx, SendInput{
		CallerID:         "alice",
		SenderWalletID:   sender.ID,
		ReceiverWalletID: receiver.ID,
		Amount:           decimal.NewFromInt(50),
		Currency:         "BTC",
	})
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	got, _ := st.Wallet(ctx, sender.ID)
	if !got.Balance.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("sender balance changed on failure: %s", got.Balance)
	}
	records, _ := st.TransactionsByUser(ctx, "alice")
	if len(records) != 0 {
		t.Fatalf("failed transfer must not append a record, got %d", len(records))
	}
}

func TestSendCurrencyMismatch(t *testing.T) {
	st := store.NewMemory()
	sender, receiver := seedWallets(t, st)
	store.SeedBalance(st, sender.ID, decimal.NewFromInt(100))

	engine := NewEngine(st, nil)
	ctx := context.Background()

	// Requested currency differs from both wallets.
	_, err := engine.Send(ctx, SendInput{
		CallerID:         "alice",
		SenderWalletID:   sender.ID,
		ReceiverWalletID: receiver.ID,
		Amount:           decimal.NewFromInt(5),
		Currency:         "ETH",
	})
	if !errors.Is(err, ErrCurrencyMismatch) {
		t.Fatalf("expected ErrCurrencyMismatch, got %v", err)
	}

	got, _ := st.Wallet(ctx, sender.ID)
	if !got.Balance.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("sender balance changed on failure: %s", got.Balance)
	}
}

func TestSendReceiverCurrencyMismatch(t *testing.T) {
	st := store.NewMemory()
	sender, _ := seedWallets(t, st)
	store.SeedBalance(st, sender.ID, decimal.NewFromInt(100))

	// Receiver wallet holds ETH while BTC is requested.
	ethReceiver := wallet.Wallet{ID: "eth-wallet", OwnerID: "bob", Currency: currency.ETH, Balance: decimal.Zero}
	if err := st.CreateWallets(context.Background(), []wallet.Wallet{ethReceiver}); err != nil {
		t.Fatalf("create receiver: %v", err)
	}

	engine := NewEngine(st, nil)
	_, err := engine.Send(context.Background(), SendInput{
		CallerID:         "alice",
		SenderWalletID:   sender.ID,
		ReceiverWalletID: ethReceiver.ID,
		Amount:           decimal.NewFromInt(5),
		Currency:         "BTC",
	})
	if !errors.Is(err, ErrCurrencyMismatch) {
		t.Fatalf("expected ErrCurrencyMismatch, got %v", err)
	}
}

func TestSendNotOwner(t *testing.T) {
	st := store.NewMemory()
	sender, receiver := seedWallets(t, st)
	store.SeedBalance(st, sender.ID, decimal.NewFromInt(100))

	engine := NewEngine(st, nil)
	ctx := context.Background()

	_, err := engine.Send(ctx, SendInput{
		CallerID:         "mallory",
		SenderWalletID:   sender.ID,
		ReceiverWalletID: receiver.ID,
		Amount:           decimal.NewFromInt(5),
		Currency:         "BTC",
	})
	if !errors.Is(err, ErrSenderWallet) {
		t.Fatalf("expected ErrSenderWallet, got %v", err)
	}

	got, _ := st.Wallet(ctx, sender.ID)
	if !got.Balance.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("sender balance changed on failure: %s", got.Balance)
	}
}

func TestSendReceiverNotFound(t *testing.T) {
	st := store.NewMemory()
	sender, _ := seedWallets(t, st)
	store.SeedBalance(st, sender.ID, decimal.NewFromInt(100))

	engine := NewEngine(st, nil)
	_, err := engine.Send(context.Background(), SendInput{
		CallerID:         "alice",
		SenderWalletID:   sender.ID,
		ReceiverWalletID: "does-not-exist",
		Amount:           decimal.NewFromInt(5),
		Currency:         "BTC",
	})
	if !errors.Is(err, ErrReceiverNotFound) {
		t.Fatalf("expected ErrReceiverNotFound, got %v", err)
	}
}

func TestSendInvalidInput(t *testing.T) {
	st := store.NewMemory()
	sender, receiver := seedWallets(t, st)
	store.SeedBalance(st, sender.ID, decimal.NewFromInt(100))

	engine := NewEngine(st, nil)
	ctx := context.Background()

	cases := []struct {
		name string
		in   SendInput
		want error
	}{
		{"zero amount", SendInput{CallerID: "alice", SenderWalletID: sender.ID, ReceiverWalletID: receiver.ID, Amount: decimal.Zero, Currency: "BTC"}, ErrInvalidAmount},
		{"negative amount", SendInput{CallerID: "alice", SenderWalletID: sender.ID, ReceiverWalletID: receiver.ID, Amount: decimal.NewFromInt(-3), Currency: "BTC"}, ErrInvalidAmount},
		{"blank sender", SendInput{CallerID: "alice", SenderWalletID: " ", ReceiverWalletID: receiver.ID, Amount: decimal.NewFromInt(1), Currency: "BTC"}, ErrMissingField},
		{"blank receiver", SendInput{CallerID: "alice", SenderWalletID: sender.ID, ReceiverWalletID: "", Amount: decimal.NewFromInt(1), Currency: "BTC"}, ErrMissingField},
		{"blank caller", SendInput{CallerID: "", SenderWalletID: sender.ID, ReceiverWalletID: receiver.ID, Amount: decimal.NewFromInt(1), Currency: "BTC"}, ErrMissingField},
		{"same wallet", SendInput{CallerID: "alice", SenderWalletID: sender.ID, ReceiverWalletID: sender.ID, Amount: decimal.NewFromInt(1), Currency: "BTC"}, ErrSameWallet},
		{"unknown currency", SendInput{CallerID: "alice", SenderWalletID: sender.ID, ReceiverWalletID: receiver.ID, Amount: decimal.NewFromInt(1), Currency: "DOGE"}, currency.ErrUnsupported},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := engine.Send(ctx, tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	// No validation failure may leave a record behind.
	records, _ := st.TransactionsByUser(ctx, "alice")
	if len(records) != 0 {
		t.Fatalf("validation failures must not append records, got %d", len(records))
	}
}

func TestSendFailureIsRepeatable(t *testing.T) {
	st := store.NewMemory()
	sender, receiver := seedWallets(t, st)
	store.SeedBalance(st, sender.ID, decimal.NewFromInt(10))

	engine := NewEngine(st, nil)
	ctx := context.Background()

	in := SendInput{
		CallerID:         "alice",
		SenderWalletID:   sender.ID,
		ReceiverWalletID: receiver.ID,
		Amount:           decimal.NewFromInt(50),
		Currency:         "BTC",
	}
	for i := 0; i < 3; i++ {
		if _, err := engine.Send(ctx, in); !errors.Is(err, ErrInsufficientFunds) {
			t.Fatalf("attempt %d: expected ErrInsufficientFunds, got %v", i, err)
		}
	}
	records, _ := st.TransactionsByUser(ctx, "alice")
	if len(records) != 0 {
		t.Fatalf("repeated failures must not append records, got %d", len(records))
	}
}

func TestConcurrentDrainAtMostOneSucceeds(t *testing.T) {
	st := store.NewMemory()
	sender, receiver := seedWallets(t, st)
	balance := decimal.NewFromInt(100)
	store.SeedBalance(st, sender.ID, balance)

	engine := NewEngine(st, nil)
	ctx := context.Background()

	const attempts = 8
	var wg sync.WaitGroup
	results := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = engine.Send(ctx, SendInput{
				CallerID:         "alice",
				SenderWalletID:   sender.ID,
				ReceiverWalletID: receiver.ID,
				Amount:           balance,
				Currency:         "BTC",
			})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrInsufficientFunds):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 {
		t.Fatalf("expected exactly one drain to succeed, got %d", successes)
	}

	got, _ := st.Wallet(ctx, sender.ID)
	if got.Balance.IsNegative() {
		t.Fatalf("sender balance went negative: %s", got.Balance)
	}
	if !got.Balance.Equal(decimal.Zero) {
		t.Fatalf("sender balance = %s, want 0", got.Balance)
	}
	recv, _ := st.Wallet(ctx, receiver.ID)
	if !recv.Balance.Equal(balance) {
		t.Fatalf("receiver balance = %s, want %s", recv.Balance, balance)
	}
}

func TestHistoryMergesBothDirections(t *testing.T) {
	st := store.NewMemory()
	sender, receiver := seedWallets(t, st)
	store.SeedBalance(st, sender.ID, decimal.NewFromInt(100))
	store.SeedBalance(st, receiver.ID, decimal.NewFromInt(100))

	engine := NewEngine(st, nil)
	ctx := context.Background()

	if _, err := engine.Send(ctx, SendInput{CallerID: "alice", SenderWalletID: sender.ID, ReceiverWalletID: receiver.ID, Amount: decimal.NewFromInt(10), Currency: "BTC"}); err != nil {
		t.Fatalf("first send: %v", err)
	}
	if _, err := engine.Send(ctx, SendInput{CallerID: "bob", SenderWalletID: receiver.ID, ReceiverWalletID: sender.ID, Amount: decimal.NewFromInt(4), Currency: "BTC"}); err != nil {
		t.Fatalf("second send: %v", err)
	}

	records, err := engine.History(ctx, "alice")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	for i := 1; i < len(records); i++ {
		if records[i].Timestamp.After(records[i-1].Timestamp) {
			t.Fatal("history not sorted newest first")
		}
	}
}
