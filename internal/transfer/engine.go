package transfer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/visual-wallet/vault/internal/currency"
	"github.com/visual-wallet/vault/internal/notification"
	"github.com/visual-wallet/vault/internal/store"
	"github.com/visual-wallet/vault/internal/wallet"
)

var (
	// ErrInvalidAmount occurs when the amount is zero, negative, or not a number.
	ErrInvalidAmount = errors.New("amount must be a positive number")

	// ErrMissingField occurs when a required request field is blank.
	ErrMissingField = errors.New("missing required field")

	// ErrSameWallet rejects transfers where sender and receiver are one wallet.
	ErrSameWallet = errors.New("sender and receiver wallets must differ")

	// ErrSenderWallet covers both a missing sender wallet and an ownership
	// mismatch, so callers cannot probe for wallet ids they do not own.
	ErrSenderWallet = errors.New("sender wallet not found or not owned by caller")

	// ErrReceiverNotFound occurs when the receiver wallet does not exist.
	ErrReceiverNotFound = errors.New("receiver wallet not found")

	// ErrCurrencyMismatch occurs when either wallet's currency differs from
	// the requested one. Transfers never convert currency.
	ErrCurrencyMismatch = errors.New("wallet currencies do not match")

	// ErrInsufficientFunds occurs when the sender balance cannot cover the amount.
	ErrInsufficientFunds = errors.New("insufficient balance")
)

// Engine executes balance transfers as all-or-nothing store transactions.
type Engine struct {
	store    store.Store
	notifier notification.Notifier
}

// NewEngine builds a transfer engine on top of the injected store.
func NewEngine(st store.Store, notifier notification.Notifier) *Engine {
	return &Engine{store: st, notifier: notifier}
}

// SendInput carries a transfer request. CallerID is the identity resolved
// from the verified credential and is trusted as the sender.
type SendInput struct {
	CallerID         string
	SenderWalletID   string
	ReceiverWalletID string
	Amount           decimal.Decimal
	Currency         string
}

// Receipt confirms a committed transfer.
type Receipt struct {
	TransactionID string
	Message       string
}

// Send validates the request and, if valid, debits the sender, credits the
// receiver, and appends a transaction record as one isolated transaction.
// The transaction body is pure over the store view: the store may re-run it
// on conflict, and any failure leaves every balance untouched.
func (e *Engine) Send(ctx context.Context, in SendInput) (Receipt, error) {
	if strings.TrimSpace(in.CallerID) == "" ||
		strings.TrimSpace(in.SenderWalletID) == "" ||
		strings.TrimSpace(in.ReceiverWalletID) == "" {
		return Receipt{}, ErrMissingField
	}
	if in.SenderWalletID == in.ReceiverWalletID {
		return Receipt{}, ErrSameWallet
	}
	if !in.Amount.IsPositive() {
		return Receipt{}, ErrInvalidAmount
	}
	code, err := currency.Parse(in.Currency)
	if err != nil {
		return Receipt{}, err
	}

	var (
		txID       string
		receiverID string
	)
	err = e.store.WithTransaction(ctx, func(tx store.TxView) error {
		sender, err := tx.Wallet(ctx, in.SenderWalletID)
		if err != nil {
			if errors.Is(err, store.ErrWalletNotFound) {
				return ErrSenderWallet
			}
			return err
		}
		if sender.OwnerID != in.CallerID {
			return ErrSenderWallet
		}

		receiver, err := tx.Wallet(ctx, in.ReceiverWalletID)
		if err != nil {
			if errors.Is(err, store.ErrWalletNotFound) {
				return ErrReceiverNotFound
			}
			return err
		}

		if sender.Currency != code || receiver.Currency != code {
			return ErrCurrencyMismatch
		}
		if sender.Balance.LessThan(in.Amount) {
			return ErrInsufficientFunds
		}

		if err := tx.UpdateBalance(ctx, sender.ID, sender.Balance.Sub(in.Amount)); err != nil {
			return err
		}
		if err := tx.UpdateBalance(ctx, receiver.ID, receiver.Balance.Add(in.Amount)); err != nil {
			return err
		}

		id, err := tx.AppendTransaction(ctx, wallet.TransactionRecord{
			SenderID:         sender.OwnerID,
			ReceiverID:       receiver.OwnerID,
			SenderWalletID:   sender.ID,
			ReceiverWalletID: receiver.ID,
			Amount:           in.Amount,
			Currency:         code,
		})
		if err != nil {
			return err
		}
		txID = id
		receiverID = receiver.OwnerID
		return nil
	})
	if err != nil {
		return Receipt{}, err
	}

	// Notification only after the transaction committed, never inside the
	// retryable body.
	if e.notifier != nil {
		_ = e.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindTransferReceived,
			Destination: receiverID,
			Body:        fmt.Sprintf("You received %s %s", in.Amount.String(), code),
		})
	}

	return Receipt{TransactionID: txID, Message: "funds sent"}, nil
}

// History lists the caller's transaction records, sent and received merged,
// newest first.
func (e *Engine) History(ctx context.Context, userID string) ([]wallet.TransactionRecord, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrMissingField
	}
	return e.store.TransactionsByUser(ctx, userID)
}
