package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/visual-wallet/vault/internal/currency"
	"github.com/visual-wallet/vault/internal/wallet"
)

// txRetryBudget bounds re-execution of a transaction body on serialization
// failures before ErrTxConflict is surfaced.
const txRetryBudget = 3

// PostgresStore persists wallets and the transaction log in PostgreSQL.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore builds a store backed by PostgreSQL.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// WithTransaction executes fn under serializable isolation and retries the
// whole body when the commit loses a serialization conflict (SQLSTATE 40001)
// or a deadlock (40P01). fn must be free of side effects outside the TxView.
func (s *PostgresStore) WithTransaction(ctx context.Context, fn func(TxView) error) error {
	var lastErr error
	for attempt := 0; attempt < txRetryBudget; attempt++ {
		err := s.runOnce(ctx, fn)
		if err == nil {
			return nil
		}
		if !isSerializationFailure(err) {
			return err
		}
		lastErr = err
	}
	return errors.Join(ErrTxConflict, lastErr)
}

func (s *PostgresStore) runOnce(ctx context.Context, fn func(TxView) error) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	if err := fn(&pgTxView{tx: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}

type pgTxView struct {
	tx pgx.Tx
}

func (v *pgTxView) Wallet(ctx context.Context, id string) (wallet.Wallet, error) {
	return scanWallet(v.tx.QueryRow(ctx, `SELECT id, owner_id, currency, balance, created_at
        FROM wallets WHERE id = $1`, id))
}

func (v *pgTxView) UpdateBalance(ctx context.Context, id string, balance decimal.Decimal) error {
	cmd, err := v.tx.Exec(ctx, `UPDATE wallets SET balance = $1 WHERE id = $2`, balance, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrWalletNotFound
	}
	return nil
}

func (v *pgTxView) AppendTransaction(ctx context.Context, rec wallet.TransactionRecord) (string, error) {
	id := uuid.NewString()
	_, err := v.tx.Exec(ctx, `INSERT INTO transactions
        (id, sender_id, receiver_id, sender_wallet_id, receiver_wallet_id, amount, currency, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, now())`,
		id, rec.SenderID, rec.ReceiverID, rec.SenderWalletID, rec.ReceiverWalletID,
		rec.Amount, rec.Currency.String())
	if err != nil {
		return "", err
	}
	return id, nil
}

// CreateWallets inserts the batch in one transaction, both-or-neither.
func (s *PostgresStore) CreateWallets(ctx context.Context, wallets []wallet.Wallet) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	for _, w := range wallets {
		if _, err := tx.Exec(ctx, `INSERT INTO wallets (id, owner_id, currency, balance, created_at)
            VALUES ($1, $2, $3, $4, $5)`,
			w.ID, w.OwnerID, w.Currency.String(), w.Balance, w.CreatedAt.UTC()); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// Wallet fetches a single wallet outside any transaction.
func (s *PostgresStore) Wallet(ctx context.Context, id string) (wallet.Wallet, error) {
	return scanWallet(s.db.QueryRow(ctx, `SELECT id, owner_id, currency, balance, created_at
        FROM wallets WHERE id = $1`, id))
}

// WalletsByOwner lists every wallet belonging to the owner.
func (s *PostgresStore) WalletsByOwner(ctx context.Context, ownerID string) ([]wallet.Wallet, error) {
	rows, err := s.db.Query(ctx, `SELECT id, owner_id, currency, balance, created_at
        FROM wallets WHERE owner_id = $1 ORDER BY currency`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var wallets []wallet.Wallet
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, w)
	}
	return wallets, rows.Err()
}

// TransactionsByUser returns records where the user appears on either side,
// newest first.
func (s *PostgresStore) TransactionsByUser(ctx context.Context, userID string) ([]wallet.TransactionRecord, error) {
	rows, err := s.db.Query(ctx, `SELECT id, sender_id, receiver_id, sender_wallet_id, receiver_wallet_id,
        amount, currency, created_at
        FROM transactions WHERE sender_id = $1 OR receiver_id = $1
        ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []wallet.TransactionRecord
	for rows.Next() {
		var (
			rec  wallet.TransactionRecord
			code string
			ts   time.Time
		)
		if err := rows.Scan(&rec.ID, &rec.SenderID, &rec.ReceiverID, &rec.SenderWalletID,
			&rec.ReceiverWalletID, &rec.Amount, &code, &ts); err != nil {
			return nil, err
		}
		rec.Currency = currency.Code(code)
		rec.Timestamp = ts.UTC()
		records = append(records, rec)
	}
	return records, rows.Err()
}

func scanWallet(row pgx.Row) (wallet.Wallet, error) {
	var (
		w         wallet.Wallet
		code      string
		createdAt time.Time
	)
	if err := row.Scan(&w.ID, &w.OwnerID, &code, &w.Balance, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return wallet.Wallet{}, ErrWalletNotFound
		}
		return wallet.Wallet{}, err
	}
	w.Currency = currency.Code(code)
	w.CreatedAt = createdAt.UTC()
	return w, nil
}
