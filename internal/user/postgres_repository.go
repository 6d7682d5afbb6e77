package user

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed username repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Save upserts the username record keyed by user id. The UNIQUE constraint
// on username rejects a name already held by another user.
func (r *PostgresRepository) Save(ctx context.Context, rec Record) error {
	_, err := r.db.Exec(ctx, `INSERT INTO users (user_id, username) VALUES ($1, $2)
        ON CONFLICT (user_id) DO UPDATE SET username = EXCLUDED.username`,
		rec.UserID, rec.Username)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrUsernameTaken
	}
	return err
}

// FindByUsername resolves a username to its record.
func (r *PostgresRepository) FindByUsername(ctx context.Context, username string) (Record, error) {
	return r.scanOne(r.db.QueryRow(ctx, `SELECT user_id, username FROM users WHERE username = $1`, username))
}

// FindByID fetches the record for a user id.
func (r *PostgresRepository) FindByID(ctx context.Context, userID string) (Record, error) {
	return r.scanOne(r.db.QueryRow(ctx, `SELECT user_id, username FROM users WHERE user_id = $1`, userID))
}

func (r *PostgresRepository) scanOne(row pgx.Row) (Record, error) {
	var rec Record
	if err := row.Scan(&rec.UserID, &rec.Username); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	return rec, nil
}
