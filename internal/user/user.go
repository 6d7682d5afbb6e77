package user

import (
	"context"
	"errors"
)

// Record links a user id to its unique username. Written once at
// registration; saving again overwrites the username for the same user.
type Record struct {
	UserID   string
	Username string
}

var (
	// ErrNotFound occurs when no record matches the lookup key.
	ErrNotFound = errors.New("user not found")

	// ErrUsernameTaken occurs when another user already holds the username.
	// Usernames are a unique key: one holder at a time.
	ErrUsernameTaken = errors.New("username already taken")
)

// Repository persists username records.
type Repository interface {
	Save(ctx context.Context, rec Record) error
	FindByUsername(ctx context.Context, username string) (Record, error)
	FindByID(ctx context.Context, userID string) (Record, error)
}
