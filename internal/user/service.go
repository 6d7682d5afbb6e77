package user

import (
	"context"
	"errors"
	"strings"
)

// ErrMissingUsername occurs when a blank username is submitted.
var ErrMissingUsername = errors.New("username is required")

// Service handles username registration and lookup.
type Service struct {
	repo Repository
}

// NewService builds a user service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// SaveUsername records the caller's username, overwriting any previous one.
func (s *Service) SaveUsername(ctx context.Context, userID, username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrMissingUsername
	}
	return s.repo.Save(ctx, Record{UserID: userID, Username: username})
}

// ResolveUsername maps a username to a user id. A missing username is not an
// error for the caller; it returns ErrNotFound for the handler to translate.
func (s *Service) ResolveUsername(ctx context.Context, username string) (string, error) {
	if strings.TrimSpace(username) == "" {
		return "", ErrMissingUsername
	}
	rec, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	return rec.UserID, nil
}

// PublicProfile returns the public record for a user id, used by clients to
// label transaction history entries.
func (s *Service) PublicProfile(ctx context.Context, userID string) (Record, error) {
	return s.repo.FindByID(ctx, userID)
}
