package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndResolveUsername(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	require.NoError(t, svc.SaveUsername(ctx, "u1", "satoshi"))

	userID, err := svc.ResolveUsername(ctx, "satoshi")
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
}

func TestSaveUsernameOverwrites(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	require.NoError(t, svc.SaveUsername(ctx, "u1", "satoshi"))
	require.NoError(t, svc.SaveUsername(ctx, "u1", "finney"))

	_, err := svc.ResolveUsername(ctx, "satoshi")
	assert.ErrorIs(t, err, ErrNotFound, "old username must be released")

	userID, err := svc.ResolveUsername(ctx, "finney")
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
}

func TestSaveUsernameRejectsTakenName(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	require.NoError(t, svc.SaveUsername(ctx, "u1", "satoshi"))
	assert.ErrorIs(t, svc.SaveUsername(ctx, "u2", "satoshi"), ErrUsernameTaken)

	// The rejected claim must not disturb the holder's entry.
	userID, err := svc.ResolveUsername(ctx, "satoshi")
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)

	// Nor may the claimant's later rename evict it.
	require.NoError(t, svc.SaveUsername(ctx, "u2", "finney"))
	userID, err = svc.ResolveUsername(ctx, "satoshi")
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)

	// Re-saving one's own current name stays idempotent.
	require.NoError(t, svc.SaveUsername(ctx, "u1", "satoshi"))
}

func TestSaveUsernameRequiresValue(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	assert.ErrorIs(t, svc.SaveUsername(context.Background(), "u1", "   "), ErrMissingUsername)
}

func TestResolveUnknownUsername(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	_, err := svc.ResolveUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPublicProfile(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()
	require.NoError(t, svc.SaveUsername(ctx, "u1", "satoshi"))

	rec, err := svc.PublicProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, Record{UserID: "u1", Username: "satoshi"}, rec)

	_, err = svc.PublicProfile(ctx, "u2")
	assert.ErrorIs(t, err, ErrNotFound)
}
