package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yathushan/coldsweat/internal/coldsweat"
)

func TestInsertUser_Conflict(t *testing.T) {
	var (
		ctx  = context.Background()
		repo = newTestRepo(t)
	)

	_, err := repo.InsertUser(ctx, coldsweat.NewUserArgs{Username: "alice", Password: "swordfish-9"})
	require.NoError(t, err)

	_, err = repo.InsertUser(ctx, coldsweat.NewUserArgs{Username: "alice", Password: "other"})
	assert.ErrorIs(t, err, coldsweat.ErrConflict)
}

func TestUser_PasswordCheck(t *testing.T) {
	var (
		ctx  = context.Background()
		repo = newTestRepo(t)
	)

	usr, err := repo.InsertUser(ctx, coldsweat.NewUserArgs{Username: "alice", Password: "swordfish-9"})
	require.NoError(t, err)

	got, err := repo.UserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, usr.ID, got.ID)

	// The stored password is a digest, never the cleartext
	assert.NotEqual(t, "swordfish-9", got.Password)
	assert.True(t, got.CheckPassword("swordfish-9"))
	assert.False(t, got.CheckPassword("wrong"))
}

func TestUserByAPIKey(t *testing.T) {
	var (
		ctx  = context.Background()
		repo = newTestRepo(t)
	)

	usr, err := repo.InsertUser(ctx, coldsweat.NewUserArgs{Username: "alice", Password: "swordfish-9"})
	require.NoError(t, err)

	got, err := repo.UserByAPIKey(ctx, usr.APIKey)
	require.NoError(t, err)
	assert.Equal(t, usr.ID, got.ID)

	_, err = repo.UserByAPIKey(ctx, "bogus")
	assert.ErrorIs(t, err, coldsweat.ErrNotFound)
}
