package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yathushan/coldsweat/internal/coldsweat"
)

func TestSessions_CreateAndResolve(t *testing.T) {
	var (
		ctx  = context.Background()
		repo = newTestRepo(t)
		usr  = seedUser(t, repo, "alice")
	)

	sess, err := repo.CreateSession(ctx, usr.ID, time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Key)

	userID, err := repo.ResolveSession(ctx, sess.Key)
	require.NoError(t, err)
	assert.Equal(t, usr.ID, userID)
}

func TestSessions_ExpiredIsGone(t *testing.T) {
	var (
		ctx  = context.Background()
		repo = newTestRepo(t)
		usr  = seedUser(t, repo, "alice")
	)

	sess, err := repo.CreateSession(ctx, usr.ID, -time.Minute)
	require.NoError(t, err)

	_, err = repo.ResolveSession(ctx, sess.Key)
	assert.ErrorIs(t, err, coldsweat.ErrNotFound)

	// The expired row was reaped, so a second resolve fails the same way
	_, err = repo.ResolveSession(ctx, sess.Key)
	assert.ErrorIs(t, err, coldsweat.ErrNotFound)
}

func TestSessions_Delete(t *testing.T) {
	var (
		ctx  = context.Background()
		repo = newTestRepo(t)
		usr  = seedUser(t, repo, "alice")
	)

	sess, err := repo.CreateSession(ctx, usr.ID, time.Hour)
	require.NoError(t, err)

	require.NoError(t, repo.DeleteSession(ctx, sess.Key))

	_, err = repo.ResolveSession(ctx, sess.Key)
	assert.ErrorIs(t, err, coldsweat.ErrNotFound)
}

func TestSessions_UnknownKey(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.ResolveSession(context.Background(), "nope")
	assert.ErrorIs(t, err, coldsweat.ErrNotFound)
}
