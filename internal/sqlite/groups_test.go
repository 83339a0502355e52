package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yathushan/coldsweat/internal/coldsweat"
)

func TestEnsureGroup_Idempotent(t *testing.T) {
	var (
		ctx  = context.Background()
		repo = newTestRepo(t)
	)

	first, err := repo.EnsureGroup(ctx, "News")
	require.NoError(t, err)

	second, err := repo.EnsureGroup(ctx, "News")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestUserGroups(t *testing.T) {
	var (
		ctx   = context.Background()
		repo  = newTestRepo(t)
		alice = seedUser(t, repo, "alice")
		bob   = seedUser(t, repo, "bob")
		feed  = seedFeed(t, repo, "https://example.com/feed.xml", testBase)
	)
	subscribe(t, repo, alice.ID, "Tech", feed.ID)
	subscribe(t, repo, alice.ID, "News", feed.ID)
	subscribe(t, repo, bob.ID, "Cooking", feed.ID)

	groups, err := repo.UserGroups(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "News", groups[0].Title)
	assert.Equal(t, "Tech", groups[1].Title)
}

func TestGroup_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.Group(context.Background(), "nope")
	assert.ErrorIs(t, err, coldsweat.ErrNotFound)
}
