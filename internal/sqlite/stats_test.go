package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yathushan/coldsweat/internal/coldsweat"
)

func TestStats_EmptyDatabase(t *testing.T) {
	repo := newTestRepo(t)

	stats, err := repo.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, stats.EntryCount)
	assert.Equal(t, 0, stats.UnreadEntryCount)
	assert.Equal(t, 0, stats.FeedCount)
	assert.Equal(t, 0, stats.ActiveFeedCount)
	assert.Nil(t, stats.LastCheckedOn)
}

func TestStats_Counts(t *testing.T) {
	var (
		ctx   = context.Background()
		repo  = newTestRepo(t)
		usr   = seedUser(t, repo, "alice")
		feed1 = seedFeed(t, repo, "https://one.example.com/feed.xml", testBase.Add(-time.Hour))
		feed2 = seedFeed(t, repo, "https://two.example.com/feed.xml", testBase)
		ents  = seedEntries(t, repo, feed1.ID, 3, testBase)
	)
	seedEntries(t, repo, feed2.ID, 2, testBase)
	subscribe(t, repo, usr.ID, "News", feed1.ID)

	// Global unread shrinks when any user reads an entry
	require.NoError(t, repo.MarkEntry(ctx, usr.ID, ents[0].ID, coldsweat.StatusRead))

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 5, stats.EntryCount)
	assert.Equal(t, 4, stats.UnreadEntryCount)
	assert.Equal(t, 2, stats.FeedCount)
	assert.Equal(t, 2, stats.ActiveFeedCount)
	require.NotNil(t, stats.LastCheckedOn)
	assert.True(t, stats.LastCheckedOn.Equal(testBase))
}
