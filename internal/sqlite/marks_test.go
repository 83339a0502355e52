package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yathushan/coldsweat/internal/coldsweat"
)

func TestMarkEntry_Idempotent(t *testing.T) {
	var (
		ctx  = context.Background()
		repo = newTestRepo(t)
		usr  = seedUser(t, repo, "alice")
		feed = seedFeed(t, repo, "https://example.com/feed.xml", testBase)
		ents = seedEntries(t, repo, feed.ID, 1, testBase)
	)
	subscribe(t, repo, usr.ID, "News", feed.ID)

	// Double application of every transition is a quiet no-op
	for _, status := range []coldsweat.MarkStatus{
		coldsweat.StatusRead, coldsweat.StatusRead,
		coldsweat.StatusSaved, coldsweat.StatusSaved,
		coldsweat.StatusUnread, coldsweat.StatusUnread,
		coldsweat.StatusUnsaved, coldsweat.StatusUnsaved,
	} {
		require.NoError(t, repo.MarkEntry(ctx, usr.ID, ents[0].ID, status))
	}

	_, total, err := repo.ListEntries(ctx, usr.ID, coldsweat.EntryFilter{Kind: coldsweat.FilterUnread}, 0, 30)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestMarkEntry_PerUser(t *testing.T) {
	var (
		ctx   = context.Background()
		repo  = newTestRepo(t)
		alice = seedUser(t, repo, "alice")
		bob   = seedUser(t, repo, "bob")
		feed  = seedFeed(t, repo, "https://example.com/feed.xml", testBase)
		ents  = seedEntries(t, repo, feed.ID, 1, testBase)
	)
	subscribe(t, repo, alice.ID, "News", feed.ID)
	subscribe(t, repo, bob.ID, "News", feed.ID)

	require.NoError(t, repo.MarkEntry(ctx, alice.ID, ents[0].ID, coldsweat.StatusRead))

	// Alice reading doesn't touch bob's state
	_, total, err := repo.ListEntries(ctx, bob.ID, coldsweat.EntryFilter{Kind: coldsweat.FilterUnread}, 0, 30)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestMarkAllRead_CutoffByFeedCheckTime(t *testing.T) {
	var (
		ctx    = context.Background()
		repo   = newTestRepo(t)
		usr    = seedUser(t, repo, "alice")
		cutoff = testBase
		// Checked an hour before the page load
		stale = seedFeed(t, repo, "https://stale.example.com/feed.xml", cutoff.Add(-time.Hour))
		// Checked after the page load: its entries may be unseen arrivals
		fresh    = seedFeed(t, repo, "https://fresh.example.com/feed.xml", cutoff.Add(time.Hour))
		staleEnt = seedEntries(t, repo, stale.ID, 3, testBase)
	)
	seedEntries(t, repo, fresh.ID, 2, testBase)
	subscribe(t, repo, usr.ID, "News", stale.ID)
	subscribe(t, repo, usr.ID, "News", fresh.ID)

	// One stale entry already read; the bulk mark must not trip over it
	require.NoError(t, repo.MarkEntry(ctx, usr.ID, staleEnt[0].ID, coldsweat.StatusRead))

	require.NoError(t, repo.MarkAllRead(ctx, usr.ID, cutoff))

	items, total, err := repo.ListEntries(ctx, usr.ID, coldsweat.EntryFilter{Kind: coldsweat.FilterUnread}, 0, 30)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	for _, item := range items {
		assert.Equal(t, fresh.ID, item.FeedID)
	}
}

func TestMarkAllRead_Idempotent(t *testing.T) {
	var (
		ctx  = context.Background()
		repo = newTestRepo(t)
		usr  = seedUser(t, repo, "alice")
		feed = seedFeed(t, repo, "https://example.com/feed.xml", testBase.Add(-time.Hour))
	)
	seedEntries(t, repo, feed.ID, 3, testBase)
	subscribe(t, repo, usr.ID, "News", feed.ID)

	require.NoError(t, repo.MarkAllRead(ctx, usr.ID, testBase))
	require.NoError(t, repo.MarkAllRead(ctx, usr.ID, testBase))

	_, total, err := repo.ListEntries(ctx, usr.ID, coldsweat.EntryFilter{Kind: coldsweat.FilterUnread}, 0, 30)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestMarkAllRead_NeverCheckedFeedExcluded(t *testing.T) {
	var (
		ctx  = context.Background()
		repo = newTestRepo(t)
		usr  = seedUser(t, repo, "alice")
		// No last_checked_on at all
		feed = seedFeed(t, repo, "https://example.com/feed.xml", time.Time{})
	)
	seedEntries(t, repo, feed.ID, 2, testBase)
	subscribe(t, repo, usr.ID, "News", feed.ID)

	require.NoError(t, repo.MarkAllRead(ctx, usr.ID, testBase))

	_, total, err := repo.ListEntries(ctx, usr.ID, coldsweat.EntryFilter{Kind: coldsweat.FilterUnread}, 0, 30)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}
