package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/Yathushan/coldsweat/internal/coldsweat"
	"github.com/Yathushan/coldsweat/internal/migrations"
)

func newTestRepo(t *testing.T) Repo {
	t.Helper()

	dbx, err := sqlx.Open("sqlite", "file::memory:?_time_format=sqlite&_pragma=foreign_keys(1)")
	require.NoError(t, err)
	// A single connection keeps the in-memory database alive across the
	// pool.
	dbx.SetMaxOpenConns(1)
	t.Cleanup(func() { dbx.Close() })

	require.NoError(t, migrations.Run(dbx))

	return New(dbx)
}

func seedUser(t *testing.T, repo Repo, username string) coldsweat.User {
	t.Helper()

	usr, err := repo.InsertUser(context.Background(), coldsweat.NewUserArgs{
		Username: username,
		Password: "swordfish-9",
	})
	require.NoError(t, err)

	return usr
}

// seedFeed creates a feed and, unless zero, stamps its last check time.
func seedFeed(t *testing.T, repo Repo, selfLink string, checkedOn time.Time) coldsweat.Feed {
	t.Helper()
	ctx := context.Background()

	feed, err := repo.InsertFeed(ctx, selfLink)
	require.NoError(t, err)

	if !checkedOn.IsZero() {
		require.NoError(t, repo.UpdateFeed(ctx, feed.ID, coldsweat.UpdateFeedArgs{
			LastCheckedOn: checkedOn,
		}))
		feed, err = repo.Feed(ctx, feed.ID)
		require.NoError(t, err)
	}

	return feed
}

// seedEntries inserts n entries, each a minute older than the previous so
// ordering is deterministic.
func seedEntries(t *testing.T, repo Repo, feedID string, n int, newest time.Time) []coldsweat.Entry {
	t.Helper()

	entries := make([]coldsweat.Entry, n)
	for i := range entries {
		entries[i] = coldsweat.Entry{
			FeedID:        feedID,
			GUID:          fmt.Sprintf("%s-guid-%d", feedID, i),
			Title:         fmt.Sprintf("entry %d", i),
			Content:       "<p>content</p>",
			LastUpdatedOn: newest.Add(-time.Duration(i) * time.Minute),
		}
	}
	require.NoError(t, repo.InsertEntries(context.Background(), entries))

	return entries
}

func subscribe(t *testing.T, repo Repo, userID, groupTitle, feedID string) coldsweat.Group {
	t.Helper()
	ctx := context.Background()

	group, err := repo.EnsureGroup(ctx, groupTitle)
	require.NoError(t, err)
	require.NoError(t, repo.CreateSubscription(ctx, userID, group.ID, feedID))

	return group
}

var testBase = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
