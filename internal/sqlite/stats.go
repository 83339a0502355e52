package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Yathushan/coldsweat/internal/coldsweat"
)

// Stats computes the global, cross-user counters shown on the login page.
// The unread figure counts entries no user at all has read.
func (r Repo) Stats(ctx context.Context) (coldsweat.Stats, error) {
	var stats coldsweat.Stats

	// Most recent check across all feeds; stays nil when nothing has ever
	// been checked. Selecting the column directly (rather than MAX) keeps
	// the driver's timestamp decoding.
	const lastCheckedQ = `SELECT last_checked_on FROM feeds
	WHERE last_checked_on IS NOT NULL
	ORDER BY last_checked_on DESC LIMIT 1;`

	var lastChecked time.Time
	err := r.db.GetContext(ctx, &lastChecked, lastCheckedQ)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return coldsweat.Stats{}, fmt.Errorf("error fetching last checked time: %s", err)
	}
	if err == nil {
		stats.LastCheckedOn = &lastChecked
	}

	counts := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM entries;`, &stats.EntryCount},
		{`SELECT COUNT(*) FROM entries WHERE id NOT IN (SELECT entry_id FROM read_entries);`, &stats.UnreadEntryCount},
		{`SELECT COUNT(*) FROM feeds;`, &stats.FeedCount},
		{`SELECT COUNT(*) FROM feeds WHERE is_enabled = TRUE;`, &stats.ActiveFeedCount},
	}
	for _, c := range counts {
		if err := r.db.GetContext(ctx, c.dest, c.query); err != nil {
			return coldsweat.Stats{}, fmt.Errorf("error computing stats: %s", err)
		}
	}

	return stats, nil
}
