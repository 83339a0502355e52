package coldsweat

import (
	"context"
	"time"
)

type (
	// Stats are global, cross-user counters. UnreadEntryCount counts entries
	// no user at all has read, matching the login-page figure rather than
	// any one reader's unread pile.
	Stats struct {
		LastCheckedOn    *time.Time // nil when no feed has ever been checked
		EntryCount       int
		UnreadEntryCount int
		FeedCount        int
		ActiveFeedCount  int
	}

	StatsService interface {
		Stats(ctx context.Context) (Stats, error)
	}
)
