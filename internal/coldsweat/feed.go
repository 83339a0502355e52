package coldsweat

import (
	"context"
	"time"
)

type (
	// Feed represents an Atom/RSS feed's details and fetch bookkeeping.
	Feed struct {
		ID            string     `db:"id"`
		SelfLink      string     `db:"self_link"`
		Title         *string    `db:"title"`
		AlternateLink *string    `db:"alternate_link"`
		Etag          *string    `db:"etag"`
		LastUpdatedOn *time.Time `db:"last_updated_on"`
		LastCheckedOn *time.Time `db:"last_checked_on"`
		LastStatus    *int       `db:"last_status"`
		ErrorCount    int        `db:"error_count"`
		IsEnabled     bool       `db:"is_enabled"`
		IconID        *string    `db:"icon_id"`
	}

	// Icon is a feed favicon stored as a data URI.
	Icon struct {
		ID   string `db:"id"`
		Data string `db:"data"`
	}

	// Holds the optional fields the fetcher records after checking a feed.
	UpdateFeedArgs struct {
		Title         string
		AlternateLink string
		Etag          string
		LastUpdatedOn time.Time
		LastCheckedOn time.Time
		LastStatus    *int
		ErrorCount    *int
	}

	FeedService interface {
		Feed(ctx context.Context, id string) (Feed, error)
		FeedBySelfLink(ctx context.Context, selfLink string) (Feed, error)
		InsertFeed(ctx context.Context, selfLink string) (Feed, error)
		DeleteFeed(ctx context.Context, id string) error
		EnabledFeeds(ctx context.Context) ([]Feed, error)
		UpdateFeed(ctx context.Context, id string, args UpdateFeedArgs) error
		// UserFeeds pages through the feeds the user is subscribed to,
		// ordered by title, with the total subscribed-feed count.
		UserFeeds(ctx context.Context, userID string, offset, limit int) ([]Feed, int, error)
		FeedEntries(ctx context.Context, feedID string) ([]Entry, error)
		InsertEntries(ctx context.Context, entries []Entry) error
		InsertIcon(ctx context.Context, data string) (Icon, error)
		SetFeedIcon(ctx context.Context, feedID, iconID string) error
	}
)
