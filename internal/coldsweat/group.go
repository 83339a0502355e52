package coldsweat

import "context"

// DefaultGroupTitle is the folder subscriptions land in when the caller
// doesn't pick one.
const DefaultGroupTitle = "Default"

type (
	// Group is a feed folder. Grouping happens per subscription, not per
	// feed: the same feed can sit in different groups for different users.
	Group struct {
		ID    string `db:"id"`
		Title string `db:"title"`
	}

	// Subscription connects a user to a feed under a group. The
	// (user, group, feed) triple is unique; the same (user, feed) pair may
	// exist under several groups, which is why entry views deduplicate.
	Subscription struct {
		ID      string `db:"id"`
		UserID  string `db:"user_id"`
		GroupID string `db:"group_id"`
		FeedID  string `db:"feed_id"`
	}

	GroupService interface {
		Group(ctx context.Context, id string) (Group, error)
		// EnsureGroup returns the group with the given title, creating it
		// first if needed.
		EnsureGroup(ctx context.Context, title string) (Group, error)
		UserGroups(ctx context.Context, userID string) ([]Group, error)
		CreateSubscription(ctx context.Context, userID, groupID, feedID string) error
	}
)
