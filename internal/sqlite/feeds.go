package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"modernc.org/sqlite"

	"github.com/Yathushan/coldsweat/internal/coldsweat"
)

const (
	feedNamespace = "-fd"
	iconNamespace = "-icn"
)

func (r Repo) Feed(ctx context.Context, id string) (coldsweat.Feed, error) {
	const q = `SELECT * FROM feeds WHERE id = ?;`

	var feed coldsweat.Feed
	err := r.db.GetContext(ctx, &feed, q, id)
	if errors.Is(err, sql.ErrNoRows) {
		return coldsweat.Feed{}, coldsweat.ErrNotFound
	}
	if err != nil {
		return coldsweat.Feed{}, fmt.Errorf("error fetching feed: %s", err)
	}

	return feed, nil
}

func (r Repo) FeedBySelfLink(ctx context.Context, selfLink string) (coldsweat.Feed, error) {
	const q = `SELECT * FROM feeds WHERE self_link = ?;`

	var feed coldsweat.Feed
	err := r.db.GetContext(ctx, &feed, q, selfLink)
	if errors.Is(err, sql.ErrNoRows) {
		return coldsweat.Feed{}, coldsweat.ErrNotFound
	}
	if err != nil {
		return coldsweat.Feed{}, fmt.Errorf("error fetching feed: %s", err)
	}

	return feed, nil
}

func (r Repo) InsertFeed(ctx context.Context, selfLink string) (coldsweat.Feed, error) {
	const q = `INSERT INTO feeds (id, self_link) VALUES (:id, :self_link);`

	f := coldsweat.Feed{
		ID:       uuid.NewString() + feedNamespace,
		SelfLink: selfLink,
	}
	_, err := r.db.NamedExecContext(ctx, q, f)
	if sqliteErr := (&sqlite.Error{}); errors.As(err, &sqliteErr) && sqliteErr.Code() == 2067 {
		return coldsweat.Feed{}, fmt.Errorf("feed already exists: %w", coldsweat.ErrConflict)
	}
	if err != nil {
		return coldsweat.Feed{}, fmt.Errorf("error inserting feed: %s", err)
	}

	return r.Feed(ctx, f.ID)
}

// DeleteFeed removes a feed; its entries and their read/saved rows go with
// it via cascade.
func (r Repo) DeleteFeed(ctx context.Context, id string) error {
	const q = `DELETE FROM feeds WHERE id = ?;`

	if _, err := r.db.ExecContext(ctx, q, id); err != nil {
		return fmt.Errorf("error deleting feed: %s", err)
	}

	return nil
}

// EnabledFeeds retrieves every feed the fetcher should still be checking.
func (r Repo) EnabledFeeds(ctx context.Context) ([]coldsweat.Feed, error) {
	const q = `SELECT * FROM feeds WHERE is_enabled = TRUE;`

	var feeds []coldsweat.Feed
	if err := r.db.SelectContext(ctx, &feeds, q); err != nil {
		return nil, fmt.Errorf("error selecting enabled feeds: %s", err)
	}

	return feeds, nil
}

func (r Repo) UpdateFeed(ctx context.Context, id string, args coldsweat.UpdateFeedArgs) error {
	q := sq.Update("feeds")
	if args.Title != "" {
		q = q.Set("title", args.Title)
	}
	if args.AlternateLink != "" {
		q = q.Set("alternate_link", args.AlternateLink)
	}
	if args.Etag != "" {
		q = q.Set("etag", args.Etag)
	}
	if !args.LastUpdatedOn.IsZero() {
		q = q.Set("last_updated_on", args.LastUpdatedOn)
	}
	if !args.LastCheckedOn.IsZero() {
		q = q.Set("last_checked_on", args.LastCheckedOn)
	}
	if args.LastStatus != nil {
		q = q.Set("last_status", *args.LastStatus)
	}
	if args.ErrorCount != nil {
		q = q.Set("error_count", *args.ErrorCount)
	}
	q = q.Where(sq.Eq{"id": id})

	query, qArgs, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("error constructing sql: %s", err)
	}
	if _, err := r.db.ExecContext(ctx, query, qArgs...); err != nil {
		return fmt.Errorf("error executing feed update: %s", err)
	}

	return nil
}

// UserFeeds pages through the user's subscribed feeds ordered by title. The
// same feed subscribed under several groups counts once.
func (r Repo) UserFeeds(ctx context.Context, userID string, offset, limit int) ([]coldsweat.Feed, int, error) {
	view := sq.Select().
		From("feeds f").
		Join("subscriptions s ON s.feed_id = f.id").
		Where(sq.Eq{"s.user_id": userID})

	countQ, countArgs, err := view.Columns("COUNT(DISTINCT f.id)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error constructing sql: %s", err)
	}
	var count int
	if err := r.db.GetContext(ctx, &count, countQ, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("error counting user feeds: %s", err)
	}

	pageQ, pageArgs, err := view.
		Options("DISTINCT").
		Columns("f.*").
		OrderBy("f.title").
		Offset(uint64(offset)).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error constructing sql: %s", err)
	}

	feeds := []coldsweat.Feed{}
	if err := r.db.SelectContext(ctx, &feeds, pageQ, pageArgs...); err != nil {
		return nil, 0, fmt.Errorf("error selecting user feeds: %s", err)
	}

	return feeds, count, nil
}

func (r Repo) FeedEntries(ctx context.Context, feedID string) ([]coldsweat.Entry, error) {
	const q = `SELECT * FROM entries WHERE feed_id = ? ORDER BY last_updated_on DESC;`

	var entries []coldsweat.Entry
	if err := r.db.SelectContext(ctx, &entries, q, feedID); err != nil {
		return nil, fmt.Errorf("error selecting feed entries: %s", err)
	}

	return entries, nil
}

// InsertEntries writes fetched entries, skipping any guid the feed already
// has. IDs are assigned in place so callers see them after the insert.
func (r Repo) InsertEntries(ctx context.Context, entries []coldsweat.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	for i := range entries {
		entries[i].ID = uuid.NewString() + entryNamespace
		if entries[i].ContentType == "" {
			entries[i].ContentType = "text/html"
		}
	}

	const q = `INSERT INTO entries (id, feed_id, guid, title, content, content_type, author, link, last_updated_on, is_local)
	VALUES (:id, :feed_id, :guid, :title, :content, :content_type, :author, :link, :last_updated_on, :is_local)
	ON CONFLICT (feed_id, guid) DO NOTHING;`
	if _, err := r.db.NamedExecContext(ctx, q, entries); err != nil {
		return fmt.Errorf("error inserting entries: %s", err)
	}

	return nil
}

func (r Repo) InsertIcon(ctx context.Context, data string) (coldsweat.Icon, error) {
	const q = `INSERT INTO icons (id, data) VALUES (:id, :data);`

	icon := coldsweat.Icon{
		ID:   uuid.NewString() + iconNamespace,
		Data: data,
	}
	if _, err := r.db.NamedExecContext(ctx, q, icon); err != nil {
		return coldsweat.Icon{}, fmt.Errorf("error inserting icon: %s", err)
	}

	return icon, nil
}

func (r Repo) SetFeedIcon(ctx context.Context, feedID, iconID string) error {
	const q = `UPDATE feeds SET icon_id = ? WHERE id = ?;`

	if _, err := r.db.ExecContext(ctx, q, iconID, feedID); err != nil {
		return fmt.Errorf("error setting feed icon: %s", err)
	}

	return nil
}
