package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/Yathushan/coldsweat/internal/coldsweat"
)

const entryNamespace = "-ntry"

func (r Repo) Entry(ctx context.Context, id string) (coldsweat.Entry, error) {
	const q = `SELECT * FROM entries WHERE id = ?;`

	var entry coldsweat.Entry
	err := r.db.GetContext(ctx, &entry, q, id)
	if errors.Is(err, sql.ErrNoRows) {
		return coldsweat.Entry{}, coldsweat.ErrNotFound
	}
	if err != nil {
		return coldsweat.Entry{}, fmt.Errorf("error fetching entry: %s", err)
	}

	return entry, nil
}

// entriesView builds the join from the user's subscriptions down to entries,
// narrowed by the filter selector. Columns are left to the caller so the
// same predicate serves both the count and the page.
//
// A user subscribed to one feed under two groups reaches each of its entries
// through two subscription rows, so consumers must select DISTINCT.
func entriesView(userID string, filter coldsweat.EntryFilter) sq.SelectBuilder {
	view := sq.Select().
		From("entries e").
		Join("feeds f ON f.id = e.feed_id").
		Join("subscriptions s ON s.feed_id = f.id").
		Where(sq.Eq{"s.user_id": userID})

	switch filter.Kind {
	case coldsweat.FilterUnread:
		view = view.Where("e.id NOT IN (SELECT entry_id FROM read_entries WHERE user_id = ?)", userID)
	case coldsweat.FilterSaved:
		view = view.Where("e.id IN (SELECT entry_id FROM saved_entries WHERE user_id = ?)", userID)
	case coldsweat.FilterAll:
		// No further narrowing
	case coldsweat.FilterGroup:
		view = view.Where(sq.Eq{"s.group_id": filter.GroupID})
	case coldsweat.FilterFeed:
		// Scoped to the viewer's own subscriptions: an unsubscribed feed id
		// yields an empty view, never another user's entries.
		view = view.Where(sq.Eq{"s.feed_id": filter.FeedID})
	}

	return view
}

func (r Repo) ListEntries(ctx context.Context, userID string, filter coldsweat.EntryFilter, offset, limit int) ([]coldsweat.Entry, int, error) {
	view := entriesView(userID, filter)

	countQ, countArgs, err := view.Columns("COUNT(DISTINCT e.id)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error constructing sql: %s", err)
	}
	var count int
	if err := r.db.GetContext(ctx, &count, countQ, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("error counting entries: %s", err)
	}

	pageQ, pageArgs, err := view.
		Options("DISTINCT").
		Columns("e.*").
		OrderBy("e.last_updated_on DESC").
		Offset(uint64(offset)).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error constructing sql: %s", err)
	}

	entries := []coldsweat.Entry{}
	if err := r.db.SelectContext(ctx, &entries, pageQ, pageArgs...); err != nil {
		return nil, 0, fmt.Errorf("error selecting entries: %s", err)
	}

	return entries, count, nil
}
