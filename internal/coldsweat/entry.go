package coldsweat

import (
	"context"
	"fmt"
	"time"
)

type (
	// Entry is a single Atom/RSS entry. Entries are written by the fetcher
	// and immutable afterwards; they disappear only when their feed does.
	Entry struct {
		ID            string    `db:"id"`
		FeedID        string    `db:"feed_id"`
		GUID          string    `db:"guid"`
		Title         string    `db:"title"`
		Content       string    `db:"content"`
		ContentType   string    `db:"content_type"`
		Author        *string   `db:"author"`
		Link          *string   `db:"link"`
		LastUpdatedOn time.Time `db:"last_updated_on"`
		IsLocal       bool      `db:"is_local"`
	}

	EntryService interface {
		Entry(ctx context.Context, id string) (Entry, error)
		// ListEntries returns one page of the user's entries for the given
		// filter, plus the total number of matches for the same predicate.
		//
		// Offsets are best-effort: a concurrent fetch that inserts a matching
		// entry shifts later pages. Callers accept that rather than getting a
		// stable cursor.
		ListEntries(ctx context.Context, userID string, filter EntryFilter, offset, limit int) ([]Entry, int, error)
		MarkEntry(ctx context.Context, userID, entryID string, status MarkStatus) error
		MarkAllRead(ctx context.Context, userID string, cutoff time.Time) error
	}
)

// FilterKind selects which view of a user's entries a query returns.
type FilterKind string

const (
	FilterUnread FilterKind = "unread"
	FilterSaved  FilterKind = "saved"
	FilterAll    FilterKind = "all"
	FilterGroup  FilterKind = "group"
	FilterFeed   FilterKind = "feed"
)

// EntryFilter is a filter selector: the kind plus the group or feed id when
// the kind calls for one.
type EntryFilter struct {
	Kind    FilterKind
	GroupID string
	FeedID  string
}

// MarkStatus is the state transition applied to a (user, entry) pair.
type MarkStatus string

const (
	StatusRead    MarkStatus = "read"
	StatusUnread  MarkStatus = "unread"
	StatusSaved   MarkStatus = "saved"
	StatusUnsaved MarkStatus = "unsaved"
)

func ParseMarkStatus(s string) (MarkStatus, error) {
	switch MarkStatus(s) {
	case StatusRead, StatusUnread, StatusSaved, StatusUnsaved:
		return MarkStatus(s), nil
	}
	return "", fmt.Errorf("unknown mark status %q", s)
}
