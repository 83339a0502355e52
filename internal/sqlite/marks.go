package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Yathushan/coldsweat/internal/coldsweat"
)

const markNamespace = "-mark"

// insertMark is the idempotent-insert primitive for the read/saved
// relations: it reports whether a row was newly inserted, and an existing
// (user, entry) pair is a no-op rather than an error.
func insertMark(ctx context.Context, ext sqlx.ExtContext, table, userID, entryID string) (bool, error) {
	q := fmt.Sprintf(`INSERT OR IGNORE INTO %s (id, user_id, entry_id) VALUES (?, ?, ?);`, table)

	res, err := ext.ExecContext(ctx, q, uuid.NewString()+markNamespace, userID, entryID)
	if err != nil {
		return false, fmt.Errorf("error inserting %s mark: %s", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error reading rows affected: %s", err)
	}

	return n > 0, nil
}

// deleteMark removes a (user, entry) row, reporting whether one existed.
func deleteMark(ctx context.Context, ext sqlx.ExtContext, table, userID, entryID string) (bool, error) {
	q := fmt.Sprintf(`DELETE FROM %s WHERE user_id = ? AND entry_id = ?;`, table)

	res, err := ext.ExecContext(ctx, q, userID, entryID)
	if err != nil {
		return false, fmt.Errorf("error deleting %s mark: %s", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error reading rows affected: %s", err)
	}

	return n > 0, nil
}

// MarkEntry applies a read/unread/saved/unsaved transition for the user.
// Every transition is idempotent: repeating one changes nothing and still
// succeeds.
func (r Repo) MarkEntry(ctx context.Context, userID, entryID string, status coldsweat.MarkStatus) error {
	var (
		changed bool
		err     error
	)
	switch status {
	case coldsweat.StatusRead:
		changed, err = insertMark(ctx, r.db, "read_entries", userID, entryID)
	case coldsweat.StatusUnread:
		changed, err = deleteMark(ctx, r.db, "read_entries", userID, entryID)
	case coldsweat.StatusSaved:
		changed, err = insertMark(ctx, r.db, "saved_entries", userID, entryID)
	case coldsweat.StatusUnsaved:
		changed, err = deleteMark(ctx, r.db, "saved_entries", userID, entryID)
	default:
		return fmt.Errorf("unknown mark status %q", status)
	}
	if err != nil {
		return err
	}
	if !changed {
		slog.DebugContext(ctx, "mark was a no-op", "entry_id", entryID, "status", status)
	}

	return nil
}

// MarkAllRead marks as read every entry reachable through the user's
// subscriptions that is still unread and whose feed was last checked before
// the cutoff. Feeds checked after the cutoff are left alone: their entries
// may have arrived after the user loaded the page they're marking from.
//
// Runs in one transaction; a row that raced in via a concurrent single-entry
// mark is skipped, not a failure.
func (r Repo) MarkAllRead(ctx context.Context, userID string, cutoff time.Time) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error beginning transaction: %s", err)
	}
	defer tx.Rollback()

	const q = `SELECT DISTINCT e.id
	FROM entries e
	JOIN feeds f ON f.id = e.feed_id
	JOIN subscriptions s ON s.feed_id = f.id
	WHERE s.user_id = ?
		AND e.id NOT IN (SELECT entry_id FROM read_entries WHERE user_id = ?)
		AND f.last_checked_on IS NOT NULL
		AND f.last_checked_on < ?;`

	var ids []string
	if err := tx.SelectContext(ctx, &ids, q, userID, userID, cutoff); err != nil {
		return fmt.Errorf("error selecting unread entries: %s", err)
	}

	for _, id := range ids {
		if _, err := insertMark(ctx, tx, "read_entries", userID, id); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing marks: %s", err)
	}
	slog.DebugContext(ctx, "marked all read", "user_id", userID, "count", len(ids))

	return nil
}
