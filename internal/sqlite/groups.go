package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Yathushan/coldsweat/internal/coldsweat"
)

const (
	groupNamespace        = "-grp"
	subscriptionNamespace = "-sub"
)

func (r Repo) Group(ctx context.Context, id string) (coldsweat.Group, error) {
	const q = `SELECT * FROM groups WHERE id = ?;`

	var group coldsweat.Group
	err := r.db.GetContext(ctx, &group, q, id)
	if errors.Is(err, sql.ErrNoRows) {
		return coldsweat.Group{}, coldsweat.ErrNotFound
	}
	if err != nil {
		return coldsweat.Group{}, fmt.Errorf("error fetching group: %s", err)
	}

	return group, nil
}

func (r Repo) EnsureGroup(ctx context.Context, title string) (coldsweat.Group, error) {
	const q = `INSERT OR IGNORE INTO groups (id, title) VALUES (?, ?);`

	if _, err := r.db.ExecContext(ctx, q, uuid.NewString()+groupNamespace, title); err != nil {
		return coldsweat.Group{}, fmt.Errorf("error ensuring group: %s", err)
	}

	var group coldsweat.Group
	if err := r.db.GetContext(ctx, &group, `SELECT * FROM groups WHERE title = ?;`, title); err != nil {
		return coldsweat.Group{}, fmt.Errorf("error fetching group: %s", err)
	}

	return group, nil
}

// UserGroups lists the groups the user has at least one subscription under,
// ordered by title.
func (r Repo) UserGroups(ctx context.Context, userID string) ([]coldsweat.Group, error) {
	const q = `SELECT DISTINCT g.*
	FROM groups g
	JOIN subscriptions s ON s.group_id = g.id
	WHERE s.user_id = ?
	ORDER BY g.title;`

	groups := []coldsweat.Group{}
	if err := r.db.SelectContext(ctx, &groups, q, userID); err != nil {
		return nil, fmt.Errorf("error selecting user groups: %s", err)
	}

	return groups, nil
}

// CreateSubscription adds the (user, group, feed) triple, a no-op if it
// already exists.
func (r Repo) CreateSubscription(ctx context.Context, userID, groupID, feedID string) error {
	const q = `INSERT OR IGNORE INTO subscriptions (id, user_id, group_id, feed_id) VALUES (?, ?, ?, ?);`

	id := uuid.NewString() + subscriptionNamespace
	if _, err := r.db.ExecContext(ctx, q, id, userID, groupID, feedID); err != nil {
		return fmt.Errorf("error creating subscription: %s", err)
	}

	return nil
}
