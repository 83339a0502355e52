package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Yathushan/coldsweat/internal/coldsweat"
)

const sessionNamespace = "-sess"

// The serialized session payload. Kept as a typed struct so the session row
// stays an opaque blob to everything outside this file.
type sessionPayload struct {
	UserID string `json:"user_id"`
}

func (r Repo) CreateSession(ctx context.Context, userID string, ttl time.Duration) (coldsweat.Session, error) {
	const q = `INSERT INTO sessions (key, value, expires_on) VALUES (:key, :value, :expires_on);`

	value, err := json.Marshal(sessionPayload{UserID: userID})
	if err != nil {
		return coldsweat.Session{}, fmt.Errorf("error encoding session payload: %s", err)
	}

	sess := coldsweat.Session{
		Key:       uuid.NewString() + sessionNamespace,
		Value:     value,
		ExpiresOn: time.Now().UTC().Add(ttl),
	}
	if _, err := r.db.NamedExecContext(ctx, q, sess); err != nil {
		return coldsweat.Session{}, fmt.Errorf("error inserting session: %s", err)
	}

	return sess, nil
}

// ResolveSession maps a session key to a user id. Expired sessions resolve
// to ErrNotFound and are deleted on the way out.
func (r Repo) ResolveSession(ctx context.Context, key string) (string, error) {
	const q = `SELECT * FROM sessions WHERE key = ?;`

	var sess coldsweat.Session
	err := r.db.GetContext(ctx, &sess, q, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", coldsweat.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("error fetching session: %s", err)
	}

	if sess.ExpiresOn.Before(time.Now().UTC()) {
		if err := r.DeleteSession(ctx, key); err != nil {
			slog.WarnContext(ctx, "error deleting expired session", "error", err)
		}
		return "", coldsweat.ErrNotFound
	}

	var payload sessionPayload
	if err := json.Unmarshal(sess.Value, &payload); err != nil {
		return "", fmt.Errorf("error decoding session payload: %s", err)
	}

	return payload.UserID, nil
}

func (r Repo) DeleteSession(ctx context.Context, key string) error {
	const q = `DELETE FROM sessions WHERE key = ?;`

	if _, err := r.db.ExecContext(ctx, q, key); err != nil {
		return fmt.Errorf("error deleting session: %s", err)
	}

	return nil
}
