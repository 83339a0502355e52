package coldsweat

import (
	"context"
	"time"
)

type (
	// Session is a persisted login. The value column is an opaque serialized
	// payload; only the store knows how to read it back.
	Session struct {
		Key       string    `db:"key"`
		Value     []byte    `db:"value"`
		ExpiresOn time.Time `db:"expires_on"`
	}

	SessionService interface {
		CreateSession(ctx context.Context, userID string, ttl time.Duration) (Session, error)
		// ResolveSession turns a session key into the user id it belongs to.
		// Absent or expired sessions come back as ErrNotFound.
		ResolveSession(ctx context.Context, key string) (string, error)
		DeleteSession(ctx context.Context, key string) error
	}
)
