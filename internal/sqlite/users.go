package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"modernc.org/sqlite"

	"github.com/Yathushan/coldsweat/internal/coldsweat"
)

const userNamespace = "-usr"

func (r Repo) User(ctx context.Context, id string) (coldsweat.User, error) {
	const q = `SELECT * FROM users WHERE id = ?;`

	var usr coldsweat.User
	err := r.db.GetContext(ctx, &usr, q, id)
	if errors.Is(err, sql.ErrNoRows) {
		return coldsweat.User{}, coldsweat.ErrNotFound
	}
	if err != nil {
		return coldsweat.User{}, fmt.Errorf("error fetching user: %s", err)
	}

	return usr, nil
}

func (r Repo) UserByUsername(ctx context.Context, username string) (coldsweat.User, error) {
	const q = `SELECT * FROM users WHERE username = ?;`

	var usr coldsweat.User
	err := r.db.GetContext(ctx, &usr, q, username)
	if errors.Is(err, sql.ErrNoRows) {
		return coldsweat.User{}, coldsweat.ErrNotFound
	}
	if err != nil {
		return coldsweat.User{}, fmt.Errorf("error fetching user: %s", err)
	}

	return usr, nil
}

func (r Repo) UserByAPIKey(ctx context.Context, apiKey string) (coldsweat.User, error) {
	const q = `SELECT * FROM users WHERE api_key = ? AND is_enabled = TRUE;`

	var usr coldsweat.User
	err := r.db.GetContext(ctx, &usr, q, apiKey)
	if errors.Is(err, sql.ErrNoRows) {
		return coldsweat.User{}, coldsweat.ErrNotFound
	}
	if err != nil {
		return coldsweat.User{}, fmt.Errorf("error fetching user: %s", err)
	}

	return usr, nil
}

func (r Repo) InsertUser(ctx context.Context, args coldsweat.NewUserArgs) (coldsweat.User, error) {
	const q = `INSERT INTO users (id, username, password, email, api_key, is_enabled)
	VALUES (:id, :username, :password, :email, :api_key, :is_enabled);`

	usr := coldsweat.User{
		ID:        uuid.NewString() + userNamespace,
		Username:  args.Username,
		Password:  coldsweat.Digest(args.Password),
		APIKey:    coldsweat.MakeAPIKey(args.Username, args.Password),
		IsEnabled: true,
	}
	if args.Email != "" {
		usr.Email = &args.Email
	}

	_, err := r.db.NamedExecContext(ctx, q, usr)
	if sqliteErr := (&sqlite.Error{}); errors.As(err, &sqliteErr) && sqliteErr.Code() == 2067 {
		return coldsweat.User{}, fmt.Errorf("user already exists: %w", coldsweat.ErrConflict)
	}
	if err != nil {
		return coldsweat.User{}, fmt.Errorf("error inserting user: %s", err)
	}

	return usr, nil
}
