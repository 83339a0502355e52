package coldsweat

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

type (
	// User is a reader account. Passwords are stored as digests; comparing
	// them is the whole of credential validation here.
	User struct {
		ID        string  `db:"id"`
		Username  string  `db:"username"`
		Password  string  `db:"password"`
		Email     *string `db:"email"`
		APIKey    string  `db:"api_key"`
		IsEnabled bool    `db:"is_enabled"`
	}

	NewUserArgs struct {
		Username string
		Password string // Plaintext; digested before storage
		Email    string
	}

	UserService interface {
		User(ctx context.Context, id string) (User, error)
		UserByUsername(ctx context.Context, username string) (User, error)
		UserByAPIKey(ctx context.Context, apiKey string) (User, error)
		InsertUser(ctx context.Context, args NewUserArgs) (User, error)
	}
)

// CheckPassword reports whether the given plaintext matches the user's
// stored digest. Disabled users never match.
func (u User) CheckPassword(password string) bool {
	return u.IsEnabled && u.Password == Digest(password)
}

// Digest is the opaque credential digest used for both passwords and API
// keys.
func Digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// MakeAPIKey derives a user's API key from their credentials.
func MakeAPIKey(username, password string) string {
	return Digest(username + ":" + password)
}
