// Package coldsweat holds the domain types for the feed reading service:
// users, groups, feeds, entries and the per-user read/saved state kept on
// top of them.
//
// Storage implementations satisfy the Repository interface; HTTP handlers
// and the fetcher only ever speak in these types.
package coldsweat

import "errors"

var (
	ErrConflict = errors.New("resource already exists")
	ErrNotFound = errors.New("resource not found")
)

// Repository is the full storage surface backing the service.
type Repository interface {
	UserService
	GroupService
	FeedService
	EntryService
	SessionService
	StatsService
}
