package api

import (
	"net/http"
	"time"
)

type StatsResp struct {
	LastCheckedOn    *time.Time `json:"last_checked_on"` // null means never
	EntryCount       int        `json:"entry_count"`
	UnreadEntryCount int        `json:"unread_entry_count"`
	FeedCount        int        `json:"feed_count"`
	ActiveFeedCount  int        `json:"active_feed_count"`
}

// Global, user-agnostic counters. Served without a session so the login
// page can show them.
func (s *Server) getStats(w http.ResponseWriter, r *http.Request) error {
	stats, err := s.repo.Stats(r.Context())
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, StatsResp{
		LastCheckedOn:    stats.LastCheckedOn,
		EntryCount:       stats.EntryCount,
		UnreadEntryCount: stats.UnreadEntryCount,
		FeedCount:        stats.FeedCount,
		ActiveFeedCount:  stats.ActiveFeedCount,
	})
}
