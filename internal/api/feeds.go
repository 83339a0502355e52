package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/Yathushan/coldsweat/internal/coldsweat"
	cserrs "github.com/Yathushan/coldsweat/internal/errors"
)

type FeedResp struct {
	ID            string     `json:"id"`
	SelfLink      string     `json:"self_link"`
	Title         string     `json:"title"`
	AlternateLink string     `json:"alternate_link"`
	LastUpdatedOn *time.Time `json:"last_updated_on"`
	LastCheckedOn *time.Time `json:"last_checked_on"`
	ErrorCount    int        `json:"error_count"`
	IsEnabled     bool       `json:"is_enabled"`
}

func apiFeed(f coldsweat.Feed) FeedResp {
	var (
		title   string
		altLink string
	)
	if f.Title != nil {
		title = *f.Title
	}
	if f.AlternateLink != nil {
		altLink = *f.AlternateLink
	}

	return FeedResp{
		ID:            f.ID,
		SelfLink:      f.SelfLink,
		Title:         title,
		AlternateLink: altLink,
		LastUpdatedOn: f.LastUpdatedOn,
		LastCheckedOn: f.LastCheckedOn,
		ErrorCount:    f.ErrorCount,
		IsEnabled:     f.IsEnabled,
	}
}

type FeedListResp struct {
	Items      []FeedResp     `json:"items"`
	Pagination paginationMeta `json:"pagination"`
}

func (s *Server) getFeeds(w http.ResponseWriter, r *http.Request) error {
	var (
		ctx    = r.Context()
		userID = userIDFrom(ctx)
	)

	limit, offset := parsePaginationParams(r, 60, 200)

	feeds, total, err := s.repo.UserFeeds(ctx, userID, offset, limit)
	if err != nil {
		return err
	}

	items := make([]FeedResp, 0, len(feeds))
	for _, f := range feeds {
		items = append(items, apiFeed(f))
	}

	return writeJSON(w, http.StatusOK, FeedListResp{
		Items:      items,
		Pagination: calculatePaginationMeta(limit, offset, total),
	})
}

type PostSubscriptionReq struct {
	SelfLink string `json:"self_link"`
	GroupID  string `json:"group_id"`
}

func validatePostSubscriptionReq(req PostSubscriptionReq) error {
	u, err := url.Parse(req.SelfLink)
	if req.SelfLink == "" || err != nil || u.Scheme == "" || u.Host == "" {
		return cserrs.E("self_link must be a valid web address", http.StatusBadRequest)
	}

	return nil
}

// Subscribes the current user to a feed, creating the feed (and its first
// batch of entries) when nobody has added it before. The default group is
// used when none is named.
func (s *Server) postSubscriptions(w http.ResponseWriter, r *http.Request) error {
	var (
		ctx    = r.Context()
		userID = userIDFrom(ctx)
	)

	var body PostSubscriptionReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return cserrs.E(err, http.StatusBadRequest)
	}
	if err := validatePostSubscriptionReq(body); err != nil {
		return err
	}

	var (
		group coldsweat.Group
		err   error
	)
	if body.GroupID != "" {
		group, err = s.repo.Group(ctx, body.GroupID)
	} else {
		group, err = s.repo.EnsureGroup(ctx, coldsweat.DefaultGroupTitle)
	}
	if err != nil {
		return err
	}

	feed, err := s.repo.FeedBySelfLink(ctx, body.SelfLink)
	if errors.Is(err, coldsweat.ErrNotFound) {
		feed, err = s.feeds.AddFeed(ctx, body.SelfLink)
	}
	if err != nil {
		return err
	}

	if err := s.repo.CreateSubscription(ctx, userID, group.ID, feed.ID); err != nil {
		return err
	}

	return writeJSON(w, http.StatusCreated, apiFeed(feed))
}
