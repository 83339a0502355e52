package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/Yathushan/coldsweat/internal/coldsweat"
	cserrs "github.com/Yathushan/coldsweat/internal/errors"
)

type EntryResp struct {
	ID            string    `json:"id"`
	FeedID        string    `json:"feed_id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Link          string    `json:"link"`
	Content       string    `json:"content"`
	ContentType   string    `json:"content_type"`
	LastUpdatedOn time.Time `json:"last_updated_on"`
}

func apiEntry(e coldsweat.Entry) EntryResp {
	var (
		author string
		link   string
	)
	if e.Author != nil {
		author = *e.Author
	}
	if e.Link != nil {
		link = *e.Link
	}

	return EntryResp{
		ID:            e.ID,
		FeedID:        e.FeedID,
		Title:         e.Title,
		Author:        author,
		Link:          link,
		Content:       e.Content,
		ContentType:   e.ContentType,
		LastUpdatedOn: e.LastUpdatedOn,
	}
}

type EntryListResp struct {
	Items      []EntryResp    `json:"items"`
	Pagination paginationMeta `json:"pagination"`
}

// entryFilter resolves the request's query params into a filter selector.
// Group and feed ids are verified to exist up front; a bogus id is NotFound
// rather than an empty view.
func (s *Server) entryFilter(r *http.Request) (coldsweat.EntryFilter, error) {
	var (
		ctx = r.Context()
		q   = r.URL.Query()
	)

	switch {
	case q.Get("group") != "":
		group, err := s.repo.Group(ctx, q.Get("group"))
		if err != nil {
			return coldsweat.EntryFilter{}, err
		}
		return coldsweat.EntryFilter{Kind: coldsweat.FilterGroup, GroupID: group.ID}, nil
	case q.Get("feed") != "":
		feed, err := s.repo.Feed(ctx, q.Get("feed"))
		if err != nil {
			return coldsweat.EntryFilter{}, err
		}
		return coldsweat.EntryFilter{Kind: coldsweat.FilterFeed, FeedID: feed.ID}, nil
	}

	switch q.Get("filter") {
	case "", "unread": // Default view
		return coldsweat.EntryFilter{Kind: coldsweat.FilterUnread}, nil
	case "saved":
		return coldsweat.EntryFilter{Kind: coldsweat.FilterSaved}, nil
	case "all":
		return coldsweat.EntryFilter{Kind: coldsweat.FilterAll}, nil
	}

	return coldsweat.EntryFilter{}, cserrs.E("unknown filter", http.StatusBadRequest)
}

func (s *Server) getEntries(w http.ResponseWriter, r *http.Request) error {
	var (
		ctx    = r.Context()
		userID = userIDFrom(ctx)
	)

	filter, err := s.entryFilter(r)
	if err != nil {
		return err
	}

	limit, offset := parsePaginationParams(r, 30, 100)

	entries, total, err := s.repo.ListEntries(ctx, userID, filter, offset, limit)
	if err != nil {
		return err
	}

	items := make([]EntryResp, 0, len(entries))
	for _, e := range entries {
		items = append(items, apiEntry(e))
	}

	return writeJSON(w, http.StatusOK, EntryListResp{
		Items:      items,
		Pagination: calculatePaginationMeta(limit, offset, total),
	})
}

type MarkEntryReq struct {
	Status string `json:"status"`
}

func (s *Server) postMarkEntry(w http.ResponseWriter, r *http.Request) error {
	var (
		ctx     = r.Context()
		userID  = userIDFrom(ctx)
		entryID = mux.Vars(r)["entryID"]
	)

	var body MarkEntryReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return cserrs.E(err, http.StatusBadRequest)
	}
	status, err := coldsweat.ParseMarkStatus(body.Status)
	if err != nil {
		return cserrs.E(err, http.StatusBadRequest)
	}

	// 404 on unknown entries; marking itself never conflicts.
	if _, err := s.repo.Entry(ctx, entryID); err != nil {
		return err
	}
	if err := s.repo.MarkEntry(ctx, userID, entryID, status); err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, struct{}{})
}

type MarkAllReq struct {
	// Unix seconds of when the client loaded the page it is marking from.
	Before int64 `json:"before"`
}

func (s *Server) postMarkAll(w http.ResponseWriter, r *http.Request) error {
	var (
		ctx    = r.Context()
		userID = userIDFrom(ctx)
	)

	var body MarkAllReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return cserrs.E(err, http.StatusBadRequest)
	}
	if body.Before <= 0 {
		return cserrs.E("missing parameter before", http.StatusBadRequest)
	}

	cutoff := time.Unix(body.Before, 0).UTC()
	if err := s.repo.MarkAllRead(ctx, userID, cutoff); err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, struct{}{})
}
