// Package fetcher keeps feeds fresh: it periodically pulls every enabled
// feed, stores new entries, and records check metadata (status, etag,
// last_checked_on) on the feed rows.
//
// It runs alongside the HTTP server and shares nothing with it but the
// database.
package fetcher

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"
	"github.com/sethvargo/go-retry"

	"github.com/Yathushan/coldsweat/internal/coldsweat"
)

const maxIconBytes = 64 << 10

type Fetcher struct {
	repo     coldsweat.Repository
	client   *http.Client
	parser   *gofeed.Parser
	policy   *bluemonday.Policy
	icons    *lru.Cache[string, string] // host -> icon id
	interval time.Duration
}

func New(repo coldsweat.Repository, interval time.Duration) *Fetcher {
	icons, _ := lru.New[string, string](256)

	return &Fetcher{
		repo: repo,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		parser:   gofeed.NewParser(),
		policy:   bluemonday.UGCPolicy(),
		icons:    icons,
		interval: interval,
	}
}

// Run refreshes all feeds on the configured interval until the context is
// canceled.
func (f *Fetcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		f.RefreshAll(ctx)

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// RefreshAll checks every enabled feed once. Per-feed failures are logged
// and counted on the feed row, never fatal to the sweep.
func (f *Fetcher) RefreshAll(ctx context.Context) {
	feeds, err := f.repo.EnabledFeeds(ctx)
	if err != nil {
		slog.Error("error listing feeds to refresh", "error", err)
		return
	}

	for _, feed := range feeds {
		if ctx.Err() != nil {
			return
		}
		if err := f.RefreshFeed(ctx, feed); err != nil {
			slog.Error("error refreshing feed", "feed_id", feed.ID, "self_link", feed.SelfLink, "error", err)
		}
	}
}

// RefreshFeed fetches a single feed with etag revalidation and stores
// whatever entries it hasn't seen before.
func (f *Fetcher) RefreshFeed(ctx context.Context, feed coldsweat.Feed) error {
	now := time.Now().UTC()

	body, status, etag, err := f.fetch(ctx, feed)
	if err != nil {
		f.recordError(ctx, feed, now)
		return fmt.Errorf("error fetching %s: %w", feed.SelfLink, err)
	}

	if status == http.StatusNotModified {
		return f.repo.UpdateFeed(ctx, feed.ID, coldsweat.UpdateFeedArgs{
			LastCheckedOn: now,
			LastStatus:    &status,
		})
	}
	if status != http.StatusOK {
		f.recordError(ctx, feed, now)
		return fmt.Errorf("unexpected status %d from %s", status, feed.SelfLink)
	}

	parsed, err := f.parser.ParseString(string(body))
	if err != nil {
		f.recordError(ctx, feed, now)
		return fmt.Errorf("error parsing %s: %w", feed.SelfLink, err)
	}

	entries := make([]coldsweat.Entry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		entries = append(entries, f.entryFromItem(feed.ID, item, now))
	}
	if err := f.repo.InsertEntries(ctx, entries); err != nil {
		return err
	}

	noErrors := 0
	args := coldsweat.UpdateFeedArgs{
		Title:         parsed.Title,
		AlternateLink: parsed.Link,
		Etag:          etag,
		LastCheckedOn: now,
		LastStatus:    &status,
		ErrorCount:    &noErrors,
	}
	if parsed.UpdatedParsed != nil {
		args.LastUpdatedOn = parsed.UpdatedParsed.UTC()
	}

	return f.repo.UpdateFeed(ctx, feed.ID, args)
}

// fetch GETs the feed, retrying transient failures with a short fibonacci
// backoff. A 304 comes back with no body.
func (f *Fetcher) fetch(ctx context.Context, feed coldsweat.Feed) ([]byte, int, string, error) {
	var (
		body   []byte
		status int
		etag   string
	)

	backoff := retry.WithMaxRetries(2, retry.NewFibonacci(500*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, feed.SelfLink, nil)
		if err != nil {
			return err
		}
		if feed.Etag != nil {
			req.Header.Set("If-None-Match", *feed.Etag)
		}

		resp, err := f.client.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			return retry.RetryableError(fmt.Errorf("status %d", resp.StatusCode))
		}

		status = resp.StatusCode
		etag = resp.Header.Get("ETag")
		if status == http.StatusOK {
			body, err = io.ReadAll(resp.Body)
			if err != nil {
				return retry.RetryableError(err)
			}
		}

		return nil
	})

	return body, status, etag, err
}

func (f *Fetcher) recordError(ctx context.Context, feed coldsweat.Feed, now time.Time) {
	errCount := feed.ErrorCount + 1
	if err := f.repo.UpdateFeed(ctx, feed.ID, coldsweat.UpdateFeedArgs{
		LastCheckedOn: now,
		ErrorCount:    &errCount,
	}); err != nil {
		slog.Error("error recording feed failure", "feed_id", feed.ID, "error", err)
	}
}

func (f *Fetcher) entryFromItem(feedID string, item *gofeed.Item, now time.Time) coldsweat.Entry {
	guid := item.GUID
	if guid == "" {
		guid = item.Link
	}
	content := item.Content
	if content == "" {
		content = item.Description
	}

	e := coldsweat.Entry{
		FeedID:        feedID,
		GUID:          guid,
		Title:         f.policy.Sanitize(item.Title),
		Content:       f.policy.Sanitize(content),
		ContentType:   "text/html",
		LastUpdatedOn: now,
	}
	// Upstream timestamps when present, arrival time otherwise
	if item.UpdatedParsed != nil {
		e.LastUpdatedOn = item.UpdatedParsed.UTC()
	} else if item.PublishedParsed != nil {
		e.LastUpdatedOn = item.PublishedParsed.UTC()
	}
	if item.Author != nil && item.Author.Name != "" {
		author := item.Author.Name
		e.Author = &author
	}
	if item.Link != "" {
		link := item.Link
		e.Link = &link
	}

	return e
}

// AddFeed registers a brand-new feed by self link, does the first fetch
// inline so the subscriber sees entries immediately, and attaches a favicon.
// Adding a link someone else already added hands back the existing feed.
func (f *Fetcher) AddFeed(ctx context.Context, selfLink string) (coldsweat.Feed, error) {
	feed, err := f.repo.InsertFeed(ctx, selfLink)
	if errors.Is(err, coldsweat.ErrConflict) {
		return f.repo.FeedBySelfLink(ctx, selfLink)
	}
	if err != nil {
		return coldsweat.Feed{}, err
	}

	if err := f.RefreshFeed(ctx, feed); err != nil {
		return coldsweat.Feed{}, err
	}
	f.attachIcon(ctx, feed)

	return f.repo.Feed(ctx, feed.ID)
}

// attachIcon fetches the site favicon and stores it as a data URI, memoizing
// per host so feeds on the same domain share one icon row. Best-effort.
func (f *Fetcher) attachIcon(ctx context.Context, feed coldsweat.Feed) {
	u, err := url.Parse(feed.SelfLink)
	if err != nil || u.Host == "" {
		return
	}

	if iconID, ok := f.icons.Get(u.Host); ok {
		if err := f.repo.SetFeedIcon(ctx, feed.ID, iconID); err != nil {
			slog.Error("error setting feed icon", "feed_id", feed.ID, "error", err)
		}
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.Scheme+"://"+u.Host+"/favicon.ico", nil)
	if err != nil {
		return
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxIconBytes))
	if err != nil {
		return
	}

	icon, err := f.repo.InsertIcon(ctx, "data:image/x-icon;base64,"+base64.StdEncoding.EncodeToString(data))
	if err != nil {
		slog.Error("error storing icon", "error", err)
		return
	}
	f.icons.Add(u.Host, icon.ID)

	if err := f.repo.SetFeedIcon(ctx, feed.ID, icon.ID); err != nil {
		slog.Error("error setting feed icon", "feed_id", feed.ID, "error", err)
	}
}
