// Package api exposes the reader over a JSON HTTP surface: filtered entry
// views, mark/unmark operations, feeds, groups, stats and login sessions.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/securecookie"

	"github.com/Yathushan/coldsweat/internal/coldsweat"
	cserrs "github.com/Yathushan/coldsweat/internal/errors"
)

func writeJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("error encoding json response: %s", err)
	}

	return nil
}

// HandlerFuncE is a modified type of [http.HandlerFunc] that returns an error.
type HandlerFuncE func(w http.ResponseWriter, r *http.Request) error

func (f HandlerFuncE) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	err := f(w, r)
	if err == nil {
		return
	}

	// Either it's already a structured error, a domain sentinel, or coerce
	// it to an internal error
	sErr := &cserrs.Error{}
	switch {
	case errors.As(err, &sErr):
	case errors.Is(err, coldsweat.ErrNotFound):
		sErr = cserrs.E(http.StatusNotFound, err)
	default:
		slog.Error("unstructured handler error", "err", err)
		sErr = cserrs.E(http.StatusInternalServerError, "internal server error")
	}

	if err := writeJSON(w, sErr.Status, sErr); err != nil {
		slog.Error("error writing response", "error", err)
	}
}

// errRouter is a newtype around a mux router that allows attaching handlers that return errors.
type errRouter struct {
	*mux.Router
}

func (r errRouter) HandleFuncE(path string, f HandlerFuncE) *mux.Route {
	return r.Handle(path, f)
}

// FeedAdder creates a feed from a self link on first subscription, fetching
// and storing its current entries. Implemented by the fetcher.
type FeedAdder interface {
	AddFeed(ctx context.Context, selfLink string) (coldsweat.Feed, error)
}

type (
	// Server handles the reader's HTTP requests.
	Server struct {
		*http.Server

		repo         coldsweat.Repository
		feeds        FeedAdder
		secureCookie *securecookie.SecureCookie
		httpsCookies bool
		sessionTTL   time.Duration
	}

	ServerConfig struct {
		Port           int
		CookieHashKey  []byte
		CookieBlockKey []byte
		HttpsCookies   bool
		CorsOrigin     string
		SessionTTL     time.Duration
	}
)

func NewServer(config ServerConfig, repo coldsweat.Repository, feeds FeedAdder) *Server {
	r := errRouter{Router: mux.NewRouter()}

	ttl := config.SessionTTL
	if ttl <= 0 {
		ttl = 14 * 24 * time.Hour
	}

	// An empty block key means no cookie encryption; securecookie wants nil
	// for that, not a zero-length key.
	blockKey := config.CookieBlockKey
	if len(blockKey) == 0 {
		blockKey = nil
	}

	srvr := Server{
		repo:         repo,
		feeds:        feeds,
		secureCookie: securecookie.New(config.CookieHashKey, blockKey),
		httpsCookies: config.HttpsCookies,
		sessionTTL:   ttl,
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%d", config.Port),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
			Handler: handlers.CORS(
				handlers.AllowedOrigins([]string{config.CorsOrigin}),
				handlers.AllowCredentials(),
				handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
				handlers.AllowedHeaders([]string{"content-type"}),
			)(r),
		},
	}

	r.Use(accessLogMiddleware) // Log everything
	r.HandleFuncE("/api/login", srvr.postLogin).Methods(http.MethodPost)
	r.HandleFuncE("/api/logout", srvr.getLogout).Methods(http.MethodGet)
	r.HandleFuncE("/api/stats", srvr.getStats).Methods(http.MethodGet)

	authed := errRouter{Router: r.NewRoute().Subrouter()}
	authed.Use(srvr.requireSessionMiddleware)

	// Entry views and marking
	authed.HandleFuncE("/api/entries", srvr.getEntries).Methods(http.MethodGet)
	authed.HandleFuncE("/api/entries/mark-all", srvr.postMarkAll).Methods(http.MethodPost)
	authed.HandleFuncE("/api/entries/{entryID}/mark", srvr.postMarkEntry).Methods(http.MethodPost)

	// Subscription management
	authed.HandleFuncE("/api/feeds", srvr.getFeeds).Methods(http.MethodGet)
	authed.HandleFuncE("/api/groups", srvr.getGroups).Methods(http.MethodGet)
	authed.HandleFuncE("/api/subscriptions", srvr.postSubscriptions).Methods(http.MethodPost)

	slog.Debug("configured coldsweat server", "port", config.Port)

	return &srvr
}
