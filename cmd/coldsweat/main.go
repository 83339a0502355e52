// Coldsweat is a personal feed reading service.
//
// It fetches subscribed Atom/RSS feeds in the background and serves
// per-user filtered views of the entries: unread, saved, all, by group or
// by feed.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/oklog/run"
	"github.com/sethvargo/go-envconfig"
	_ "modernc.org/sqlite"

	"github.com/Yathushan/coldsweat/internal/api"
	"github.com/Yathushan/coldsweat/internal/coldsweat"
	"github.com/Yathushan/coldsweat/internal/fetcher"
	"github.com/Yathushan/coldsweat/internal/logger"
	"github.com/Yathushan/coldsweat/internal/migrations"
	"github.com/Yathushan/coldsweat/internal/sqlite"
)

type config struct {
	Database string `env:"DATABASE, required"`

	Port           int           `env:"PORT, default=4444"`
	HTTPSCookies   bool          `env:"HTTPS_COOKIES, default=false"`
	CookieHashKey  string        `env:"COOKIE_HASH_KEY, required"`
	CookieBlockKey string        `env:"COOKIE_BLOCK_KEY"`
	CorsOrigin     string        `env:"CORS_ORIGIN, default=*"`
	SessionTTL     time.Duration `env:"SESSION_TTL, default=336h"`
	FetchInterval  time.Duration `env:"FETCH_INTERVAL, default=15m"`

	// Which format to use for logging: either text or json
	LoggerFormat string `env:"LOGGER_FORMAT, default=text"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Parse the config
	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		log.Fatalf("error parsing config: %s", err)
	}

	// Determine which logger format to use
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, nil)
	if cfg.LoggerFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, nil)
	}
	l := slog.New(logger.NewContextHandler(handler))
	slog.SetDefault(l)

	if err := runApp(ctx, cfg); err != nil {
		slog.Error("error running", "error", err)
		os.Exit(1)
	}
}

func runApp(ctx context.Context, cfg config) error {
	// Connect to the sqlite db
	dsn := fmt.Sprintf("%s?_txlock=immediate&_time_format=sqlite&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", cfg.Database)
	dbx, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("error opening database: %s", err)
	}
	defer dbx.Close()

	// Migrate, always
	if err := migrations.Run(dbx); err != nil {
		return fmt.Errorf("error migrating: %s", err)
	}

	repo := sqlite.New(dbx)

	// Subscriptions without an explicit folder land in the default group
	if _, err := repo.EnsureGroup(ctx, coldsweat.DefaultGroupTitle); err != nil {
		return fmt.Errorf("error ensuring default group: %s", err)
	}

	f := fetcher.New(repo, cfg.FetchInterval)
	srvr := api.NewServer(api.ServerConfig{
		Port:           cfg.Port,
		CookieHashKey:  []byte(cfg.CookieHashKey),
		CookieBlockKey: []byte(cfg.CookieBlockKey),
		HttpsCookies:   cfg.HTTPSCookies,
		CorsOrigin:     cfg.CorsOrigin,
		SessionTTL:     cfg.SessionTTL,
	}, repo, f)

	var g run.Group
	g.Add(run.SignalHandler(ctx, os.Interrupt, syscall.SIGTERM))
	g.Add(func() error {
		slog.Info("listening", "addr", srvr.Addr)
		if err := srvr.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error listening: %s", err)
		}
		return nil
	}, func(error) {
		downCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := srvr.Shutdown(downCtx); err != nil {
			slog.Error("error shutting down server", "error", err)
		}
	})

	fetchCtx, cancelFetch := context.WithCancel(ctx)
	g.Add(func() error {
		return f.Run(fetchCtx)
	}, func(error) {
		cancelFetch()
	})

	err = g.Run()
	if serr := (run.SignalError{}); errors.As(err, &serr) {
		slog.Info("shutting down", "signal", serr.Signal)
		return nil
	}

	return err
}
