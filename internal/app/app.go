// Package app wires the store, upstream clients and updater together.
package app

import (
	"context"
	"fmt"

	"github.com/abdulachik/lolquotes/internal/config"
	"github.com/abdulachik/lolquotes/internal/db"
	"github.com/abdulachik/lolquotes/internal/ddragon"
	"github.com/abdulachik/lolquotes/internal/metrics"
	"github.com/abdulachik/lolquotes/internal/notify"
	"github.com/abdulachik/lolquotes/internal/poster"
	"github.com/abdulachik/lolquotes/internal/updater"
	"github.com/abdulachik/lolquotes/internal/wiki"
)

// App is the main application container holding all dependencies.
type App struct {
	Config   *config.Config
	Store    *db.Store
	Roster   *ddragon.Client
	Wiki     *wiki.Client
	Updater  *updater.Updater
	Poster   poster.Poster // nil when no webhook is configured
	Notifier notify.Notifier
}

// New creates a new application instance with all dependencies wired up.
// recorder may be nil.
func New(ctx context.Context, cfg *config.Config, recorder metrics.Recorder) (*App, error) {
	store, err := db.NewStore(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	roster := ddragon.New(ddragon.Config{
		BaseURL: cfg.DDragonBaseURL,
		Timeout: cfg.HTTPTimeout,
	})

	wikiClient := wiki.New(wiki.Config{
		BaseURL: cfg.WikiBaseURL,
		Timeout: cfg.HTTPTimeout,
	})

	upd := updater.New(updater.Config{
		Store:         store,
		Roster:        roster,
		Fetcher:       wikiClient,
		Recorder:      recorder,
		ChampionsPath: cfg.ChampionsPath,
		QuotesPath:    cfg.QuotesPath,
		Concurrency:   cfg.FetchConcurrency,
	})

	notifiers := notify.Multi{notify.NewLogNotifier(nil)}

	var p poster.Poster
	if cfg.WebhookURL != "" {
		p = poster.NewWebhookPoster(poster.WebhookConfig{
			URL:     cfg.WebhookURL,
			Timeout: cfg.HTTPTimeout,
		})
		notifiers = append(notifiers, notify.NewWebhookNotifier(notify.WebhookConfig{Poster: p}))
	}

	return &App{
		Config:   cfg,
		Store:    store,
		Roster:   roster,
		Wiki:     wikiClient,
		Updater:  upd,
		Poster:   p,
		Notifier: notifiers,
	}, nil
}

// Close closes all resources.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
