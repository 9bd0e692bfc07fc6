// Package updater refreshes the roster and quotes from upstream sources and
// keeps the store and the exported JSON files in step.
package updater

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/abdulachik/lolquotes/internal/db"
	"github.com/abdulachik/lolquotes/internal/ddragon"
	"github.com/abdulachik/lolquotes/internal/export"
	"github.com/abdulachik/lolquotes/internal/extractor"
	"github.com/abdulachik/lolquotes/internal/metrics"
	"github.com/abdulachik/lolquotes/internal/wiki"
)

const defaultConcurrency = 4

// RosterSource returns the current game version and its champions.
type RosterSource interface {
	Roster(ctx context.Context) (string, []ddragon.Champion, error)
}

// Updater runs roster and quote refreshes.
type Updater struct {
	store         *db.Store
	roster        RosterSource
	fetcher       wiki.Fetcher
	recorder      metrics.Recorder
	championsPath string
	quotesPath    string
	concurrency   int
}

// Config holds configuration for the updater.
type Config struct {
	Store         *db.Store
	Roster        RosterSource
	Fetcher       wiki.Fetcher
	Recorder      metrics.Recorder
	ChampionsPath string
	QuotesPath    string
	Concurrency   int
}

// New creates a new Updater.
func New(cfg Config) *Updater {
	recorder := cfg.Recorder
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	return &Updater{
		store:         cfg.Store,
		roster:        cfg.Roster,
		fetcher:       cfg.Fetcher,
		recorder:      recorder,
		championsPath: cfg.ChampionsPath,
		quotesPath:    cfg.QuotesPath,
		concurrency:   concurrency,
	}
}

// Failure is a champion whose quotes could not be refreshed.
type Failure struct {
	Champion string
	Err      error
}

// Report summarizes a quote refresh.
type Report struct {
	RunID     string
	Status    string
	Champions int
	Quotes    int
	Failures  []Failure
	Duration  time.Duration
}

// Failed reports whether any champion failed.
func (r *Report) Failed() bool {
	return len(r.Failures) > 0
}

// UpdateRoster fetches the latest roster, stores it and writes champions.json.
func (u *Updater) UpdateRoster(ctx context.Context) ([]ddragon.Champion, error) {
	version, champions, err := u.roster.Roster(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch roster: %w", err)
	}

	for _, c := range champions {
		err := u.store.UpsertChampion(ctx, db.UpsertChampionParams{
			Name:    c.Name,
			RiotID:  c.ID,
			Icon:    c.Icon,
			Version: version,
		})
		if err != nil {
			return nil, fmt.Errorf("store champion %s: %w", c.Name, err)
		}
	}

	if u.championsPath != "" {
		if err := export.WriteChampions(u.championsPath, champions); err != nil {
			return nil, fmt.Errorf("export champions: %w", err)
		}
	}

	slog.Info("roster updated", "version", version, "champions", len(champions))
	return champions, nil
}

// StoredChampions returns the roster from the store.
func (u *Updater) StoredChampions(ctx context.Context) ([]ddragon.Champion, error) {
	rows, err := u.store.ListChampions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list champions: %w", err)
	}

	champions := make([]ddragon.Champion, len(rows))
	for i, row := range rows {
		champions[i] = ddragon.Champion{Name: row.Name, ID: row.RiotID, Icon: row.Icon}
	}
	return champions, nil
}

// Refresh updates the roster and then every champion's quotes.
func (u *Updater) Refresh(ctx context.Context) (*Report, error) {
	champions, err := u.UpdateRoster(ctx)
	if err != nil {
		return nil, err
	}
	return u.UpdateQuotes(ctx, champions)
}

// UpdateQuotes fetches and extracts quotes for champions, which must already
// be stored. A champion that fails is logged and reported without stopping
// the others. quotes.json is rewritten from the store afterwards.
func (u *Updater) UpdateQuotes(ctx context.Context, champions []ddragon.Champion) (*Report, error) {
	start := time.Now()
	report := &Report{
		RunID:     uuid.NewString(),
		Champions: len(champions),
	}

	err := u.store.CreateRefreshRun(ctx, db.CreateRefreshRunParams{
		ID:             report.RunID,
		ChampionsTotal: int64(len(champions)),
	})
	if err != nil {
		return nil, fmt.Errorf("create refresh run: %w", err)
	}

	slog.Info("updating quotes", "run", report.RunID, "champions", len(champions), "concurrency", u.concurrency)

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(u.concurrency)

	for _, c := range champions {
		g.Go(func() error {
			n, err := u.updateChampion(ctx, c)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				slog.Warn("failed to update champion", "champion", c.Name, "error", err)
				report.Failures = append(report.Failures, Failure{Champion: c.Name, Err: err})
				return nil
			}
			report.Quotes += n
			return nil
		})
	}
	g.Wait()

	report.Status = runStatus(len(champions), len(report.Failures))
	report.Duration = time.Since(start)

	// The run is finished even if the caller's context was canceled.
	finishCtx := context.WithoutCancel(ctx)
	if err := u.finishRun(finishCtx, report); err != nil {
		return report, err
	}

	if err := u.ExportQuotes(finishCtx); err != nil {
		return report, err
	}

	u.recorder.IncRefreshOutcome(report.Status)
	u.recorder.SetLastRefresh(time.Now())

	slog.Info("quotes updated",
		"run", report.RunID,
		"status", report.Status,
		"quotes", report.Quotes,
		"failed", len(report.Failures),
		"duration", report.Duration.Round(time.Millisecond),
	)

	return report, nil
}

func (u *Updater) updateChampion(ctx context.Context, c ddragon.Champion) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	start := time.Now()
	raw, err := u.fetcher.FetchAudioPage(ctx, c.WikiName())
	if err != nil {
		u.recorder.ObserveFetchDuration(time.Since(start), metrics.OutcomeFailed)
		u.recorder.IncFetchResult(metrics.OutcomeFailed)
		return 0, fmt.Errorf("fetch audio page: %w", err)
	}

	quotes := extractor.Parse(raw, c.Name)

	outcome := metrics.OutcomeSuccess
	if len(quotes) == 0 {
		outcome = metrics.OutcomeEmpty
	}
	u.recorder.ObserveFetchDuration(time.Since(start), outcome)

	res, err := u.store.ReplaceQuotes(ctx, c.Name, quotes)
	if err != nil {
		u.recorder.IncFetchResult(metrics.OutcomeFailed)
		return 0, fmt.Errorf("store quotes: %w", err)
	}

	u.recorder.IncFetchResult(outcome)
	u.recorder.AddQuotesExtracted(len(quotes))

	slog.Debug("champion updated",
		"champion", c.Name,
		"quotes", len(quotes),
		"unchanged", res.Unchanged,
		"updated", res.Updated,
		"inserted", res.Inserted,
		"deleted", res.Deleted,
	)
	return len(quotes), nil
}

func (u *Updater) finishRun(ctx context.Context, report *Report) error {
	var msg sql.NullString
	if len(report.Failures) > 0 {
		parts := make([]string, len(report.Failures))
		for i, f := range report.Failures {
			parts[i] = fmt.Sprintf("%s: %v", f.Champion, f.Err)
		}
		msg = sql.NullString{String: strings.Join(parts, "; "), Valid: true}
	}

	err := u.store.FinishRefreshRun(ctx, db.FinishRefreshRunParams{
		ID:              report.RunID,
		Status:          report.Status,
		ChampionsFailed: int64(len(report.Failures)),
		QuotesTotal:     int64(report.Quotes),
		ErrorMessage:    msg,
	})
	if err != nil {
		return fmt.Errorf("finish refresh run: %w", err)
	}
	return nil
}

func runStatus(total, failed int) string {
	switch {
	case failed == 0:
		return db.RunStatusCompleted
	case failed == total:
		return db.RunStatusFailed
	default:
		return db.RunStatusPartial
	}
}

// ExportQuotes rebuilds quotes.json from the store. Every stored champion is
// written, including those without quotes.
func (u *Updater) ExportQuotes(ctx context.Context) error {
	if u.quotesPath == "" {
		return nil
	}

	champions, err := u.store.ListChampions(ctx)
	if err != nil {
		return fmt.Errorf("list champions: %w", err)
	}

	out := make(map[string]export.QuoteExport, len(champions))
	for _, c := range champions {
		texts, err := u.store.QuoteTexts(ctx, c.Name)
		if err != nil {
			return err
		}
		out[c.Name] = export.QuoteExport{Quotes: texts, Icon: c.Icon}
	}

	if err := export.WriteQuotes(u.quotesPath, out); err != nil {
		return fmt.Errorf("export quotes: %w", err)
	}

	slog.Debug("quotes exported", "path", u.quotesPath, "champions", len(out))
	return nil
}
