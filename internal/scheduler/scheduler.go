// Package scheduler runs periodic quote refreshes and tracks component health.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/abdulachik/lolquotes/internal/db"
	"github.com/abdulachik/lolquotes/internal/notify"
	"github.com/abdulachik/lolquotes/internal/updater"
)

// ComponentRefresh is the health component of the refresh job.
const ComponentRefresh = "refresh"

// Refresher runs a full roster and quote refresh.
type Refresher interface {
	Refresh(ctx context.Context) (*updater.Report, error)
}

// Scheduler wraps a gocron scheduler running the refresh job.
type Scheduler struct {
	scheduler  gocron.Scheduler
	refresher  Refresher
	notifier   notify.Notifier
	health     *Health
	interval   time.Duration
	runOnStart bool
	onRefresh  func(*updater.Report)
}

// Config holds scheduler configuration.
type Config struct {
	Refresher  Refresher
	Notifier   notify.Notifier
	Health     *Health
	Interval   time.Duration
	RunOnStart bool

	// OnRefresh is called after every refresh that produced a report.
	OnRefresh func(*updater.Report)
}

// New creates a new scheduler.
func New(cfg Config) (*Scheduler, error) {
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("refresh interval must be positive, got %s", cfg.Interval)
	}

	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create gocron scheduler: %w", err)
	}

	notifier := cfg.Notifier
	if notifier == nil {
		notifier = notify.NewLogNotifier(nil)
	}

	health := cfg.Health
	if health == nil {
		health = NewHealth()
	}

	return &Scheduler{
		scheduler:  s,
		refresher:  cfg.Refresher,
		notifier:   notifier,
		health:     health,
		interval:   cfg.Interval,
		runOnStart: cfg.RunOnStart,
		onRefresh:  cfg.OnRefresh,
	}, nil
}

// Start schedules the refresh job and starts the scheduler. ctx is passed to
// every run. It returns the job id.
func (s *Scheduler) Start(ctx context.Context) (string, error) {
	opts := []gocron.JobOption{
		gocron.WithName("quote-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	}
	if s.runOnStart {
		opts = append(opts, gocron.WithStartAt(gocron.WithStartImmediately()))
	}

	job, err := s.scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() { s.RunOnce(ctx) }),
		opts...,
	)
	if err != nil {
		return "", fmt.Errorf("create refresh job: %w", err)
	}

	slog.Info("starting scheduler", "refresh_interval", s.interval, "run_on_start", s.runOnStart)
	s.scheduler.Start()

	return job.ID().String(), nil
}

// Stop shuts the scheduler down, waiting for a running refresh to finish.
func (s *Scheduler) Stop() error {
	slog.Info("stopping scheduler")
	return s.scheduler.Shutdown()
}

// RunOnce performs one refresh, updating health and sending a notification
// when the refresh did not fully succeed.
func (s *Scheduler) RunOnce(ctx context.Context) {
	slog.Debug("running refresh")

	report, err := s.refresher.Refresh(ctx)
	if err != nil {
		s.health.SetUnhealthy(ComponentRefresh, err)
		slog.Error("refresh failed", "error", err)
		s.notify(ctx, notify.Notification{
			Subject: "Quote refresh failed",
			Body:    err.Error(),
		})
		return
	}

	if s.onRefresh != nil {
		s.onRefresh(report)
	}

	switch report.Status {
	case db.RunStatusFailed:
		err := fmt.Errorf("all %d champions failed", report.Champions)
		s.health.SetUnhealthy(ComponentRefresh, err)
		s.notify(ctx, notify.Notification{
			Subject: "Quote refresh failed",
			Body:    failureSummary(report),
		})
	case db.RunStatusPartial:
		s.health.SetHealthy(ComponentRefresh, fmt.Sprintf("partial: %d of %d champions failed", len(report.Failures), report.Champions))
		s.notify(ctx, notify.Notification{
			Subject: "Quote refresh partially failed",
			Body:    failureSummary(report),
		})
	default:
		s.health.SetHealthy(ComponentRefresh, fmt.Sprintf("%d quotes from %d champions", report.Quotes, report.Champions))
	}
}

func (s *Scheduler) notify(ctx context.Context, n notify.Notification) {
	if err := s.notifier.Send(ctx, n); err != nil {
		slog.Warn("failed to send notification", "subject", n.Subject, "error", err)
	}
}

// failureSummary lists failed champions, one per line.
func failureSummary(report *updater.Report) string {
	lines := make([]string, 0, len(report.Failures)+1)
	lines = append(lines, fmt.Sprintf("run %s: %d of %d champions failed", report.RunID, len(report.Failures), report.Champions))
	for _, f := range report.Failures {
		lines = append(lines, fmt.Sprintf("%s: %v", f.Champion, f.Err))
	}
	return strings.Join(lines, "\n")
}

// Health returns the health tracker.
func (s *Scheduler) Health() *Health {
	return s.health
}
