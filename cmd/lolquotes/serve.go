package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/abdulachik/lolquotes/internal/catalog"
	"github.com/abdulachik/lolquotes/internal/config"
	"github.com/abdulachik/lolquotes/internal/metrics"
	"github.com/abdulachik/lolquotes/internal/poster"
	"github.com/abdulachik/lolquotes/internal/scheduler"
	"github.com/abdulachik/lolquotes/internal/server"
	"github.com/abdulachik/lolquotes/internal/updater"
)

const componentWebhook = "webhook"

var serveRefreshOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve quotes over HTTP and refresh them on a schedule",
	Long: `Serve random champion quotes over HTTP while refreshing the roster and
quotes every REFRESH_INTERVAL.

Endpoints:
  GET /quote?champion=<name>  Random quote (random champion when omitted)
  GET /champions              Champions with icon and quote count
  GET /healthz                Component health
  GET /metrics                Prometheus metrics`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveRefreshOnStart, "refresh-on-start", false, "Refresh immediately instead of waiting one interval")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := prom.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewPrometheusRecorder(reg)

	a, err := openApp(ctx, (*config.Config).ValidateForServe, recorder)
	if err != nil {
		return err
	}
	defer a.Close()

	cat, err := loadCatalog(a.Config.QuotesPath)
	if err != nil {
		return err
	}

	health := scheduler.NewHealth()
	checkWebhook(ctx, a.Poster, health)

	srv := server.New(server.Config{
		Addr:    a.Config.ListenAddr,
		Catalog: cat,
		Health:  health,
		Metrics: metrics.Handler(reg),
	})

	sched, err := scheduler.New(scheduler.Config{
		Refresher:  a.Updater,
		Notifier:   a.Notifier,
		Health:     health,
		Interval:   a.Config.RefreshInterval,
		RunOnStart: serveRefreshOnStart || cat.Len() == 0,
		OnRefresh: func(*updater.Report) {
			next, err := catalog.Load(a.Config.QuotesPath)
			if err != nil {
				slog.Error("failed to reload catalog", "error", err)
				return
			}
			srv.SetCatalog(next)
		},
	})
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}

	jobID, err := sched.Start(ctx)
	if err != nil {
		return err
	}
	slog.Info("refresh job scheduled", "job_id", jobID)

	// Run server in background
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	// Wait for shutdown signal or error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	var serveErr error
	select {
	case sig := <-sigCh:
		slog.Info("received shutdown signal", "signal", sig)
	case serveErr = <-errCh:
	}

	slog.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("http shutdown", "error", err)
	}

	if err := sched.Stop(); err != nil {
		slog.Warn("scheduler shutdown", "error", err)
	}

	return serveErr
}

// loadCatalog reads quotes.json, starting empty when no refresh has written it yet.
func loadCatalog(path string) (*catalog.Catalog, error) {
	c, err := catalog.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Warn("quotes file not found, starting with an empty catalog", "path", path)
		return catalog.New(nil), nil
	}
	if err != nil {
		return nil, err
	}
	slog.Info("catalog loaded", "path", path, "champions", c.Len())
	return c, nil
}

// checkWebhook records whether the notification webhook is reachable.
func checkWebhook(ctx context.Context, p poster.Poster, health *scheduler.Health) {
	if p == nil {
		return
	}
	if err := p.ValidateCredentials(ctx); err != nil {
		slog.Warn("webhook check failed", "error", err)
		health.SetUnhealthy(componentWebhook, err)
		return
	}
	health.SetHealthy(componentWebhook, "reachable")
}
