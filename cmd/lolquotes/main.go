package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/abdulachik/lolquotes/internal/app"
	"github.com/abdulachik/lolquotes/internal/config"
	"github.com/abdulachik/lolquotes/internal/db"
	"github.com/abdulachik/lolquotes/internal/metrics"
)

var rootCmd = &cobra.Command{
	Use:   "lolquotes",
	Short: "Champion quotes from the League of Legends wiki",
	Long: `lolquotes fetches champion audio pages from the League of Legends wiki,
extracts the spoken quotes and serves them as JSON or through a webhook.`,
	SilenceUsage: true,
}

func init() {
	// Load .env file if present
	_ = godotenv.Load()

	// Set up logging
	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}

	var out io.Writer = os.Stderr
	if path := os.Getenv("LOG_FILE"); path != "" {
		out = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		})
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: level,
	})))
}

// loadConfig loads configuration and checks it with validate.
func loadConfig(validate func(*config.Config) error) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// openApp loads configuration and wires the application.
func openApp(ctx context.Context, validate func(*config.Config) error, recorder metrics.Recorder) (*app.App, error) {
	cfg, err := loadConfig(validate)
	if err != nil {
		return nil, err
	}

	slog.Debug("connecting to database", "path", cfg.DatabasePath)
	return app.New(ctx, cfg, recorder)
}

// openStore connects to the database and applies pending migrations.
func openStore(ctx context.Context, cfg *config.Config) (*db.Store, error) {
	store, err := db.NewStore(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
