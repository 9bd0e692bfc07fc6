package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/abdulachik/lolquotes/internal/config"
	"github.com/abdulachik/lolquotes/internal/db"
	"github.com/abdulachik/lolquotes/internal/vectorstore"
)

var statsRun string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show database statistics",
	Long: `Display statistics about champions, quotes and refresh runs in the database.
The latest refresh run is shown unless --run names one.`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsRun, "run", "", "Show this refresh run instead of the latest")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig((*config.Config).Validate)
	if err != nil {
		return err
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	totalQuotes, err := store.CountQuotes(ctx)
	if err != nil {
		return fmt.Errorf("count quotes: %w", err)
	}

	byChampion, err := store.CountQuotesByChampion(ctx)
	if err != nil {
		return fmt.Errorf("count quotes by champion: %w", err)
	}

	var empty []string
	for _, row := range byChampion {
		if row.Count == 0 {
			empty = append(empty, row.Champion)
		}
	}

	fmt.Println("=== lolquotes Statistics ===")
	fmt.Println()
	fmt.Printf("Database: %s\n", cfg.DatabasePath)
	fmt.Println()
	fmt.Println("Quotes:")
	fmt.Printf("  Champions: %d\n", len(byChampion))
	fmt.Printf("  Total: %d\n", totalQuotes)
	fmt.Printf("  Champions without quotes: %d\n", len(empty))
	for _, name := range empty {
		fmt.Printf("    %s\n", name)
	}
	fmt.Println()

	if err := printRefreshRun(ctx, os.Stdout, store, statsRun); err != nil {
		return err
	}
	fmt.Println()

	// Check VecLite stats if configured
	if cfg.VecLitePath != "" {
		quoteStore, err := vectorstore.New(vectorstore.Config{
			Path: cfg.VecLitePath,
		})
		if err != nil {
			slog.Warn("failed to open VecLite", "error", err)
		} else {
			defer quoteStore.Close()
			stats := quoteStore.Stats()
			fmt.Println("VecLite:")
			fmt.Printf("  Path: %s\n", cfg.VecLitePath)
			fmt.Printf("  Documents: %d\n", stats.Count)
			fmt.Printf("  Dimension: %d\n", stats.Dimension)
			fmt.Printf("  Distance: %s\n", stats.DistanceType)
			fmt.Printf("  Index: %s\n", stats.IndexType)
			fmt.Println()
		}
	}

	return nil
}

// runReader reads refresh runs.
type runReader interface {
	GetRefreshRun(ctx context.Context, id string) (db.RefreshRun, error)
	LatestRefreshRun(ctx context.Context) (db.RefreshRun, error)
}

// printRefreshRun prints the run with id, or the latest run when id is empty.
func printRefreshRun(ctx context.Context, w io.Writer, runs runReader, id string) error {
	var (
		run db.RefreshRun
		err error
	)
	if id != "" {
		run, err = runs.GetRefreshRun(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("refresh run %s not found", id)
		}
	} else {
		run, err = runs.LatestRefreshRun(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			fmt.Fprintln(w, "Last refresh: never")
			return nil
		}
	}
	if err != nil {
		slog.Warn("failed to read refresh run", "run", id, "error", err)
		return nil
	}

	if id != "" {
		fmt.Fprintln(w, "Refresh:")
	} else {
		fmt.Fprintln(w, "Last refresh:")
	}
	fmt.Fprintf(w, "  Run: %s\n", run.ID)
	fmt.Fprintf(w, "  Status: %s\n", run.Status)
	fmt.Fprintf(w, "  Started: %s\n", run.StartedAt.Format("2006-01-02 15:04:05"))
	if run.FinishedAt.Valid {
		fmt.Fprintf(w, "  Finished: %s\n", run.FinishedAt.Time.Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintf(w, "  Champions failed: %d of %d\n", run.ChampionsFailed, run.ChampionsTotal)
	fmt.Fprintf(w, "  Quotes: %d\n", run.QuotesTotal)
	if run.ErrorMessage.Valid {
		fmt.Fprintf(w, "  Errors: %s\n", run.ErrorMessage.String)
	}
	return nil
}
