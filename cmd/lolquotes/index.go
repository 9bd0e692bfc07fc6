package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/abdulachik/lolquotes/internal/config"
	"github.com/abdulachik/lolquotes/internal/vectorstore"
)

var (
	indexRebuild  bool
	indexPageSize int
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index stored quotes in VecLite",
	Long: `Embed every stored quote and add it to the VecLite index used by search.

A refresh keeps the ids of unchanged quotes but rewrites edited ones and
drops removed ones, so the index is rebuilt from scratch by default.

Uses the embedding provider configured in veclite.yaml:
  - openai: OpenAI API (requires OPENAI_API_KEY env var)
  - ollama: Local Ollama server`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&indexRebuild, "rebuild", true, "Discard the existing index first")
	indexCmd.Flags().IntVar(&indexPageSize, "page-size", 500, "Quotes read from the database per batch")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig((*config.Config).ValidateForVecLite)
	if err != nil {
		return err
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	total, err := store.CountQuotes(ctx)
	if err != nil {
		return fmt.Errorf("count quotes: %w", err)
	}

	quoteStore, err := vectorstore.New(vectorstore.Config{
		Path:    cfg.VecLitePath,
		Rebuild: indexRebuild,
	})
	if err != nil {
		return fmt.Errorf("create quote store: %w", err)
	}
	defer quoteStore.Close()

	slog.Info("indexing quotes", "total", total, "rebuild", indexRebuild)

	stats, err := vectorstore.IndexQuotes(ctx, store, quoteStore, indexPageSize)
	if err != nil {
		return fmt.Errorf("index quotes: %w", err)
	}

	slog.Info("indexing complete",
		"indexed", stats.Indexed,
		"failed", stats.Failed,
		"in_veclite", quoteStore.Count(),
		"duration", stats.Duration.Round(time.Millisecond),
	)
	return nil
}
