package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abdulachik/lolquotes/internal/config"
	"github.com/abdulachik/lolquotes/internal/db"
	"github.com/abdulachik/lolquotes/internal/vectorstore"
)

var (
	searchChampion string
	searchText     bool
	searchHybrid   bool
	searchLimit    int
	searchMinScore float32
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search indexed quotes",
	Long: `Search the VecLite index built by "lolquotes index".

Examples:
  lolquotes search "the hunt"                    # Semantic search
  lolquotes search "the hunt" --champion Kindred # Only Kindred's quotes
  lolquotes search wolf --text                   # BM25 keyword search
  lolquotes search wolf --hybrid                 # Semantic and keyword combined
  lolquotes search "the hunt" --min-score 0.5    # Only close semantic matches

Results whose quote changed or was removed since the last index are left out.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchChampion, "champion", "", "Restrict results to one champion")
	searchCmd.Flags().BoolVar(&searchText, "text", false, "Use BM25 text search instead of embeddings")
	searchCmd.Flags().BoolVar(&searchHybrid, "hybrid", false, "Combine vector and text search")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "k", 5, "Number of results")
	searchCmd.Flags().Float32Var(&searchMinScore, "min-score", 0, "Minimum similarity for semantic search")
	searchCmd.MarkFlagsMutuallyExclusive("champion", "text", "hybrid", "min-score")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	query := strings.Join(args, " ")

	cfg, err := loadConfig((*config.Config).ValidateForVecLite)
	if err != nil {
		return err
	}

	quoteStore, err := vectorstore.New(vectorstore.Config{
		Path: cfg.VecLitePath,
	})
	if err != nil {
		return fmt.Errorf("open quote store: %w", err)
	}
	defer quoteStore.Close()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := searchQuotes(ctx, quoteStore, query, searchOptions{
		Champion: searchChampion,
		Text:     searchText,
		Hybrid:   searchHybrid,
		MinScore: searchMinScore,
		Limit:    searchLimit,
	})
	if err != nil {
		return err
	}

	results, stale, err := dropStale(ctx, store, results)
	if err != nil {
		return err
	}
	if stale > 0 {
		slog.Warn("index is out of date, run lolquotes index", "stale", stale)
	}

	if len(results) == 0 {
		fmt.Println("No matching quotes.")
		return nil
	}

	for i, r := range results {
		fmt.Printf("%d. [%.3f] %s: %s\n", i+1, r.Similarity, r.Champion, r.Text)
	}
	return nil
}

type quoteSearcher interface {
	Search(ctx context.Context, query string, k int) ([]vectorstore.SearchResult, error)
	SearchWithThreshold(ctx context.Context, query string, threshold float32, k int) ([]vectorstore.SearchResult, error)
	SearchByChampion(ctx context.Context, query, champion string, k int) ([]vectorstore.SearchResult, error)
	TextSearch(ctx context.Context, query string, k int) ([]vectorstore.SearchResult, error)
	HybridSearch(ctx context.Context, query string, k int, vectorWeight, textWeight float64) ([]vectorstore.SearchResult, error)
}

type searchOptions struct {
	Champion string
	Text     bool
	Hybrid   bool
	MinScore float32
	Limit    int
}

// searchQuotes runs the search mode selected by opts.
func searchQuotes(ctx context.Context, s quoteSearcher, query string, opts searchOptions) ([]vectorstore.SearchResult, error) {
	switch {
	case opts.Champion != "":
		return s.SearchByChampion(ctx, query, opts.Champion, opts.Limit)
	case opts.Text:
		return s.TextSearch(ctx, query, opts.Limit)
	case opts.Hybrid:
		return s.HybridSearch(ctx, query, opts.Limit, 0.7, 0.3)
	case opts.MinScore > 0:
		return s.SearchWithThreshold(ctx, query, opts.MinScore, opts.Limit)
	default:
		return s.Search(ctx, query, opts.Limit)
	}
}

type quoteGetter interface {
	GetQuote(ctx context.Context, id int64) (db.Quote, error)
}

// dropStale removes results whose quote was deleted or rewritten after it was
// indexed, and reports how many were removed.
func dropStale(ctx context.Context, quotes quoteGetter, results []vectorstore.SearchResult) ([]vectorstore.SearchResult, int, error) {
	kept := results[:0]
	for _, r := range results {
		q, err := quotes.GetQuote(ctx, r.SQLiteID)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, 0, fmt.Errorf("get quote %d: %w", r.SQLiteID, err)
		}
		if q.Text != r.Text {
			continue
		}
		kept = append(kept, r)
	}
	return kept, len(results) - len(kept), nil
}
