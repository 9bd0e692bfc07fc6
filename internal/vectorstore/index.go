package vectorstore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/abdulachik/lolquotes/internal/db"
)

const defaultPageSize = 500

// QuoteLister pages through stored quotes.
type QuoteLister interface {
	ListQuotes(ctx context.Context, arg db.ListQuotesParams) ([]db.Quote, error)
}

// Index is the write side of a quote index.
type Index interface {
	InsertQuote(ctx context.Context, q db.Quote) (uint64, error)
	Sync() error
}

// IndexStats summarizes an indexing pass.
type IndexStats struct {
	Indexed  int
	Failed   int
	Duration time.Duration
}

// IndexQuotes copies every stored quote into idx, syncing after each page.
// A quote that fails to insert is logged and counted.
func IndexQuotes(ctx context.Context, lister QuoteLister, idx Index, pageSize int) (IndexStats, error) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	start := time.Now()
	var stats IndexStats

	for offset := 0; ; offset += pageSize {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		quotes, err := lister.ListQuotes(ctx, db.ListQuotesParams{
			Limit:  int64(pageSize),
			Offset: int64(offset),
		})
		if err != nil {
			return stats, fmt.Errorf("list quotes: %w", err)
		}

		for _, q := range quotes {
			if _, err := idx.InsertQuote(ctx, q); err != nil {
				slog.Warn("failed to index quote", "id", q.ID, "champion", q.Champion, "error", err)
				stats.Failed++
				continue
			}
			stats.Indexed++
		}

		if len(quotes) > 0 {
			if err := idx.Sync(); err != nil {
				return stats, fmt.Errorf("sync: %w", err)
			}
			slog.Info("progress", "indexed", stats.Indexed, "failed", stats.Failed)
		}

		if len(quotes) < pageSize {
			break
		}
	}

	stats.Duration = time.Since(start)
	return stats, nil
}
