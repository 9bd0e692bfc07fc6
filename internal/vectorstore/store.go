// Package vectorstore provides a VecLite-based search index over champion quotes.
package vectorstore

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/abdul-hamid-achik/veclite"

	"github.com/abdulachik/lolquotes/internal/db"
)

const (
	// Collection name for quotes
	quotesCollection = "quotes"
)

// Config holds configuration for the QuoteStore.
type Config struct {
	// Path to the VecLite database file (e.g., "data/quotes.veclite").
	Path string

	// ConfigPath is the path to veclite.yaml config file (optional).
	// If empty, searches ./veclite.yaml, ~/.veclite/config.yaml.
	ConfigPath string

	// Rebuild discards any existing index at Path before opening.
	Rebuild bool
}

// QuoteStore wraps VecLite for quote vector storage and search.
type QuoteStore struct {
	vecdb    *veclite.DB
	coll     *veclite.Collection
	embedder veclite.Embedder
}

// SearchResult is a quote matched by the index.
type SearchResult struct {
	VecLiteID  uint64
	SQLiteID   int64
	Champion   string
	Text       string
	Similarity float32
}

// New opens the index, creating the quotes collection when missing.
func New(cfg Config) (*QuoteStore, error) {
	slog.Debug("creating QuoteStore", "path", cfg.Path, "config_path", cfg.ConfigPath)

	if cfg.Rebuild {
		if err := os.RemoveAll(cfg.Path); err != nil {
			return nil, fmt.Errorf("remove old index: %w", err)
		}
	}

	vecliteCfg, err := veclite.LoadConfig(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load veclite config: %w", err)
	}

	embedder, err := veclite.NewEmbedderFromConfig(vecliteCfg.Embedder)
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}

	slog.Info("loaded veclite config",
		"provider", vecliteCfg.Embedder.Provider,
		"dimension", embedder.Dimension(),
	)

	vecdb, err := veclite.Open(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open veclite db: %w", err)
	}

	coll, err := vecdb.CreateCollection(quotesCollection,
		veclite.WithDimension(embedder.Dimension()),
		veclite.WithDistanceType(veclite.DistanceCosine),
		veclite.WithHNSW(16, 200),
		veclite.WithTextIndex("text", "champion"),
		veclite.WithEmbedder(embedder),
	)
	if err != nil {
		// Collection might already exist
		coll, err = vecdb.GetCollection(quotesCollection)
		if err != nil {
			vecdb.Close()
			return nil, fmt.Errorf("get collection: %w", err)
		}
	}

	return &QuoteStore{
		vecdb:    vecdb,
		coll:     coll,
		embedder: embedder,
	}, nil
}

// Close closes the VecLite database.
func (s *QuoteStore) Close() error {
	if s.vecdb != nil {
		return s.vecdb.Close()
	}
	return nil
}

// InsertQuote embeds and adds a quote, returning its VecLite id.
func (s *QuoteStore) InsertQuote(ctx context.Context, q db.Quote) (uint64, error) {
	id, err := s.coll.InsertText(q.Text, quotePayload(q))
	if err != nil {
		return 0, fmt.Errorf("insert quote %d: %w", q.ID, err)
	}
	return id, nil
}

// Search finds quotes similar to the query text using vector search.
func (s *QuoteStore) Search(ctx context.Context, query string, k int) ([]SearchResult, error) {
	results, err := s.coll.SearchText(query, veclite.TopK(k))
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return convertResults(results), nil
}

// SearchWithThreshold finds quotes above a similarity threshold.
func (s *QuoteStore) SearchWithThreshold(ctx context.Context, query string, threshold float32, k int) ([]SearchResult, error) {
	results, err := s.coll.SearchText(query,
		veclite.TopK(k),
		veclite.Threshold(threshold),
	)
	if err != nil {
		return nil, fmt.Errorf("search with threshold: %w", err)
	}
	return convertResults(results), nil
}

// HybridSearch combines vector and BM25 text search.
func (s *QuoteStore) HybridSearch(ctx context.Context, query string, k int, vectorWeight, textWeight float64) ([]SearchResult, error) {
	queryVec, err := s.embedder.Embed(query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := s.coll.HybridSearch(queryVec, query,
		veclite.TopK(k),
		veclite.WithVectorWeight(vectorWeight),
		veclite.WithTextWeight(textWeight),
	)
	if err != nil {
		return nil, fmt.Errorf("hybrid search: %w", err)
	}
	return convertResults(results), nil
}

// TextSearch performs BM25 full-text search over quote text and champion.
func (s *QuoteStore) TextSearch(ctx context.Context, query string, k int) ([]SearchResult, error) {
	results, err := s.coll.TextSearch(query, veclite.TopK(k))
	if err != nil {
		return nil, fmt.Errorf("text search: %w", err)
	}
	return convertResults(results), nil
}

// SearchByChampion restricts vector search to one champion's quotes.
func (s *QuoteStore) SearchByChampion(ctx context.Context, query, champion string, k int) ([]SearchResult, error) {
	queryVec, err := s.embedder.Embed(query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := s.coll.Search(queryVec,
		veclite.TopK(k),
		veclite.WithFilter(veclite.Equal("champion", champion)),
	)
	if err != nil {
		return nil, fmt.Errorf("search by champion: %w", err)
	}
	return convertResults(results), nil
}

// Count returns the number of quotes in the index.
func (s *QuoteStore) Count() int {
	return s.coll.Count()
}

// Stats returns statistics about the index.
func (s *QuoteStore) Stats() veclite.CollectionStats {
	return s.coll.Stats()
}

// Sync persists any pending changes to disk.
func (s *QuoteStore) Sync() error {
	return s.vecdb.Sync()
}

func quotePayload(q db.Quote) map[string]any {
	return map[string]any{
		"sqlite_id": q.ID,
		"champion":  q.Champion,
		"text":      q.Text,
	}
}

func convertResults(results []veclite.Result) []SearchResult {
	out := make([]SearchResult, 0, len(results))
	for _, r := range results {
		out = append(out, fromPayload(r.Record.ID, r.Score, r.Record.Content, r.Record.Payload))
	}
	return out
}

// fromPayload builds a result from a stored record. Numbers may come back as
// any numeric type depending on how the payload was persisted.
func fromPayload(id uint64, score float32, content string, payload map[string]any) SearchResult {
	sr := SearchResult{
		VecLiteID:  id,
		Similarity: score,
	}

	switch v := payload["sqlite_id"].(type) {
	case int64:
		sr.SQLiteID = v
	case int:
		sr.SQLiteID = int64(v)
	case float64:
		sr.SQLiteID = int64(v)
	}
	if champion, ok := payload["champion"].(string); ok {
		sr.Champion = champion
	}
	if text, ok := payload["text"].(string); ok {
		sr.Text = text
	}

	if sr.Text == "" {
		sr.Text = content
	}
	return sr
}
