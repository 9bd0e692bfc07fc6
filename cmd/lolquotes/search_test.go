package main

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdulachik/lolquotes/internal/db"
	"github.com/abdulachik/lolquotes/internal/vectorstore"
)

type fakeSearcher struct {
	called    string
	threshold float32
	k         int
}

func (f *fakeSearcher) result(mode string, k int) ([]vectorstore.SearchResult, error) {
	f.called, f.k = mode, k
	return []vectorstore.SearchResult{{SQLiteID: 1, Champion: "Ahri", Text: mode}}, nil
}

func (f *fakeSearcher) Search(ctx context.Context, query string, k int) ([]vectorstore.SearchResult, error) {
	return f.result("vector", k)
}

func (f *fakeSearcher) SearchWithThreshold(ctx context.Context, query string, threshold float32, k int) ([]vectorstore.SearchResult, error) {
	f.threshold = threshold
	return f.result("threshold", k)
}

func (f *fakeSearcher) SearchByChampion(ctx context.Context, query, champion string, k int) ([]vectorstore.SearchResult, error) {
	return f.result("champion:"+champion, k)
}

func (f *fakeSearcher) TextSearch(ctx context.Context, query string, k int) ([]vectorstore.SearchResult, error) {
	return f.result("text", k)
}

func (f *fakeSearcher) HybridSearch(ctx context.Context, query string, k int, vectorWeight, textWeight float64) ([]vectorstore.SearchResult, error) {
	return f.result("hybrid", k)
}

func TestSearchQuotes(t *testing.T) {
	tests := []struct {
		name string
		opts searchOptions
		want string
	}{
		{"default is vector search", searchOptions{Limit: 5}, "vector"},
		{"min score uses threshold", searchOptions{MinScore: 0.5, Limit: 5}, "threshold"},
		{"champion filter", searchOptions{Champion: "Kindred", Limit: 5}, "champion:Kindred"},
		{"text", searchOptions{Text: true, Limit: 5}, "text"},
		{"hybrid", searchOptions{Hybrid: true, Limit: 5}, "hybrid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeSearcher{}
			results, err := searchQuotes(context.Background(), f, "the hunt", tt.opts)
			require.NoError(t, err)
			require.Len(t, results, 1)
			assert.Equal(t, tt.want, f.called)
			assert.Equal(t, 5, f.k)
			assert.Equal(t, tt.opts.MinScore, f.threshold)
		})
	}
}

type fakeQuotes map[int64]db.Quote

func (f fakeQuotes) GetQuote(ctx context.Context, id int64) (db.Quote, error) {
	if id < 0 {
		return db.Quote{}, errors.New("database is locked")
	}
	q, ok := f[id]
	if !ok {
		return db.Quote{}, sql.ErrNoRows
	}
	return q, nil
}

func TestDropStale(t *testing.T) {
	quotes := fakeQuotes{
		1: {ID: 1, Champion: "Ahri", Text: "Don't you trust me?"},
		2: {ID: 2, Champion: "Ahri", Text: "Edited since indexing"},
	}

	t.Run("removes deleted and rewritten quotes", func(t *testing.T) {
		results := []vectorstore.SearchResult{
			{SQLiteID: 1, Champion: "Ahri", Text: "Don't you trust me?"},
			{SQLiteID: 2, Champion: "Ahri", Text: "Original text"},
			{SQLiteID: 3, Champion: "Ahri", Text: "Removed"},
		}

		kept, stale, err := dropStale(context.Background(), quotes, results)
		require.NoError(t, err)
		assert.Equal(t, 2, stale)
		require.Len(t, kept, 1)
		assert.Equal(t, int64(1), kept[0].SQLiteID)
	})

	t.Run("database errors are returned", func(t *testing.T) {
		_, _, err := dropStale(context.Background(), quotes, []vectorstore.SearchResult{{SQLiteID: -1}})
		assert.ErrorContains(t, err, "database is locked")
	})
}
