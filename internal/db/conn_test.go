package db

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore(t *testing.T) {
	t.Run("creates directory and database", func(t *testing.T) {
		tmpDir := t.TempDir()
		dbPath := filepath.Join(tmpDir, "subdir", "test.db")

		ctx := context.Background()
		store, err := NewStore(ctx, dbPath)
		require.NoError(t, err)
		defer store.Close()

		_, err = os.Stat(dbPath)
		assert.NoError(t, err)

		var result int
		err = store.QueryRowContext(ctx, "SELECT 1").Scan(&result)
		assert.NoError(t, err)
		assert.Equal(t, 1, result)
	})

	t.Run("sets WAL mode", func(t *testing.T) {
		ctx := context.Background()
		store, err := NewStore(ctx, filepath.Join(t.TempDir(), "test.db"))
		require.NoError(t, err)
		defer store.Close()

		var mode string
		err = store.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&mode)
		assert.NoError(t, err)
		assert.Equal(t, "wal", mode)
	})

	t.Run("enables foreign keys", func(t *testing.T) {
		ctx := context.Background()
		store, err := NewStore(ctx, filepath.Join(t.TempDir(), "test.db"))
		require.NoError(t, err)
		defer store.Close()

		var fk int
		err = store.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk)
		assert.NoError(t, err)
		assert.Equal(t, 1, fk)
	})
}

func TestStore_Migrate(t *testing.T) {
	t.Run("applies migrations", func(t *testing.T) {
		store := newTestStore(t)
		ctx := context.Background()

		for _, table := range []string{"champions", "quotes", "refresh_runs", "users"} {
			var name string
			err := store.QueryRowContext(ctx,
				"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
			assert.NoError(t, err, table)
			assert.Equal(t, table, name)
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		store := newTestStore(t)
		ctx := context.Background()

		require.NoError(t, store.Migrate(ctx))

		count, err := store.CountQuotes(ctx)
		assert.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})
}

func TestExtractUpMigration(t *testing.T) {
	t.Run("extracts up portion", func(t *testing.T) {
		content := `-- +migrate Up
CREATE TABLE test (id INTEGER);

-- +migrate Down
DROP TABLE test;
`
		result := extractUpMigration(content)
		assert.Equal(t, "CREATE TABLE test (id INTEGER);", result)
	})

	t.Run("handles no down marker", func(t *testing.T) {
		content := "CREATE TABLE test (id INTEGER);"
		result := extractUpMigration(content)
		assert.Equal(t, "CREATE TABLE test (id INTEGER);", result)
	})
}

func TestChampions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertChampion(ctx, UpsertChampionParams{
		Name: "Nunu & Willump", RiotID: "Nunu", Icon: "nunu.png", Version: "14.1.1",
	}))
	require.NoError(t, store.UpsertChampion(ctx, UpsertChampionParams{
		Name: "Ahri", RiotID: "Ahri", Icon: "old.png", Version: "14.1.1",
	}))
	require.NoError(t, store.UpsertChampion(ctx, UpsertChampionParams{
		Name: "Ahri", RiotID: "Ahri", Icon: "new.png", Version: "14.2.1",
	}))

	champions, err := store.ListChampions(ctx)
	require.NoError(t, err)
	require.Len(t, champions, 2)
	assert.Equal(t, "Ahri", champions[0].Name)
	assert.Equal(t, "new.png", champions[0].Icon)
	assert.Equal(t, "14.2.1", champions[0].Version)

	nunu, err := store.GetChampion(ctx, "Nunu & Willump")
	require.NoError(t, err)
	assert.Equal(t, "Nunu", nunu.RiotID)

	ahri, err := store.GetChampion(ctx, "ahri")
	require.NoError(t, err)
	assert.Equal(t, "Ahri", ahri.Name)

	_, err = store.GetChampion(ctx, "Teemo")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestStore_ReplaceQuotes(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertChampion(ctx, UpsertChampionParams{Name: "Kindred", RiotID: "Kindred"}))
	require.NoError(t, store.UpsertChampion(ctx, UpsertChampionParams{Name: "Ahri", RiotID: "Ahri"}))

	t.Run("preserves order", func(t *testing.T) {
		want := []string{"Lamb: A.\nWolf: B.", "Wolf: C.", "Lamb: D."}
		res, err := store.ReplaceQuotes(ctx, "Kindred", want)
		require.NoError(t, err)
		assert.Equal(t, ReplaceResult{Inserted: 3}, res)

		got, err := store.QuoteTexts(ctx, "Kindred")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("unchanged quotes are not rewritten", func(t *testing.T) {
		before, err := store.ListQuotesByChampion(ctx, "Kindred")
		require.NoError(t, err)

		res, err := store.ReplaceQuotes(ctx, "Kindred", []string{"Lamb: A.\nWolf: B.", "Wolf: C.", "Lamb: D."})
		require.NoError(t, err)
		assert.Equal(t, ReplaceResult{Unchanged: 3}, res)
		assert.False(t, res.Changed())

		after, err := store.ListQuotesByChampion(ctx, "Kindred")
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("changed text keeps the row", func(t *testing.T) {
		before, err := store.ListQuotesByChampion(ctx, "Kindred")
		require.NoError(t, err)

		res, err := store.ReplaceQuotes(ctx, "Kindred", []string{"Lamb: A.\nWolf: B.", "Wolf: Changed.", "Lamb: D."})
		require.NoError(t, err)
		assert.Equal(t, ReplaceResult{Unchanged: 2, Updated: 1}, res)

		after, err := store.ListQuotesByChampion(ctx, "Kindred")
		require.NoError(t, err)
		require.Len(t, after, 3)
		assert.Equal(t, before[1].ID, after[1].ID)
		assert.Equal(t, "Wolf: Changed.", after[1].Text)
		assert.Equal(t, HashText("Wolf: Changed."), after[1].TextHash)
	})

	t.Run("replaces previous quotes", func(t *testing.T) {
		res, err := store.ReplaceQuotes(ctx, "Kindred", []string{"Only."})
		require.NoError(t, err)
		assert.Equal(t, ReplaceResult{Updated: 1, Deleted: 2}, res)

		got, err := store.QuoteTexts(ctx, "Kindred")
		require.NoError(t, err)
		assert.Equal(t, []string{"Only."}, got)
	})

	t.Run("duplicates within a champion are kept", func(t *testing.T) {
		_, err := store.ReplaceQuotes(ctx, "Ahri", []string{"Same.", "Same."})
		require.NoError(t, err)

		quotes, err := store.ListQuotesByChampion(ctx, "Ahri")
		require.NoError(t, err)
		require.Len(t, quotes, 2)
		assert.Equal(t, quotes[0].TextHash, quotes[1].TextHash)
		assert.Equal(t, HashText("Same."), quotes[0].TextHash)
	})

	t.Run("unknown champion rolls back", func(t *testing.T) {
		_, err := store.ReplaceQuotes(ctx, "Teemo", []string{"Captain Teemo on duty."})
		assert.Error(t, err)

		got, err := store.QuoteTexts(ctx, "Teemo")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("counts", func(t *testing.T) {
		total, err := store.CountQuotes(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)

		rows, err := store.CountQuotesByChampion(ctx)
		require.NoError(t, err)
		assert.Equal(t, []CountQuotesByChampionRow{
			{Champion: "Ahri", Count: 2},
			{Champion: "Kindred", Count: 1},
		}, rows)
	})

	t.Run("random quote", func(t *testing.T) {
		q, err := store.RandomQuote(ctx, "Kindred")
		require.NoError(t, err)
		assert.Equal(t, "Only.", q.Text)

		byID, err := store.GetQuote(ctx, q.ID)
		require.NoError(t, err)
		assert.Equal(t, q.Text, byID.Text)

		_, err = store.RandomQuote(ctx, "Teemo")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	t.Run("list with paging", func(t *testing.T) {
		quotes, err := store.ListQuotes(ctx, ListQuotesParams{Limit: 2, Offset: 1})
		require.NoError(t, err)
		require.Len(t, quotes, 2)
		assert.Equal(t, "Ahri", quotes[0].Champion)
		assert.Equal(t, int64(1), quotes[0].Position)
		assert.Equal(t, "Kindred", quotes[1].Champion)
	})
}

func TestStore_RandomChampionQuote(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertChampion(ctx, UpsertChampionParams{Name: "Ahri", RiotID: "Ahri", Icon: "ahri.png"}))
	require.NoError(t, store.UpsertChampion(ctx, UpsertChampionParams{Name: "Zac", RiotID: "Zac"}))
	_, err := store.ReplaceQuotes(ctx, "Ahri", []string{"Don't you trust me?"})
	require.NoError(t, err)

	t.Run("matches name ignoring case", func(t *testing.T) {
		champion, quote, err := store.RandomChampionQuote(ctx, "AHRI")
		require.NoError(t, err)
		assert.Equal(t, "Ahri", champion.Name)
		assert.Equal(t, "ahri.png", champion.Icon)
		assert.Equal(t, "Don't you trust me?", quote.Text)
	})

	t.Run("unknown champion", func(t *testing.T) {
		_, _, err := store.RandomChampionQuote(ctx, "Teemo")
		assert.ErrorIs(t, err, ErrUnknownChampion)
	})

	t.Run("champion without quotes", func(t *testing.T) {
		_, _, err := store.RandomChampionQuote(ctx, "zac")
		assert.ErrorIs(t, err, ErrNoQuotes)
		assert.EqualError(t, err, "no quotes for Zac")
	})
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.GetUser(ctx, 42)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	t.Run("create does not overwrite", func(t *testing.T) {
		require.NoError(t, store.CreateUser(ctx, CreateUserParams{ID: 42, Champion: "Ahri", Rate: 10}))
		require.NoError(t, store.CreateUser(ctx, CreateUserParams{ID: 42, Champion: "Zac", Rate: 50}))

		u, err := store.GetUser(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, "Ahri", u.Champion)
		assert.Equal(t, int64(10), u.Rate)
	})

	t.Run("set champion keeps rate", func(t *testing.T) {
		require.NoError(t, store.SetUserRate(ctx, SetUserRateParams{ID: 42, Champion: "ignored", Rate: 75}))
		require.NoError(t, store.SetUserChampion(ctx, SetUserChampionParams{ID: 42, Champion: "Kindred", Rate: 10}))

		u, err := store.GetUser(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, "Kindred", u.Champion)
		assert.Equal(t, int64(75), u.Rate)
	})

	t.Run("set rate creates missing user", func(t *testing.T) {
		require.NoError(t, store.SetUserRate(ctx, SetUserRateParams{ID: 7, Champion: "Zac", Rate: 0}))

		u, err := store.GetUser(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, "Zac", u.Champion)
		assert.Equal(t, int64(0), u.Rate)
	})

	t.Run("rate outside 0-100 is rejected", func(t *testing.T) {
		err := store.SetUserRate(ctx, SetUserRateParams{ID: 7, Champion: "Zac", Rate: 101})
		assert.Error(t, err)
	})
}

func TestRefreshRuns(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.LatestRefreshRun(ctx)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	require.NoError(t, store.CreateRefreshRun(ctx, CreateRefreshRunParams{ID: "run-1", ChampionsTotal: 3}))

	run, err := store.GetRefreshRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, RunStatusRunning, run.Status)
	assert.False(t, run.FinishedAt.Valid)

	require.NoError(t, store.FinishRefreshRun(ctx, FinishRefreshRunParams{
		ID:              "run-1",
		Status:          RunStatusPartial,
		ChampionsFailed: 1,
		QuotesTotal:     42,
		ErrorMessage:    sql.NullString{String: "Zac: timeout", Valid: true},
	}))

	latest, err := store.LatestRefreshRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, "run-1", latest.ID)
	assert.Equal(t, RunStatusPartial, latest.Status)
	assert.Equal(t, int64(3), latest.ChampionsTotal)
	assert.Equal(t, int64(1), latest.ChampionsFailed)
	assert.Equal(t, int64(42), latest.QuotesTotal)
	assert.Equal(t, "Zac: timeout", latest.ErrorMessage.String)
	assert.True(t, latest.FinishedAt.Valid)
}

func newTestStore(t *testing.T) *Store {
	t.Helper()

	ctx := context.Background()
	store, err := NewStore(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	require.NoError(t, store.Migrate(ctx))

	t.Cleanup(func() {
		store.Close()
	})

	return store
}
