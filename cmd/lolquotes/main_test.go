package main

import (
	"bytes"
	"context"
	"database/sql"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdulachik/lolquotes/internal/catalog"
	"github.com/abdulachik/lolquotes/internal/db"
	"github.com/abdulachik/lolquotes/internal/db/dbtest"
	"github.com/abdulachik/lolquotes/internal/ddragon"
	"github.com/abdulachik/lolquotes/internal/export"
)

func TestPickQuote(t *testing.T) {
	c := catalog.New(map[string]export.QuoteExport{
		"Ahri": {Quotes: []string{"Don't you trust me?"}, Icon: "ahri.png"},
		"Zac":  {Quotes: []string{}},
	})
	rng := rand.New(rand.NewPCG(1, 2))

	t.Run("named champion ignores case", func(t *testing.T) {
		entry, quote, err := pickQuote(c, "ahri", rng)
		require.NoError(t, err)
		assert.Equal(t, "Ahri", entry.Name)
		assert.Equal(t, "ahri.png", entry.Icon)
		assert.Equal(t, "Don't you trust me?", quote)
	})

	t.Run("unknown champion lists names", func(t *testing.T) {
		_, _, err := pickQuote(c, "Teemo", rng)
		require.ErrorIs(t, err, catalog.ErrUnknownChampion)
		assert.Contains(t, err.Error(), "Ahri\nZac")
	})

	t.Run("champion without quotes", func(t *testing.T) {
		_, _, err := pickQuote(c, "Zac", rng)
		assert.EqualError(t, err, "no quotes for Zac")
	})

	t.Run("empty catalog", func(t *testing.T) {
		_, _, err := pickQuote(catalog.New(nil), "", rng)
		assert.Error(t, err)
	})
}

func TestFindChampion(t *testing.T) {
	champions := []ddragon.Champion{
		{Name: "Kindred", ID: "Kindred"},
		{Name: "Nunu & Willump", ID: "Nunu"},
	}

	c, ok := findChampion(champions, "nunu")
	assert.True(t, ok)
	assert.Equal(t, "Nunu & Willump", c.Name)

	c, ok = findChampion(champions, "nunu & willump")
	assert.True(t, ok)
	assert.Equal(t, "Nunu", c.ID)

	_, ok = findChampion(champions, "Teemo")
	assert.False(t, ok)
}

func TestRunParse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kindred.txt")
	page := "* Lamb: ''\"Never one without the other.\"''\n** Wolf: ''\"Never.\"''\n"
	require.NoError(t, os.WriteFile(path, []byte(page), 0644))

	var out bytes.Buffer
	parseCmd.SetOut(&out)
	t.Cleanup(func() {
		parseCmd.SetOut(nil)
		parseName, parseJSON = "", false
	})

	parseName = "Kindred"
	require.NoError(t, runParse(parseCmd, []string{path}))
	assert.Equal(t, "1. Lamb: Never one without the other.\nWolf: Never.\n", out.String())

	out.Reset()
	parseJSON = true
	require.NoError(t, runParse(parseCmd, []string{path}))
	assert.JSONEq(t, `["Lamb: Never one without the other.\nWolf: Never."]`, out.String())
}

func TestRunParse_MissingFile(t *testing.T) {
	err := runParse(parseCmd, []string{filepath.Join(t.TempDir(), "missing.txt")})
	assert.ErrorContains(t, err, "read page")
}

func TestPickStoredQuote(t *testing.T) {
	ctx := context.Background()
	store := dbtest.NewTestStore(t)
	rng := rand.New(rand.NewPCG(1, 2))

	t.Run("empty database", func(t *testing.T) {
		_, _, err := pickStoredQuote(ctx, store, "", rng)
		assert.ErrorContains(t, err, "no champions in database")
	})

	require.NoError(t, store.UpsertChampion(ctx, db.UpsertChampionParams{Name: "Ahri", RiotID: "Ahri"}))
	_, err := store.ReplaceQuotes(ctx, "Ahri", []string{"Don't you trust me?"})
	require.NoError(t, err)

	t.Run("named champion ignores case", func(t *testing.T) {
		champion, quote, err := pickStoredQuote(ctx, store, "AHRI", rng)
		require.NoError(t, err)
		assert.Equal(t, "Ahri", champion.Name)
		assert.Equal(t, "Don't you trust me?", quote.Text)
	})

	t.Run("random champion", func(t *testing.T) {
		champion, _, err := pickStoredQuote(ctx, store, "", rng)
		require.NoError(t, err)
		assert.Equal(t, "Ahri", champion.Name)
	})

	t.Run("unknown champion", func(t *testing.T) {
		_, _, err := pickStoredQuote(ctx, store, "Teemo", rng)
		assert.ErrorIs(t, err, db.ErrUnknownChampion)
	})
}

func TestPrintRefreshRun(t *testing.T) {
	ctx := context.Background()
	store := dbtest.NewTestStore(t)
	var out bytes.Buffer

	t.Run("no runs yet", func(t *testing.T) {
		out.Reset()
		require.NoError(t, printRefreshRun(ctx, &out, store, ""))
		assert.Equal(t, "Last refresh: never\n", out.String())
	})

	require.NoError(t, store.CreateRefreshRun(ctx, db.CreateRefreshRunParams{ID: "run-1", ChampionsTotal: 3}))
	require.NoError(t, store.FinishRefreshRun(ctx, db.FinishRefreshRunParams{
		ID:              "run-1",
		Status:          db.RunStatusPartial,
		ChampionsFailed: 1,
		QuotesTotal:     12,
		ErrorMessage:    sql.NullString{String: "Zac: not found", Valid: true},
	}))

	t.Run("latest run", func(t *testing.T) {
		out.Reset()
		require.NoError(t, printRefreshRun(ctx, &out, store, ""))
		assert.Contains(t, out.String(), "Last refresh:")
		assert.Contains(t, out.String(), "Run: run-1")
	})

	t.Run("run by id", func(t *testing.T) {
		out.Reset()
		require.NoError(t, printRefreshRun(ctx, &out, store, "run-1"))
		assert.Contains(t, out.String(), "Status: partial")
		assert.Contains(t, out.String(), "Champions failed: 1 of 3")
		assert.Contains(t, out.String(), "Quotes: 12")
		assert.Contains(t, out.String(), "Errors: Zac: not found")
	})

	t.Run("unknown run", func(t *testing.T) {
		err := printRefreshRun(ctx, &out, store, "run-404")
		assert.EqualError(t, err, "refresh run run-404 not found")
	})
}
