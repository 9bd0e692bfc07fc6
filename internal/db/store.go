package db

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
)

var (
	// ErrUnknownChampion is returned for champions not in the store.
	ErrUnknownChampion = errors.New("unknown champion")

	// ErrNoQuotes is returned when a stored champion has no quotes.
	ErrNoQuotes = errors.New("no quotes")
)

// HashText returns the hex sha256 of a quote, used to match quotes across runs.
func HashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// ReplaceResult counts what ReplaceQuotes changed.
type ReplaceResult struct {
	Unchanged int
	Updated   int
	Inserted  int
	Deleted   int
}

// Changed reports whether any row was written.
func (r ReplaceResult) Changed() bool {
	return r.Updated+r.Inserted+r.Deleted > 0
}

// ReplaceQuotes makes quotes the champion's stored quotes in one transaction.
// Positions follow slice order. A position whose text hash is unchanged is
// left alone, so its row id survives the refresh.
func (s *Store) ReplaceQuotes(ctx context.Context, champion string, quotes []string) (ReplaceResult, error) {
	var res ReplaceResult

	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := s.Queries.WithTx(tx)

	existing, err := qtx.ListQuoteHashes(ctx, champion)
	if err != nil {
		return res, fmt.Errorf("list quote hashes for %s: %w", champion, err)
	}

	byPosition := make(map[int64]ListQuoteHashesRow, len(existing))
	for _, row := range existing {
		byPosition[row.Position] = row
	}

	for i, text := range quotes {
		hash := HashText(text)
		old, ok := byPosition[int64(i)]

		switch {
		case ok && old.TextHash == hash:
			res.Unchanged++
		case ok:
			err := qtx.UpdateQuoteText(ctx, UpdateQuoteTextParams{Text: text, TextHash: hash, ID: old.ID})
			if err != nil {
				return res, fmt.Errorf("update quote %d for %s: %w", i, champion, err)
			}
			res.Updated++
		default:
			_, err := qtx.CreateQuote(ctx, CreateQuoteParams{
				Champion: champion,
				Position: int64(i),
				Text:     text,
				TextHash: hash,
			})
			if err != nil {
				return res, fmt.Errorf("create quote %d for %s: %w", i, champion, err)
			}
			res.Inserted++
		}
	}

	deleted, err := qtx.DeleteQuotesFromPosition(ctx, DeleteQuotesFromPositionParams{
		Champion: champion,
		Position: int64(len(quotes)),
	})
	if err != nil {
		return res, fmt.Errorf("delete stale quotes for %s: %w", champion, err)
	}
	res.Deleted = int(deleted)

	if !res.Changed() {
		return res, nil
	}

	if err := tx.Commit(); err != nil {
		return res, fmt.Errorf("commit quotes for %s: %w", champion, err)
	}
	return res, nil
}

// QuoteTexts returns a champion's quote texts in extraction order.
func (s *Store) QuoteTexts(ctx context.Context, champion string) ([]string, error) {
	quotes, err := s.ListQuotesByChampion(ctx, champion)
	if err != nil {
		return nil, fmt.Errorf("list quotes for %s: %w", champion, err)
	}

	texts := make([]string, len(quotes))
	for i, q := range quotes {
		texts[i] = q.Text
	}
	return texts, nil
}

// RandomChampionQuote picks a random stored quote for a champion, matching the
// name without regard to case.
func (s *Store) RandomChampionQuote(ctx context.Context, name string) (Champion, Quote, error) {
	champion, err := s.GetChampion(ctx, name)
	if errors.Is(err, sql.ErrNoRows) {
		return Champion{}, Quote{}, fmt.Errorf("%w: %s", ErrUnknownChampion, name)
	}
	if err != nil {
		return Champion{}, Quote{}, fmt.Errorf("get champion %s: %w", name, err)
	}

	quote, err := s.RandomQuote(ctx, champion.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return champion, Quote{}, fmt.Errorf("%w for %s", ErrNoQuotes, champion.Name)
	}
	if err != nil {
		return champion, Quote{}, fmt.Errorf("random quote for %s: %w", champion.Name, err)
	}
	return champion, quote, nil
}
