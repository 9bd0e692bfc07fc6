// Package export reads and writes the JSON artifacts consumed by the quote
// server: champions.json (the roster) and quotes.json (quotes per champion).
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdulachik/lolquotes/internal/ddragon"
)

// QuoteExport is one champion's entry in quotes.json.
type QuoteExport struct {
	Quotes []string `json:"quotes"`
	Icon   string   `json:"icon"`
}

// WriteChampions writes the roster to path.
func WriteChampions(path string, champions []ddragon.Champion) error {
	if champions == nil {
		champions = []ddragon.Champion{}
	}
	return writeJSON(path, champions)
}

// ReadChampions reads a roster written by WriteChampions.
func ReadChampions(path string) ([]ddragon.Champion, error) {
	var champions []ddragon.Champion
	if err := readJSON(path, &champions); err != nil {
		return nil, err
	}
	return champions, nil
}

// WriteQuotes writes quotes keyed by champion name to path.
func WriteQuotes(path string, quotes map[string]QuoteExport) error {
	out := make(map[string]QuoteExport, len(quotes))
	for name, q := range quotes {
		if q.Quotes == nil {
			q.Quotes = []string{}
		}
		out[name] = q
	}
	return writeJSON(path, out)
}

// ReadQuotes reads quotes written by WriteQuotes.
func ReadQuotes(path string) (map[string]QuoteExport, error) {
	var quotes map[string]QuoteExport
	if err := readJSON(path, &quotes); err != nil {
		return nil, err
	}
	if quotes == nil {
		quotes = map[string]QuoteExport{}
	}
	return quotes, nil
}

// writeJSON writes through a temp file so readers never see a partial file.
func writeJSON(path string, v any) error {
	// Champion names contain '&', so HTML escaping stays off.
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}

	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	return nil
}
