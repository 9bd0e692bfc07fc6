// Package catalog holds the read-only champion quote set served at runtime.
//
// A Catalog is built once at startup and never modified, so it can be shared
// by any number of goroutines without locking.
package catalog

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/abdulachik/lolquotes/internal/export"
)

// ErrUnknownChampion is returned for names not in the catalog.
var ErrUnknownChampion = errors.New("unknown champion")

// Entry is one champion's quotes and icon.
type Entry struct {
	Name   string
	Icon   string
	Quotes []string
}

// Catalog maps champion names to their quotes.
type Catalog struct {
	entries map[string]Entry
	names   []string
}

// New builds a catalog from exported quotes. The input is copied.
func New(quotes map[string]export.QuoteExport) *Catalog {
	c := &Catalog{
		entries: make(map[string]Entry, len(quotes)),
		names:   make([]string, 0, len(quotes)),
	}

	for name, q := range quotes {
		c.entries[name] = Entry{
			Name:   name,
			Icon:   q.Icon,
			Quotes: append([]string(nil), q.Quotes...),
		}
		c.names = append(c.names, name)
	}
	sort.Strings(c.names)

	return c
}

// Load reads quotes.json and builds a catalog from it.
func Load(path string) (*Catalog, error) {
	quotes, err := export.ReadQuotes(path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return New(quotes), nil
}

// Len returns the number of champions.
func (c *Catalog) Len() int {
	return len(c.names)
}

// Names returns champion names in sorted order.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.names...)
}

// NameList returns all champion names, one per line.
func (c *Catalog) NameList() string {
	if len(c.names) == 0 {
		return ""
	}
	return strings.Join(c.names, "\n") + "\n"
}

// Get returns a champion's entry.
func (c *Catalog) Get(name string) (Entry, error) {
	entry, ok := c.entries[name]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrUnknownChampion, name)
	}
	entry.Quotes = append([]string(nil), entry.Quotes...)
	return entry, nil
}

// Lookup finds a champion ignoring case.
func (c *Catalog) Lookup(name string) (Entry, error) {
	if _, ok := c.entries[name]; ok {
		return c.Get(name)
	}
	for _, n := range c.names {
		if strings.EqualFold(n, name) {
			return c.Get(n)
		}
	}
	return Entry{}, fmt.Errorf("%w: %s", ErrUnknownChampion, name)
}

// Random returns a random quote for name. ok is false when the champion has
// no quotes.
func (c *Catalog) Random(name string, r *rand.Rand) (quote string, ok bool, err error) {
	entry, found := c.entries[name]
	if !found {
		return "", false, fmt.Errorf("%w: %s", ErrUnknownChampion, name)
	}
	if len(entry.Quotes) == 0 {
		return "", false, nil
	}
	return entry.Quotes[r.IntN(len(entry.Quotes))], true, nil
}

// RandomChampion returns a random champion name, or "" for an empty catalog.
func (c *Catalog) RandomChampion(r *rand.Rand) string {
	if len(c.names) == 0 {
		return ""
	}
	return c.names[r.IntN(len(c.names))]
}
