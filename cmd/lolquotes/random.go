package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/abdulachik/lolquotes/internal/catalog"
	"github.com/abdulachik/lolquotes/internal/config"
	"github.com/abdulachik/lolquotes/internal/db"
)

var randomFromDB bool

var randomCmd = &cobra.Command{
	Use:   "random [champion]",
	Short: "Print a random quote",
	Long: `Print a random quote for a champion from quotes.json, or from the
database with --from-db. A random champion is picked when none is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRandom,
}

func init() {
	randomCmd.Flags().BoolVar(&randomFromDB, "from-db", false, "Read quotes from the database instead of quotes.json")
	rootCmd.AddCommand(randomCmd)
}

func runRandom(cmd *cobra.Command, args []string) error {
	var name string
	if len(args) > 0 {
		name = args[0]
	}

	if randomFromDB {
		return runRandomFromDB(cmd, name)
	}

	cfg, err := loadConfig(validateQuotesPath)
	if err != nil {
		return err
	}

	c, err := catalog.Load(cfg.QuotesPath)
	if err != nil {
		return err
	}

	entry, quote, err := pickQuote(c, name, newRand())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", entry.Name, quote)
	return nil
}

func runRandomFromDB(cmd *cobra.Command, name string) error {
	ctx := context.Background()

	cfg, err := loadConfig((*config.Config).Validate)
	if err != nil {
		return err
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	champion, quote, err := pickStoredQuote(ctx, store, name, newRand())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", champion.Name, quote.Text)
	return nil
}

// pickStoredQuote is pickQuote over the database.
func pickStoredQuote(ctx context.Context, store *db.Store, name string, rng *rand.Rand) (db.Champion, db.Quote, error) {
	if name == "" {
		champions, err := store.ListChampions(ctx)
		if err != nil {
			return db.Champion{}, db.Quote{}, fmt.Errorf("list champions: %w", err)
		}
		if len(champions) == 0 {
			return db.Champion{}, db.Quote{}, errors.New("no champions in database, run update first")
		}
		name = champions[rng.IntN(len(champions))].Name
	}

	return store.RandomChampionQuote(ctx, name)
}

// pickQuote returns a random quote for name, or for a random champion when
// name is empty.
func pickQuote(c *catalog.Catalog, name string, rng *rand.Rand) (catalog.Entry, string, error) {
	if name == "" {
		if name = c.RandomChampion(rng); name == "" {
			return catalog.Entry{}, "", errors.New("no champions in quotes file")
		}
	}

	entry, err := c.Lookup(name)
	if err != nil {
		return catalog.Entry{}, "", fmt.Errorf("%w\nknown champions:\n%s", err, c.NameList())
	}

	quote, ok, err := c.Random(entry.Name, rng)
	if err != nil {
		return catalog.Entry{}, "", err
	}
	if !ok {
		return catalog.Entry{}, "", fmt.Errorf("no quotes for %s", entry.Name)
	}
	return entry, quote, nil
}

func validateQuotesPath(cfg *config.Config) error {
	if cfg.QuotesPath == "" {
		return errors.New("QUOTES_PATH is required")
	}
	return nil
}

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
