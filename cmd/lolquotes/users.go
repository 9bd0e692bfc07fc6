package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abdulachik/lolquotes/internal/catalog"
	"github.com/abdulachik/lolquotes/internal/config"
	"github.com/abdulachik/lolquotes/internal/users"
)

var userID int64

var iamCmd = &cobra.Command{
	Use:   "iam <champion>",
	Short: "Choose the champion a user speaks as",
	Long: `Set the champion whose quotes replace a user's messages. The name is
matched without regard to case.

Examples:
  lolquotes iam Ahri --user 42
  lolquotes iam "nunu & willump" --user 42`,
	Args: cobra.ExactArgs(1),
	RunE: runIam,
}

var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Aliases: []string{"whois"},
	Short:   "Show a user's champion and quote rate",
	Long: `Show a user's champion and quote rate. A user seen for the first time is
given a random champion and the default rate.`,
	Args: cobra.NoArgs,
	RunE: runWhoami,
}

var setrateCmd = &cobra.Command{
	Use:   "setrate <0-100>",
	Short: "Set how often a user's messages are quoted",
	Long: `Set the percentage of a user's messages that are relayed as a champion
quote. Messages that mention the bot are always relayed.`,
	Args: cobra.ExactArgs(1),
	RunE: runSetrate,
}

func init() {
	for _, cmd := range []*cobra.Command{iamCmd, whoamiCmd, setrateCmd} {
		cmd.Flags().Int64Var(&userID, "user", 0, "User id")
		_ = cmd.MarkFlagRequired("user")
		rootCmd.AddCommand(cmd)
	}
}

func runIam(cmd *cobra.Command, args []string) error {
	return withRegistry(func(ctx context.Context, reg *users.Registry, c *catalog.Catalog) error {
		return setChampion(ctx, cmd.OutOrStdout(), reg, c, userID, args[0])
	})
}

func runWhoami(cmd *cobra.Command, args []string) error {
	return withRegistry(func(ctx context.Context, reg *users.Registry, _ *catalog.Catalog) error {
		return showPreference(ctx, cmd.OutOrStdout(), reg, userID)
	})
}

func runSetrate(cmd *cobra.Command, args []string) error {
	rate, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%w, got %q", users.ErrInvalidRate, args[0])
	}

	return withRegistry(func(ctx context.Context, reg *users.Registry, _ *catalog.Catalog) error {
		return setRate(ctx, cmd.OutOrStdout(), reg, userID, rate)
	})
}

// withRegistry opens the store and catalog and runs fn with a user registry
// over them.
func withRegistry(fn func(ctx context.Context, reg *users.Registry, c *catalog.Catalog) error) error {
	ctx := context.Background()

	cfg, err := loadConfig((*config.Config).ValidateForUsers)
	if err != nil {
		return err
	}

	c, err := catalog.Load(cfg.QuotesPath)
	if err != nil {
		return err
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	return fn(ctx, users.New(users.Config{Store: store, Catalog: c}), c)
}

func setChampion(ctx context.Context, w io.Writer, reg *users.Registry, c *catalog.Catalog, id int64, name string) error {
	champion, err := reg.SetChampion(ctx, id, name)
	if err != nil {
		return fmt.Errorf("%w\nknown champions:\n%s", err, c.NameList())
	}

	fmt.Fprintf(w, "User %d is now %s\n", id, champion)
	return nil
}

func showPreference(ctx context.Context, w io.Writer, reg *users.Registry, id int64) error {
	pref, err := reg.ChampionAndRate(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "User %d is %s, quoting %d%% of messages\n", id, pref.Champion, pref.Rate)
	return nil
}

func setRate(ctx context.Context, w io.Writer, reg *users.Registry, id int64, rate int) error {
	if err := reg.SetRate(ctx, id, rate); err != nil {
		return err
	}

	fmt.Fprintf(w, "User %d now quotes %d%% of messages\n", id, rate)
	return nil
}
