package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/abdulachik/lolquotes/internal/catalog"
	"github.com/abdulachik/lolquotes/internal/config"
	"github.com/abdulachik/lolquotes/internal/poster"
	"github.com/abdulachik/lolquotes/internal/users"
)

var (
	postDryRun    bool
	postUser      int64
	postName      string
	postMentioned bool
)

var postCmd = &cobra.Command{
	Use:   "post [champion]",
	Short: "Post a random quote to the webhook",
	Long: `Post a random champion quote to the configured webhook, speaking as the
champion with its icon as avatar.

With --user, the quote relays a message from that user: it speaks as the
user's champion and is only posted when the user's rate roll passes or the
bot was mentioned.

Examples:
  lolquotes post Ahri            # Actually post
  lolquotes post Ahri --dry-run  # Show what would be posted without posting
  lolquotes post --user 42 --name Faker --mentioned`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPost,
}

func init() {
	postCmd.Flags().BoolVar(&postDryRun, "dry-run", false, "Show what would be posted without actually posting")
	postCmd.Flags().Int64Var(&postUser, "user", 0, "Relay a message from this user as their champion")
	postCmd.Flags().StringVar(&postName, "name", "", "Display name to post under with --user (default: the champion)")
	postCmd.Flags().BoolVar(&postMentioned, "mentioned", false, "The message mentions the bot, so it is always relayed")
	rootCmd.AddCommand(postCmd)
}

func runPost(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	validate := (*config.Config).ValidateForPosting
	if postDryRun {
		validate = validateQuotesPath
	}
	if cmd.Flags().Changed("user") {
		base := validate
		validate = func(cfg *config.Config) error {
			if err := base(cfg); err != nil {
				return err
			}
			return cfg.Validate()
		}
	}

	cfg, err := loadConfig(validate)
	if err != nil {
		return err
	}

	c, err := catalog.Load(cfg.QuotesPath)
	if err != nil {
		return err
	}

	var content poster.PostContent
	if cmd.Flags().Changed("user") {
		if len(args) > 0 {
			return errors.New("a champion cannot be given with --user")
		}

		store, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		reg := users.New(users.Config{Store: store, Catalog: c})
		d, err := reg.Decide(ctx, postUser, postMentioned)
		if err != nil {
			return err
		}
		if !d.Relay {
			fmt.Printf("Skipped: user %d rolled %d against rate %d\n", postUser, d.Roll, d.Rate)
			return nil
		}
		content = relayContent(d, postName)
	} else {
		var name string
		if len(args) > 0 {
			name = args[0]
		}

		entry, quote, err := pickQuote(c, name, newRand())
		if err != nil {
			return err
		}

		content = poster.PostContent{
			Text:      poster.FormatQuote(quote),
			Username:  entry.Name,
			AvatarURL: entry.Icon,
		}
	}

	if postDryRun {
		fmt.Printf("Would post as %s:\n%s\n", content.Username, content.Text)
		return nil
	}

	p := poster.NewWebhookPoster(poster.WebhookConfig{
		URL:     cfg.WebhookURL,
		Timeout: cfg.HTTPTimeout,
	})

	result, err := p.Post(ctx, content)
	if err != nil {
		return fmt.Errorf("post quote: %w", err)
	}

	slog.Info("quote posted", "as", content.Username, "id", result.PostID)
	return nil
}

// relayContent posts a relayed message under the user's display name with
// the champion icon as avatar.
func relayContent(d users.Decision, displayName string) poster.PostContent {
	if displayName == "" {
		displayName = d.Champion
	}
	return poster.PostContent{
		Text:      poster.FormatQuote(d.Quote),
		Username:  displayName,
		AvatarURL: d.Icon,
	}
}
