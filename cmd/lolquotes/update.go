package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abdulachik/lolquotes/internal/config"
	"github.com/abdulachik/lolquotes/internal/db"
	"github.com/abdulachik/lolquotes/internal/ddragon"
	"github.com/abdulachik/lolquotes/internal/updater"
)

var updateChampion string

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Fetch and extract champion quotes",
	Long: `Refresh the roster, fetch every champion's audio page from the wiki,
extract the quotes, store them and write quotes.json.

Examples:
  lolquotes update                    # Refresh every champion
  lolquotes update --champion Kindred # Refresh one champion`,
	Args: cobra.NoArgs,
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().StringVar(&updateChampion, "champion", "", "Only refresh this champion")
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := openApp(ctx, (*config.Config).ValidateForUpdate, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	var report *updater.Report
	if updateChampion == "" {
		report, err = a.Updater.Refresh(ctx)
	} else {
		report, err = updateOne(ctx, a.Updater, updateChampion)
	}
	if err != nil {
		return err
	}

	printReport(report)

	if report.Status == db.RunStatusFailed {
		return fmt.Errorf("refresh failed for every champion")
	}
	return nil
}

// updateOne refreshes a single champion, loading the roster first when the
// store has none.
func updateOne(ctx context.Context, u *updater.Updater, name string) (*updater.Report, error) {
	champions, err := u.StoredChampions(ctx)
	if err != nil {
		return nil, err
	}
	if len(champions) == 0 {
		if champions, err = u.UpdateRoster(ctx); err != nil {
			return nil, err
		}
	}

	c, ok := findChampion(champions, name)
	if !ok {
		return nil, fmt.Errorf("unknown champion %q", name)
	}
	return u.UpdateQuotes(ctx, []ddragon.Champion{c})
}

func findChampion(champions []ddragon.Champion, name string) (ddragon.Champion, bool) {
	for _, c := range champions {
		if strings.EqualFold(c.Name, name) || strings.EqualFold(c.ID, name) {
			return c, true
		}
	}
	return ddragon.Champion{}, false
}

func printReport(r *updater.Report) {
	fmt.Printf("Run %s: %s\n", r.RunID, r.Status)
	fmt.Printf("  Champions: %d\n", r.Champions)
	fmt.Printf("  Quotes: %d\n", r.Quotes)
	fmt.Printf("  Duration: %s\n", r.Duration.Round(time.Millisecond))
	if r.Failed() {
		fmt.Printf("  Failed: %d\n", len(r.Failures))
		for _, f := range r.Failures {
			fmt.Printf("    %s: %v\n", f.Champion, f.Err)
		}
	}
}
