package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdulachik/lolquotes/internal/config"
)

var championsCmd = &cobra.Command{
	Use:   "champions",
	Short: "Update the champion roster",
	Long: `Fetch the latest champion roster from Data Dragon, store it and write
champions.json.`,
	Args: cobra.NoArgs,
	RunE: runChampions,
}

func init() {
	rootCmd.AddCommand(championsCmd)
}

func runChampions(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := openApp(ctx, (*config.Config).ValidateForUpdate, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	champions, err := a.Updater.UpdateRoster(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Updated %d champions (%s)\n", len(champions), a.Config.ChampionsPath)
	return nil
}
