package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdulachik/lolquotes/internal/config"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Rewrite quotes.json from the database",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := openApp(ctx, (*config.Config).ValidateForUpdate, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Updater.ExportQuotes(ctx); err != nil {
		return err
	}

	fmt.Printf("Exported quotes to %s\n", a.Config.QuotesPath)
	return nil
}
