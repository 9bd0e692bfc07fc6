package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abdulachik/lolquotes/internal/extractor"
)

var (
	parseName string
	parseJSON bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Extract quotes from a local audio page",
	Long: `Run the extraction pipeline over a saved audio page and print the quotes.
No network or database access is needed.

Examples:
  lolquotes parse kindred.txt --name Kindred
  lolquotes parse ahri.txt --name Ahri --json`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVar(&parseName, "name", "", "Champion name, selects the extraction strategy")
	parseCmd.Flags().BoolVar(&parseJSON, "json", false, "Print quotes as a JSON array")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read page: %w", err)
	}

	quotes := extractor.Parse(string(raw), parseName)

	if parseJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(quotes)
	}

	for i, q := range quotes {
		fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, q)
	}
	return nil
}
