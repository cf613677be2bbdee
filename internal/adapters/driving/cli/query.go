package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tempora-labs/tempora-cli/internal/core/domain"
)

var (
	queryTopK int
	queryDate string
	queryYear string
	queryJSON bool
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Query indexed documents",
	Long: `Searches the index semantically. Temporal filters are extracted
from the query text automatically; queries asking for "latest" or
"most recent" information are additionally sorted by document date.
Explicit --date or --year flags override extracted filters.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 10, "maximum number of results")
	queryCmd.Flags().StringVar(&queryDate, "date", "", "filter by document date prefix, e.g. 2024-06")
	queryCmd.Flags().StringVar(&queryYear, "year", "", "filter by year, e.g. 2024")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output results as JSON")
	queryCmd.MarkFlagsMutuallyExclusive("date", "year")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if queryService == nil {
		if err := initServices(); err != nil {
			return err
		}
	}

	opts := domain.QueryOptions{
		TopK: queryTopK,
	}
	if queryDate != "" || queryYear != "" {
		opts.Filter = &domain.TemporalFilter{
			DocumentDate: queryDate,
			Year:         queryYear,
		}
	}

	resp, err := queryService.Query(context.Background(), args[0], opts)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		return outputQueryJSON(cmd, resp)
	}
	return outputQueryText(cmd, resp)
}

func outputQueryJSON(cmd *cobra.Command, resp *domain.QueryResponse) error {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputQueryText(cmd *cobra.Command, resp *domain.QueryResponse) error {
	if len(resp.Results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range resp.Results {
		result := &resp.Results[i]
		cmd.Printf("  [%d] %s\n", i+1, result.Citation.Formatted)
		cmd.Printf("      %s\n", snippet(result.Content, 160))
		cmd.Println()
	}

	if resp.FilterApplied && resp.Filter != nil {
		if resp.Filter.DocumentDate != "" {
			cmd.Printf("Filtered by date: %s\n", resp.Filter.DocumentDate)
		} else if resp.Filter.Year != "" {
			cmd.Printf("Filtered by year: %s\n", resp.Filter.Year)
		}
	}
	if resp.RecencySorted {
		cmd.Println("Sorted by recency.")
	}
	return nil
}

// snippet returns the first n characters of s on a single line.
func snippet(s string, n int) string {
	flat := make([]rune, 0, n)
	for _, r := range s {
		if r == '\n' || r == '\t' {
			r = ' '
		}
		flat = append(flat, r)
		if len(flat) == n {
			return string(flat) + "..."
		}
	}
	return string(flat)
}
