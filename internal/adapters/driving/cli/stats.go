package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show knowledge base statistics",
	Long:  `Prints document counts by category and file type, and the query log summary.`,
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output statistics as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if ingestor == nil || queryEngine == nil {
		return errors.New("services not configured")
	}

	ctx := cmd.Context()
	docStats, err := ingestor.DocumentStats(ctx)
	if err != nil {
		return fmt.Errorf("document stats: %w", err)
	}
	queryStats, err := queryEngine.QueryStats(ctx)
	if err != nil {
		return fmt.Errorf("query stats: %w", err)
	}

	if statsJSON {
		data, err := json.MarshalIndent(map[string]any{
			"documents": docStats,
			"queries":   queryStats,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal stats: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Documents: %d (%d chunks)\n", docStats.TotalDocuments, docStats.TotalChunks)
	printCounts(cmd, "By category", docStats.Categories)
	printCounts(cmd, "By file type", docStats.FileTypes)

	cmd.Printf("\nQueries: %d\n", queryStats.TotalQueries)
	printCounts(cmd, "Categories searched", queryStats.CategoriesSearched)
	if len(queryStats.PopularQueries) > 0 {
		cmd.Println("Popular questions:")
		for _, popular := range queryStats.PopularQueries {
			cmd.Printf("  %3dx %s\n", popular.Count, popular.Question)
		}
	}
	return nil
}

func printCounts(cmd *cobra.Command, title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	cmd.Printf("%s:\n", title)
	for _, key := range keys {
		cmd.Printf("  %-12s %d\n", key, counts[key])
	}
}
