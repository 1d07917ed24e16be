package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nimbus-labs/kbase-cli/internal/core/domain"
)

var (
	queryTopK      int
	queryCategory  string
	queryFollowups []string
	queryJSON      bool
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Ask a question over the ingested documents",
	Long: `Retrieves the most relevant chunks, generates an answer with the
configured model, and prints it with source citations.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of chunks to retrieve (default 5)")
	queryCmd.Flags().StringVarP(&queryCategory, "category", "c", "", "restrict answers to one category")
	queryCmd.Flags().StringArrayVar(&queryFollowups, "followup", nil, "follow-up question (repeatable)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output the response as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if queryEngine == nil {
		return errors.New("query service not configured")
	}

	question := args[0]
	opts := domain.QueryOptions{
		TopK:           queryTopK,
		CategoryFilter: queryCategory,
	}

	session := domain.NewSession(domain.ParseCategory(queryCategory))
	ctx := cmd.Context()

	var response domain.QueryResponse
	if len(queryFollowups) > 0 {
		response = queryEngine.QueryWithFollowups(ctx, session, question, queryFollowups, opts)
	} else {
		response = queryEngine.Query(ctx, session, question, opts)
	}

	if queryJSON {
		data, err := json.MarshalIndent(response, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal response: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printResponse(cmd, response)
	for _, followup := range response.FollowUps {
		cmd.Println()
		cmd.Printf("Follow-up: %s\n", followup.Question)
		cmd.Println(followup.Answer)
		printSources(cmd, followup.Sources)
	}

	if !response.Success && response.Error != "" {
		return fmt.Errorf("query failed: %s", response.Error)
	}
	return nil
}

func printResponse(cmd *cobra.Command, response domain.QueryResponse) {
	cmd.Println(response.Answer)
	printSources(cmd, response.Sources)
}

func printSources(cmd *cobra.Command, sources []domain.Citation) {
	if len(sources) == 0 {
		return
	}
	cmd.Println()
	cmd.Println("Sources:")
	for _, source := range sources {
		preview := strings.ReplaceAll(source.ContentPreview, "\n", " ")
		cmd.Printf("  [%d] %s (chunk %d, %s)\n", source.SourceNumber, source.Filename, source.ChunkIndex, source.Category)
		cmd.Printf("      %s\n", preview)
	}
}
