package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nimbus-labs/kbase-cli/internal/core/domain"
)

var (
	ingestCategory string
	ingestJSON     bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [files...]",
	Short: "Ingest documents into the knowledge base",
	Long: `Extracts text from each file, splits it into chunks, embeds them,
and records the document in the metadata store. Supported types: .pdf,
.docx, .txt. A file that fails does not stop the rest of the batch.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestCategory, "category", "c", "general",
		"document category (general, hr, policies, sops, technical)")
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestor == nil {
		return errors.New("ingest service not configured")
	}

	category := domain.ParseCategory(ingestCategory)
	ctx := cmd.Context()

	results := make([]domain.IngestResult, 0, len(args))
	for _, path := range args {
		results = append(results, ingestor.ProcessAndStore(ctx, path, category))
	}

	if ingestJSON {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
	} else {
		for _, result := range results {
			switch {
			case result.Skipped:
				cmd.Printf("  ~ %s\n", result.Message)
			case result.Success:
				cmd.Printf("  + %s\n", result.Message)
			default:
				cmd.Printf("  ! %s\n", result.Message)
			}
		}
	}

	for _, result := range results {
		if !result.Success {
			return fmt.Errorf("%d of %d files failed", countFailures(results), len(results))
		}
	}
	return nil
}

func countFailures(results []domain.IngestResult) int {
	n := 0
	for _, result := range results {
		if !result.Success {
			n++
		}
	}
	return n
}
