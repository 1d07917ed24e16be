// Package cli implements the kbase command line interface on cobra.
// Services are wired lazily in the root command's PersistentPreRunE so
// service-free commands (version, suggest) run without credentials.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/nimbus-labs/kbase-cli/internal/adapters/driven/ai"
	"github.com/nimbus-labs/kbase-cli/internal/chunker"
	"github.com/nimbus-labs/kbase-cli/internal/config"
	"github.com/nimbus-labs/kbase-cli/internal/core/ports/driving"
	"github.com/nimbus-labs/kbase-cli/internal/core/services"
	"github.com/nimbus-labs/kbase-cli/internal/extractors"
	"github.com/nimbus-labs/kbase-cli/internal/extractors/docx"
	"github.com/nimbus-labs/kbase-cli/internal/extractors/pdf"
	"github.com/nimbus-labs/kbase-cli/internal/extractors/plaintext"
	"github.com/nimbus-labs/kbase-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verbose   bool
	configDir string

	ingestor    driving.Ingestor
	queryEngine driving.QueryEngine
	aiResult    *ai.InitResult
)

// serviceFreeCommands run without wiring adapters.
var serviceFreeCommands = map[string]bool{
	"version":    true,
	"suggest":    true,
	"help":       true,
	"completion": true,
}

var rootCmd = &cobra.Command{
	Use:   "kbase",
	Short: "Question answering over your document knowledge base",
	Long: `kbase ingests company documents (PDF, DOCX, TXT) into a vector
index and answers questions about them with cited sources.`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		if serviceFreeCommands[cmd.Name()] {
			return nil
		}
		return bootstrap()
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if aiResult != nil {
			aiResult.Close()
			aiResult = nil
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.kbase)")
}

// bootstrap loads settings and wires the services. Idempotent so tests
// can pre-inject fakes.
func bootstrap() error {
	if ingestor != nil && queryEngine != nil {
		return nil
	}

	settings, err := config.Load(configDir)
	if err != nil {
		return err
	}

	result, err := ai.Init(settings)
	if err != nil {
		return err
	}
	aiResult = result

	registry := extractors.NewRegistry(plaintext.New(), docx.New(), pdf.New())
	ingestor = services.NewIngestService(registry, chunker.New(), result.VectorStore, result.MetadataStore)
	queryEngine = services.NewQueryService(result.LLMService, result.VectorStore, result.MetadataStore)
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
