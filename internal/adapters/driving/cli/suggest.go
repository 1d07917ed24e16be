package cli

import (
	"github.com/spf13/cobra"

	"github.com/nimbus-labs/kbase-cli/internal/core/services"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest [category]",
	Short: "Show example questions",
	Long:  `Prints curated example questions, optionally scoped to a category (hr, policies, sops).`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		category := ""
		if len(args) > 0 {
			category = args[0]
		}
		for _, suggestion := range services.Suggestions(category) {
			cmd.Printf("  - %s\n", suggestion)
		}
	},
}

func init() {
	rootCmd.AddCommand(suggestCmd)
}
