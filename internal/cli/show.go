package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"freight-quoter/internal/app"
)

var (
	showLimit   int
	showLineage string
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Display recent quotations, or one lineage's forwarder quotes",
	RunE: func(cmd *cobra.Command, args []string) error {
		if showLimit <= 0 {
			return fmt.Errorf("--limit must be greater than zero")
		}

		opts := app.ShowOptions{
			Limit:      showLimit,
			LineageKey: showLineage,
		}

		return getApp().Show(cmd.Context(), opts)
	},
}

func init() {
	showCmd.Flags().IntVar(&showLimit, "limit", 20, "Number of quotations to display")
	showCmd.Flags().StringVar(&showLineage, "lineage", "", "Show forwarder quotes for this lineage key")
}
