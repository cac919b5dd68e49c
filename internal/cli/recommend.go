package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"freight-quoter/internal/app"
)

var recommendLineage string

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Find the cheapest future shipping window for a lineage",
	RunE: func(cmd *cobra.Command, args []string) error {
		if recommendLineage == "" {
			return fmt.Errorf("--lineage must be provided")
		}

		opts := app.RecommendOptions{
			LineageKey: recommendLineage,
		}

		return getApp().Recommend(cmd.Context(), opts)
	},
}

func init() {
	recommendCmd.Flags().StringVar(&recommendLineage, "lineage", "", "Lineage key of the quotation to re-estimate")
}
