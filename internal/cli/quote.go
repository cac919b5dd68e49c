package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"freight-quoter/internal/app"
)

var (
	quoteCargoIDs []string
	quoteRate     int
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Estimate shipment cost for a cargo set",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(quoteCargoIDs) == 0 {
			return fmt.Errorf("--cargo must be provided at least once")
		}
		if quoteRate < 0 {
			return fmt.Errorf("--rate must not be negative")
		}

		opts := app.QuoteOptions{
			CargoIDs:     quoteCargoIDs,
			RateOverride: quoteRate,
		}

		return getApp().Quote(cmd.Context(), opts)
	},
}

func init() {
	quoteCmd.Flags().StringSliceVar(&quoteCargoIDs, "cargo", nil, "Cargo id (repeatable)")
	quoteCmd.Flags().IntVar(&quoteRate, "rate", 0, "Exchange rate override (0 = fetch current rate)")
}
