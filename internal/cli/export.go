package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"freight-quoter/internal/app"
)

var (
	exportLineage   string
	exportPNGPath   string
	exportCSVPath   string
	exportMaxPoints int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the forecast window as CSV and/or PNG chart",
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportLineage == "" {
			return fmt.Errorf("--lineage must be provided")
		}

		opts := app.ExportOptions{
			LineageKey: exportLineage,
			PNGPath:    exportPNGPath,
			CSVPath:    exportCSVPath,
			MaxPoints:  exportMaxPoints,
		}

		return getApp().Export(cmd.Context(), opts)
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportLineage, "lineage", "", "Lineage key whose cargo set is replayed per month")
	exportCmd.Flags().StringVar(&exportPNGPath, "png", "", "Path to write PNG chart")
	exportCmd.Flags().StringVar(&exportCSVPath, "csv", "", "Path to write CSV data")
	exportCmd.Flags().IntVar(&exportMaxPoints, "max-points", 0, "Maximum data points to export (defaults to config)")
}
