package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"freight-quoter/internal/app"
)

var (
	forecastExportPort int64
	forecastImportPort int64
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Display the freight-cost-index forecast for a port pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		if forecastExportPort <= 0 || forecastImportPort <= 0 {
			return fmt.Errorf("--export-port and --import-port must be provided")
		}

		opts := app.ForecastOptions{
			ExportPortID: forecastExportPort,
			ImportPortID: forecastImportPort,
		}

		return getApp().Forecast(cmd.Context(), opts)
	},
}

func init() {
	forecastCmd.Flags().Int64Var(&forecastExportPort, "export-port", 0, "Origin port id")
	forecastCmd.Flags().Int64Var(&forecastImportPort, "import-port", 0, "Destination port id")
}
