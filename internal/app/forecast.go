package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"freight-quoter/internal/apperr"
	"freight-quoter/internal/forecast"
	"freight-quoter/internal/storage"
)

// Forecast prints the freight-cost-index window for a port pair, with the
// month-over-month trend.
func (a *App) Forecast(ctx context.Context, opts ForecastOptions) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot show forecast")
	}
	if closeStore != nil {
		defer closeStore()
	}

	exportPort, err := store.FindPort(ctx, opts.ExportPortID)
	if err != nil {
		return err
	}
	importPort, err := store.FindPort(ctx, opts.ImportPortID)
	if err != nil {
		return err
	}

	points, err := a.loadForecastWindow(ctx, store)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "%s -> %s\n\n", exportPort.Name, importPort.Name)

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Month\tIndex")
	for _, p := range points {
		fmt.Fprintf(writer, "%s\t%d\n", p.YearMonth, p.Index)
	}
	fmt.Fprintln(writer, "")

	for _, trend := range forecast.Trends(points) {
		fmt.Fprintf(writer, "%s -> %s\t%s (%d -> %d)\n",
			trend.From.YearMonth, trend.To.YearMonth, trend.Direction, trend.From.Index, trend.To.Index)
	}

	return writer.Flush()
}

func (a *App) loadForecastWindow(ctx context.Context, store *storage.Store) ([]forecast.Point, error) {
	current := forecast.YearMonthOf(time.Now().UTC())
	start, end := forecast.Window(current, a.Config.Forecast.WindowMonths)

	raw, err := store.ListPredictionsWithinPeriod(ctx, start.Year, start.Month, end.Year, end.Month)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, apperr.ErrPredictionNotFound
	}

	points := make([]forecast.Point, 0, len(raw))
	for _, p := range raw {
		points = append(points, forecast.Point{
			YearMonth: forecast.YearMonth{Year: p.Year, Month: p.Month},
			Index:     p.FreightCostIndex,
		})
	}
	return points, nil
}
