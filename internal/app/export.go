package app

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"freight-quoter/internal/forecast"
	"freight-quoter/internal/quote"
	"freight-quoter/internal/storage"
)

type exportRow struct {
	month         forecast.YearMonth
	index         int
	estimatedCost float64
}

// Export renders the forecast window for one lineage as CSV and/or PNG:
// the freight index per month alongside the cost the pipeline would
// produce at that month's index.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	if opts.CSVPath == "" && opts.PNGPath == "" {
		return errors.New("at least one of --csv or --png must be provided")
	}

	opts.MaxPoints = a.Config.ResolveMaxPoints(opts.MaxPoints)

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot export")
	}
	if closeStore != nil {
		defer closeStore()
	}

	points, err := a.loadForecastWindow(ctx, store)
	if err != nil {
		return err
	}
	if len(points) > opts.MaxPoints {
		points = points[:opts.MaxPoints]
	}

	rows, err := a.replayWindow(ctx, store, opts.LineageKey, points)
	if err != nil {
		return err
	}

	a.Logger.Info().Int("months", len(rows)).Str("lineage_key", opts.LineageKey).Msg("exporting forecast window")

	if opts.CSVPath != "" {
		if err := writeForecastCSV(opts.CSVPath, rows); err != nil {
			return err
		}
	}

	if opts.PNGPath != "" {
		if err := writeForecastPNG(opts.PNGPath, rows); err != nil {
			return err
		}
	}

	return nil
}

// replayWindow re-runs the cost pipeline over the lineage's cargo set at
// each month's index value.
func (a *App) replayWindow(ctx context.Context, store *storage.Store, lineageKey string, points []forecast.Point) ([]exportRow, error) {
	source, err := latestDetailedRow(ctx, store, lineageKey)
	if err != nil {
		return nil, err
	}

	cargos := make([]quote.Cargo, 0, len(source.Cost.CargoIDs))
	for _, id := range source.Cost.CargoIDs {
		record, findErr := store.FindCargo(ctx, id)
		if findErr != nil {
			return nil, findErr
		}
		cargos = append(cargos, quote.Cargo{
			ID:          record.ID,
			Value:       record.Value,
			Quantity:    record.Quantity,
			UnitsPerBox: record.UnitsPerBox,
			BoxWidth:    record.BoxWidth,
			BoxHeight:   record.BoxHeight,
			BoxDepth:    record.BoxDepth,
			Weight:      record.Weight,
		})
	}

	rows := make([]exportRow, 0, len(points))
	for _, p := range points {
		breakdown, computeErr := quote.ComputeCost(cargos, p.Index)
		if computeErr != nil {
			return nil, computeErr
		}
		rows = append(rows, exportRow{
			month:         p.YearMonth,
			index:         p.Index,
			estimatedCost: breakdown.TotalCost.InexactFloat64(),
		})
	}
	return rows, nil
}

func latestDetailedRow(ctx context.Context, store *storage.Store, lineageKey string) (storage.Quotation, error) {
	rows, err := store.ListQuotationsByLineageAndStatus(ctx, lineageKey, storage.StatusDetailInfo)
	if err != nil {
		return storage.Quotation{}, err
	}
	if len(rows) == 0 {
		return storage.Quotation{}, fmt.Errorf("no forwarder quote for lineage %s", lineageKey)
	}
	return rows[0], nil
}

func writeForecastCSV(path string, rows []exportRow) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"year", "month", "freight_cost_index", "estimated_cost"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, row := range rows {
		record := []string{
			strconv.Itoa(row.month.Year),
			strconv.Itoa(row.month.Month),
			strconv.Itoa(row.index),
			strconv.FormatFloat(row.estimatedCost, 'f', 2, 64),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return writer.Error()
}

func writeForecastPNG(path string, rows []exportRow) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	x := make([]time.Time, len(rows))
	index := make([]float64, len(rows))
	cost := make([]float64, len(rows))

	for i, row := range rows {
		x[i] = time.Date(row.month.Year, time.Month(row.month.Month), 1, 0, 0, 0, 0, time.UTC)
		index[i] = float64(row.index)
		cost[i] = row.estimatedCost
	}

	graph := chart.Chart{
		Width:  1280,
		Height: 720,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatter,
		},
		YAxis: chart.YAxis{
			Name: "Freight cost index",
		},
		YAxisSecondary: chart.YAxis{
			Name: "Estimated cost",
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Index",
				XValues: x,
				YValues: index,
			},
			chart.TimeSeries{
				Name:    "Estimated cost",
				XValues: x,
				YValues: cost,
				YAxis:   chart.YAxisSecondary,
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
