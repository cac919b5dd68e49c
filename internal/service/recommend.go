package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"freight-quoter/internal/apperr"
	"freight-quoter/internal/forecast"
	"freight-quoter/internal/quote"
	"freight-quoter/internal/storage"
)

// Recommendation is the savings bundle returned for one lineage key.
// IndexDifference <= 0 means the current month is already the cheapest in
// the window; that is a "no savings available" answer, not an error.
type Recommendation struct {
	MonthsDifference   int
	IndexDifference    int
	TargetMonth        forecast.YearMonth
	EstimatedCost      decimal.Decimal
	Quotation          storage.Quotation
	CandidateSchedules []storage.Schedule
}

// Recommend scans the forecast window for the cheapest month, replays the
// cost pipeline at that month's freight index, appends a PREDICTION_SHEET
// row to the lineage, and returns the savings bundle.
func (s *Service) Recommend(ctx context.Context, lineageKey string) (Recommendation, error) {
	current := forecast.YearMonthOf(s.now().UTC())
	start, end := forecast.Window(current, s.windowMonths)

	points, err := s.predictions.ListPredictionsWithinPeriod(ctx, start.Year, start.Month, end.Year, end.Month)
	if err != nil {
		return Recommendation{}, err
	}
	if len(points) == 0 {
		return Recommendation{}, apperr.ErrPredictionNotFound
	}

	currentPoint, err := s.predictions.FindPrediction(ctx, current.Year, current.Month)
	if err != nil {
		return Recommendation{}, err
	}

	min, ok := forecast.MinIndex(toForecastPoints(points))
	if !ok {
		return Recommendation{}, apperr.ErrPredictionNotFound
	}

	monthsDifference := forecast.MonthsBetween(current, min.YearMonth)
	indexDifference := currentPoint.FreightCostIndex - min.Index

	source, err := s.latestDetailed(ctx, lineageKey)
	if err != nil {
		return Recommendation{}, err
	}

	if s.lineageLock && s.locker != nil {
		unlock, acquired, lockErr := s.locker.TryAdvisoryLock(ctx, storage.LineageLockKey(lineageKey))
		if lockErr != nil {
			return Recommendation{}, fmt.Errorf("acquire lineage lock: %w", lockErr)
		}
		if !acquired {
			return Recommendation{}, fmt.Errorf("recommendation already running for lineage %s", lineageKey)
		}
		defer unlock()
	}

	// Revalidate the freight reference before replaying the pipeline.
	if _, err := s.schedules.FindSchedule(ctx, source.ScheduleID); err != nil {
		return Recommendation{}, err
	}

	records, err := s.fetchCargos(ctx, source.Cost.CargoIDs)
	if err != nil {
		return Recommendation{}, err
	}

	// The cheapest month's index value stands in for the exchange rate when
	// re-estimating, mirroring the published estimation model.
	breakdown, err := quote.ComputeCost(toPipelineCargos(records), min.Index)
	if err != nil {
		return Recommendation{}, err
	}

	appended, err := s.appendPredictionSheet(ctx, source, breakdown)
	if err != nil {
		return Recommendation{}, err
	}

	schedules, err := s.schedules.ListSchedulesByYearMonth(ctx, min.Year, min.Month)
	if err != nil {
		return Recommendation{}, err
	}

	s.logger.Info().
		Str("lineage_key", lineageKey).
		Str("target_month", min.YearMonth.String()).
		Int("months_difference", monthsDifference).
		Int("index_difference", indexDifference).
		Str("estimated_cost", breakdown.TotalCost.String()).
		Msg("recommendation computed")

	return Recommendation{
		MonthsDifference:   monthsDifference,
		IndexDifference:    indexDifference,
		TargetMonth:        min.YearMonth,
		EstimatedCost:      breakdown.TotalCost,
		Quotation:          appended,
		CandidateSchedules: schedules,
	}, nil
}

func (s *Service) latestDetailed(ctx context.Context, lineageKey string) (storage.Quotation, error) {
	rows, err := s.quotations.ListQuotationsByLineageAndStatus(ctx, lineageKey, storage.StatusDetailInfo)
	if err != nil {
		return storage.Quotation{}, err
	}
	if len(rows) == 0 {
		return storage.Quotation{}, apperr.ErrQuotationNotFound
	}
	// Rows come back most recent first.
	return rows[0], nil
}

// appendPredictionSheet inserts the recomputed row under the same lineage
// key and consignor, carrying the same cargo-id set. The source row is
// never touched.
func (s *Service) appendPredictionSheet(ctx context.Context, source storage.Quotation, breakdown quote.Breakdown) (storage.Quotation, error) {
	if !source.Status.CanTransitionTo(storage.StatusPredictionSheet) {
		return storage.Quotation{}, apperr.InvalidInput("QUOTATION401",
			fmt.Sprintf("cannot derive a prediction sheet from status %s", source.Status))
	}

	row := storage.Quotation{
		ID:          uuid.NewString(),
		LineageKey:  source.LineageKey,
		ConsignorID: source.ConsignorID,
		Status:      storage.StatusPredictionSheet,
		ScheduleID:  source.ScheduleID,
		Cost: storage.Cost{
			CargoIDs:  source.Cost.CargoIDs,
			TotalCost: breakdown.TotalCost,
			Breakdown: toChargeBreakdown(breakdown),
		},
	}

	return s.quotations.InsertQuotation(ctx, row)
}

func toForecastPoints(points []storage.PredictionPoint) []forecast.Point {
	out := make([]forecast.Point, 0, len(points))
	for _, p := range points {
		out = append(out, forecast.Point{
			YearMonth: forecast.YearMonth{Year: p.Year, Month: p.Month},
			Index:     p.FreightCostIndex,
		})
	}
	return out
}

// Sweep re-runs the recommendation for every lineage that currently has a
// forwarder quote, logging savings opportunities. Used by the watch loop.
func (s *Service) Sweep(ctx context.Context, bucket time.Time) error {
	keys, err := s.quotations.ListDetailedLineageKeys(ctx)
	if err != nil {
		return err
	}

	failed := 0
	for _, key := range keys {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		rec, recErr := s.Recommend(ctx, key)
		if recErr != nil {
			failed++
			s.logger.Error().Err(recErr).Str("lineage_key", key).Msg("sweep recommendation failed")
			continue
		}

		if rec.IndexDifference > 0 {
			s.logger.Info().
				Str("lineage_key", key).
				Str("target_month", rec.TargetMonth.String()).
				Int("index_difference", rec.IndexDifference).
				Msg("savings opportunity found")
		}
	}

	s.logger.Info().Time("bucket", bucket).Int("lineages", len(keys)).Int("failed", failed).Msg("sweep complete")
	if failed > 0 {
		return fmt.Errorf("%d of %d lineages failed during sweep", failed, len(keys))
	}
	return nil
}
