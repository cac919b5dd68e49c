package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"freight-quoter/internal/apperr"
	"freight-quoter/internal/config"
	"freight-quoter/internal/fetcher"
	"freight-quoter/internal/quote"
	"freight-quoter/internal/storage"
)

// Service orchestrates cargo fetching, the cost pipeline, and the
// quotation lineage.
type Service struct {
	cargos      storage.CargoStore
	schedules   storage.ScheduleStore
	predictions storage.PredictionStore
	quotations  storage.QuotationStore
	rates       fetcher.RateSource
	logger      zerolog.Logger

	windowMonths int
	lineageLock  bool
	locker       storage.AdvisoryLocker
	now          func() time.Time
}

// New constructs the quotation service.
func New(
	cfg *config.Config,
	cargos storage.CargoStore,
	schedules storage.ScheduleStore,
	predictions storage.PredictionStore,
	quotations storage.QuotationStore,
	rates fetcher.RateSource,
	logger zerolog.Logger,
) *Service {
	componentLogger := logger.With().Str("component", "service").Logger()

	var locker storage.AdvisoryLocker
	if l, ok := quotations.(storage.AdvisoryLocker); ok {
		locker = l
	}
	if cfg.Watch.LineageLock && locker == nil {
		componentLogger.Warn().Msg("lineage lock enabled but quotation store exposes no advisory locks; appends run unserialized")
	}

	return &Service{
		cargos:       cargos,
		schedules:    schedules,
		predictions:  predictions,
		quotations:   quotations,
		rates:        rates,
		logger:       componentLogger,
		windowMonths: cfg.Forecast.WindowMonths,
		lineageLock:  cfg.Watch.LineageLock,
		locker:       locker,
		now:          time.Now,
	}
}

// fetchCargos loads the records for distinct cargo ids concurrently and
// reassembles them in the input order. Normalization is order-sensitive for
// its output list, so ordering is restored before the pipeline runs.
func (s *Service) fetchCargos(ctx context.Context, ids []string) ([]storage.CargoRecord, error) {
	records := make([]storage.CargoRecord, len(ids))
	errs := make([]error, len(ids))

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			records[i], errs[i] = s.cargos.FindCargo(ctx, id)
		}(i, id)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return records, nil
}

func toPipelineCargos(records []storage.CargoRecord) []quote.Cargo {
	cargos := make([]quote.Cargo, 0, len(records))
	for _, record := range records {
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
	return cargos
}

func toChargeBreakdown(b quote.Breakdown) storage.ChargeBreakdown {
	return storage.ChargeBreakdown{
		THC:              b.Domestic.THC,
		CFSCharge:        b.Domestic.CFSCharge,
		Wharfage:         b.Domestic.Wharfage,
		DocumentFee:      b.Domestic.DocumentFee,
		HandlingFee:      b.Domestic.HandlingFee,
		CustomsClearance: b.Domestic.CustomsClearance,
		DomesticTrucking: b.Domestic.DomesticTrucking,
		AMSFee:           b.Domestic.AMSFee,
		FreightCost:      b.Oversea.FreightCost,
		CargoInsurance:   b.Oversea.CargoInsurance,
		InspectionFee:    b.Oversea.InspectionFee,
		OverseaTrucking:  b.Oversea.OverseaTrucking,
	}
}

// ComputeQuotationCost runs the full pipeline for a cargo set at the given
// rate and binds the result to the schedule reference. Pure apart from the
// collaborator reads; no row is persisted.
func (s *Service) ComputeQuotationCost(ctx context.Context, cargoIDs []string, rate int, scheduleID int64) (storage.Cost, error) {
	if len(cargoIDs) == 0 {
		return storage.Cost{}, apperr.InvalidInput("CARGO401", "at least one cargo id is required")
	}

	if _, err := s.schedules.FindSchedule(ctx, scheduleID); err != nil {
		return storage.Cost{}, err
	}

	records, err := s.fetchCargos(ctx, cargoIDs)
	if err != nil {
		return storage.Cost{}, err
	}

	breakdown, err := quote.ComputeCost(toPipelineCargos(records), rate)
	if err != nil {
		return storage.Cost{}, err
	}

	return storage.Cost{
		CargoIDs:  cargoIDs,
		TotalCost: breakdown.TotalCost,
		Breakdown: toChargeBreakdown(breakdown),
	}, nil
}

// EstimateCost computes a shipper-side estimate for a cargo set without
// persisting anything. A positive rateOverride skips the exchange source.
// Returns the full breakdown and the rate that was applied.
func (s *Service) EstimateCost(ctx context.Context, cargoIDs []string, rateOverride int) (quote.Breakdown, int, error) {
	if len(cargoIDs) == 0 {
		return quote.Breakdown{}, 0, apperr.InvalidInput("CARGO401", "at least one cargo id is required")
	}

	rate := rateOverride
	if rate <= 0 {
		fetched, err := s.rates.CurrentRate(ctx)
		if err != nil {
			return quote.Breakdown{}, 0, err
		}
		rate = fetched
	}

	records, err := s.fetchCargos(ctx, cargoIDs)
	if err != nil {
		return quote.Breakdown{}, 0, err
	}

	breakdown, err := quote.ComputeCost(toPipelineCargos(records), rate)
	if err != nil {
		return quote.Breakdown{}, 0, err
	}

	s.logger.Info().
		Int("cargos", len(cargoIDs)).
		Int("rate", rate).
		Str("total_cost", breakdown.TotalCost.String()).
		Msg("estimate computed")

	return breakdown, rate, nil
}

// CheapestDetailed returns the lowest-cost forwarder quote in a lineage.
func (s *Service) CheapestDetailed(ctx context.Context, lineageKey string) (storage.Quotation, error) {
	rows, err := s.quotations.ListQuotationsByLineageAndStatus(ctx, lineageKey, storage.StatusDetailInfo)
	if err != nil {
		return storage.Quotation{}, err
	}
	if len(rows) == 0 {
		return storage.Quotation{}, apperr.ErrQuotationNotFound
	}

	cheapest := rows[0]
	for _, row := range rows[1:] {
		if row.Cost.TotalCost.LessThan(cheapest.Cost.TotalCost) {
			cheapest = row
		}
	}
	return cheapest, nil
}
