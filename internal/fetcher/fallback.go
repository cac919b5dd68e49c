package fetcher

import (
	"context"

	"github.com/rs/zerolog"
)

// Fallback wraps a RateSource with an explicit constant-rate policy: a
// source failure is logged and the configured rate substituted. Without
// this wrapper the failure propagates to the caller unchanged; the
// substitution is never silent.
type Fallback struct {
	inner  RateSource
	rate   int
	logger zerolog.Logger
}

// NewFallback builds the fallback wrapper.
func NewFallback(inner RateSource, rate int, logger zerolog.Logger) *Fallback {
	return &Fallback{
		inner:  inner,
		rate:   rate,
		logger: logger.With().Str("component", "exchange_fallback").Logger(),
	}
}

func (f *Fallback) CurrentRate(ctx context.Context) (int, error) {
	rate, err := f.inner.CurrentRate(ctx)
	if err == nil {
		return rate, nil
	}

	f.logger.Warn().Err(err).Int("fallback_rate", f.rate).Msg("exchange source failed; using configured fallback rate")
	return f.rate, nil
}

var _ RateSource = (*Fallback)(nil)
