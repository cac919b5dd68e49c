package fetcher

import "context"

// RateSource supplies the current currency conversion rate as an
// integer-scaled value.
type RateSource interface {
	CurrentRate(ctx context.Context) (int, error)
}

// Static is a fixed-rate source, used for CLI overrides and tests.
type Static struct {
	Rate int
}

func (s Static) CurrentRate(ctx context.Context) (int, error) {
	return s.Rate, nil
}

var _ RateSource = Static{}
