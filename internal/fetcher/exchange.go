package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"freight-quoter/internal/apperr"
)

// ExchangeOptions parameterise the exchange-rate API client.
type ExchangeOptions struct {
	APIBase  string
	APIKey   string
	Currency string
	Timeout  time.Duration
}

// Exchange fetches the daily published exchange rate from the Korea
// Eximbank open API.
type Exchange struct {
	opts   ExchangeOptions
	logger zerolog.Logger
	client *http.Client
}

// NewExchange constructs an exchange-rate fetcher.
func NewExchange(opts ExchangeOptions, logger zerolog.Logger) *Exchange {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Exchange{
		opts:   opts,
		logger: logger.With().Str("component", "exchange_fetcher").Logger(),
		client: &http.Client{Timeout: timeout},
	}
}

// CurrentRate retrieves the published rate for the configured currency,
// rounded to the integer scale the pipeline consumes.
func (e *Exchange) CurrentRate(ctx context.Context) (int, error) {
	if e.opts.APIBase == "" {
		return 0, apperr.External("ETC401", "exchange api base not configured", nil)
	}
	if e.opts.Currency == "" {
		return 0, apperr.External("ETC401", "exchange currency not configured", nil)
	}

	query := url.Values{}
	query.Set("authkey", e.opts.APIKey)
	query.Set("data", "AP01")
	endpoint := e.opts.APIBase + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, apperr.External("ETC401", "build exchange request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return 0, apperr.External("ETC401", "call exchange api", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, apperr.External("ETC401", "read exchange response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return 0, apperr.External("ETC401",
			fmt.Sprintf("exchange api status %d: %s", resp.StatusCode, strings.TrimSpace(string(payload))), nil)
	}

	var rows []exchangeRow
	if err := json.Unmarshal(payload, &rows); err != nil {
		return 0, apperr.External("ETC401", "decode exchange response", err)
	}

	for _, row := range rows {
		if row.CurUnit != e.opts.Currency {
			continue
		}
		rate, parseErr := parseRate(row.KftcBkpr)
		if parseErr != nil {
			return 0, apperr.External("ETC401", fmt.Sprintf("parse %s rate", e.opts.Currency), parseErr)
		}
		e.logger.Debug().Str("currency", e.opts.Currency).Int("rate", rate).Msg("exchange rate fetched")
		return rate, nil
	}

	return 0, apperr.External("ETC401",
		fmt.Sprintf("currency %s not present in exchange response", e.opts.Currency), nil)
}

type exchangeRow struct {
	CurUnit  string `json:"cur_unit"`
	CurName  string `json:"cur_nm"`
	KftcBkpr string `json:"kftc_bkpr"`
	Result   int    `json:"result"`
}

// parseRate handles the API's thousands-separated decimal strings,
// e.g. "1,313.40".
func parseRate(raw string) (int, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if cleaned == "" {
		return 0, fmt.Errorf("empty rate value")
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, err
	}
	if d.Sign() <= 0 {
		return 0, fmt.Errorf("non-positive rate %s", raw)
	}
	return int(d.Round(0).IntPart()), nil
}

var _ RateSource = (*Exchange)(nil)
