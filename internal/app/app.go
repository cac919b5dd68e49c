package app

import (
	"context"

	"github.com/rs/zerolog"

	"freight-quoter/internal/config"
	"freight-quoter/internal/fetcher"
	"freight-quoter/internal/service"
	"freight-quoter/internal/storage"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

func (a *App) newRateSource() fetcher.RateSource {
	exchange := fetcher.NewExchange(fetcher.ExchangeOptions{
		APIBase:  a.Config.Exchange.APIBase,
		APIKey:   a.Config.Exchange.APIKey,
		Currency: a.Config.Exchange.Currency,
		Timeout:  a.Config.Exchange.RequestTimeout,
	}, a.Logger)

	if a.Config.Exchange.FallbackEnabled {
		return fetcher.NewFallback(exchange, a.Config.Exchange.FallbackRate, a.Logger)
	}
	return exchange
}

func (a *App) openStore(ctx context.Context) (*storage.Store, func(), error) {
	if a.Config.Database.DSN == "" {
		return nil, nil, nil
	}

	pool, err := storage.NewPool(ctx, a.Config.Database)
	if err != nil {
		return nil, nil, err
	}

	store := storage.NewStore(pool)
	closer := func() {
		store.Close()
	}
	return store, closer, nil
}

func (a *App) newService(store *storage.Store) *service.Service {
	return service.New(a.Config, store, store, store, store, a.newRateSource(), a.Logger)
}

// QuoteOptions configure the quote command.
type QuoteOptions struct {
	CargoIDs     []string
	RateOverride int
}

// RecommendOptions configure the recommend command.
type RecommendOptions struct {
	LineageKey string
}

// ForecastOptions configure the forecast command.
type ForecastOptions struct {
	ExportPortID int64
	ImportPortID int64
}

// ShowOptions configure the show command.
type ShowOptions struct {
	Limit      int
	LineageKey string
}

// ExportOptions hold parameters for exporting the forecast window.
type ExportOptions struct {
	LineageKey string
	PNGPath    string
	CSVPath    string
	MaxPoints  int
}
