package marketdata

import (
	"context"
	"errors"
	"time"

	"github.com/iwvelando/savings-forecast/internal/store"
	"github.com/iwvelando/savings-forecast/pkg/series"
	"go.uber.org/zap"
)

// Cache is the subset of the sqlite store used to memoize provider calls.
type Cache interface {
	SavePrices(symbol, period string, history series.PriceSeries) error
	LoadPrices(symbol, period string, ttl time.Duration) (series.PriceSeries, error)
	SaveDividendYield(symbol string, yield *float64) error
	LoadDividendYield(symbol string, ttl time.Duration) (*float64, error)
}

// CachedProvider serves fresh cache entries and falls back to the wrapped
// provider, storing what it fetches.
type CachedProvider struct {
	next   Provider
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedProvider wraps next with cache.
func NewCachedProvider(next Provider, cache Cache, ttl time.Duration, logger *zap.Logger) *CachedProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedProvider{next: next, cache: cache, ttl: ttl, logger: logger}
}

// History implements Provider.
func (p *CachedProvider) History(ctx context.Context, symbol string, period Period) (series.PriceSeries, error) {
	cached, err := p.cache.LoadPrices(symbol, string(period), p.ttl)
	if err == nil {
		p.logger.Debug("price history cache hit",
			zap.String("op", "marketdata.CachedProvider.History"),
			zap.String("symbol", symbol),
			zap.String("period", string(period)),
		)
		return cached, nil
	}
	if !errors.Is(err, store.ErrNotCached) {
		p.logger.Warn("price history cache read failed",
			zap.String("op", "marketdata.CachedProvider.History"),
			zap.String("symbol", symbol),
			zap.Error(err),
		)
	}

	history, err := p.next.History(ctx, symbol, period)
	if err != nil {
		return nil, err
	}
	if err := p.cache.SavePrices(symbol, string(period), history); err != nil {
		p.logger.Warn("price history cache write failed",
			zap.String("op", "marketdata.CachedProvider.History"),
			zap.String("symbol", symbol),
			zap.Error(err),
		)
	}
	return history, nil
}

// DividendYield implements Provider.
func (p *CachedProvider) DividendYield(ctx context.Context, symbol string) (*float64, error) {
	cached, err := p.cache.LoadDividendYield(symbol, p.ttl)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, store.ErrNotCached) {
		p.logger.Warn("dividend cache read failed",
			zap.String("op", "marketdata.CachedProvider.DividendYield"),
			zap.String("symbol", symbol),
			zap.Error(err),
		)
	}

	yield, err := p.next.DividendYield(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if err := p.cache.SaveDividendYield(symbol, yield); err != nil {
		p.logger.Warn("dividend cache write failed",
			zap.String("op", "marketdata.CachedProvider.DividendYield"),
			zap.String("symbol", symbol),
			zap.Error(err),
		)
	}
	return yield, nil
}
