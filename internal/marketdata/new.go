package marketdata

import (
	"fmt"
	"time"

	"github.com/iwvelando/savings-forecast/pkg/constants"
	"go.uber.org/zap"
)

// Options selects and tunes a provider.
type Options struct {
	Provider string
	BaseURL  string
	CSVDir   string
	Timeout  time.Duration
	CacheTTL time.Duration
	Cache    Cache // nil disables caching
}

// New builds the provider described by opts.
func New(opts Options, logger *zap.Logger) (Provider, error) {
	var provider Provider
	switch opts.Provider {
	case constants.ProviderYahoo, "":
		provider = NewYahooProvider(opts.BaseURL, opts.Timeout, logger)
	case constants.ProviderCSV:
		provider = NewCSVProvider(opts.CSVDir, logger)
	default:
		return nil, fmt.Errorf("unknown market data provider %q", opts.Provider)
	}

	if opts.Cache != nil && opts.CacheTTL > 0 {
		provider = NewCachedProvider(provider, opts.Cache, opts.CacheTTL, logger)
	}
	return provider, nil
}
