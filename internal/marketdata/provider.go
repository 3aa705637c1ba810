// Package marketdata fetches daily closing-price history for catalog assets.
package marketdata

import (
	"context"

	"github.com/iwvelando/savings-forecast/pkg/series"
)

// Provider supplies price history and dividend information for a symbol.
type Provider interface {
	// History returns the daily closes of symbol over period, sorted and
	// free of non-finite values.
	History(ctx context.Context, symbol string, period Period) (series.PriceSeries, error)

	// DividendYield returns the trailing twelve-month dividend yield as a
	// fraction, or nil when it is unknown.
	DividendYield(ctx context.Context, symbol string) (*float64, error)
}
