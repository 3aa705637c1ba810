// Package series defines the daily price history the forecasting engine
// consumes.
package series

import (
	"time"

	"github.com/iwvelando/savings-forecast/pkg/calcerr"
	"github.com/iwvelando/savings-forecast/pkg/constants"
	"github.com/iwvelando/savings-forecast/pkg/mathutil"
)

// PricePoint is the closing price of an asset on one trading day.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// PriceSeries is a chronologically ordered price history. Callers treat it as
// immutable once it has been produced by a market-data provider.
type PriceSeries []PricePoint

// Validate checks the ordering invariants: at least one point, strictly
// increasing dates and finite closing prices.
func (s PriceSeries) Validate() error {
	if len(s) == 0 {
		return calcerr.InsufficientData("price series is empty")
	}
	for i, p := range s {
		if !mathutil.IsFinite(p.Close) {
			return calcerr.InvalidData("close at index %d (%s) is not finite", i, p.Date.Format(constants.DayLayout))
		}
		if i == 0 {
			continue
		}
		prev := s[i-1].Date
		if p.Date.Equal(prev) {
			return calcerr.InvalidData("duplicate date %s at index %d", p.Date.Format(constants.DayLayout), i)
		}
		if p.Date.Before(prev) {
			return calcerr.InvalidData("date %s at index %d precedes %s", p.Date.Format(constants.DayLayout), i, prev.Format(constants.DayLayout))
		}
	}
	return nil
}

// Len returns the number of points.
func (s PriceSeries) Len() int {
	return len(s)
}

// Closes returns the closing prices in order.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, p := range s {
		closes[i] = p.Close
	}
	return closes
}

// First returns the earliest point. It panics on an empty series.
func (s PriceSeries) First() PricePoint {
	return s[0]
}

// Last returns the latest point. It panics on an empty series.
func (s PriceSeries) Last() PricePoint {
	return s[len(s)-1]
}

// Since returns the suffix of the series whose dates are on or after start.
func (s PriceSeries) Since(start time.Time) PriceSeries {
	for i, p := range s {
		if !p.Date.Before(start) {
			return s[i:]
		}
	}
	return PriceSeries{}
}
