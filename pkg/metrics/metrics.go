// Package metrics derives performance figures from a price series: the
// compound annual growth rate and a trailing simple moving average.
package metrics

import (
	"math"

	"github.com/iwvelando/savings-forecast/pkg/calcerr"
	"github.com/iwvelando/savings-forecast/pkg/constants"
	"github.com/iwvelando/savings-forecast/pkg/mathutil"
	"github.com/iwvelando/savings-forecast/pkg/series"
)

// Years returns the elapsed time between the first and last point in years
// of 365.25 days.
func Years(s series.PriceSeries) float64 {
	if len(s) == 0 {
		return 0
	}
	days := s.Last().Date.Sub(s.First().Date).Hours() / 24
	return days / constants.DaysPerYear
}

// CAGR computes (end/start)^(1/years) - 1 over the full series.
func CAGR(s series.PriceSeries) (float64, error) {
	if len(s) < 2 {
		return 0, calcerr.InsufficientData("CAGR needs at least 2 points, got %d", len(s))
	}

	start, end := s.First().Close, s.Last().Close
	if !mathutil.IsFinite(start) || !mathutil.IsFinite(end) {
		return 0, calcerr.InvalidData("start %v or end %v price is not finite", start, end)
	}
	if start <= 0 {
		return 0, calcerr.DegenerateRange("start price %v must be positive", start)
	}
	if end <= 0 {
		return 0, calcerr.InvalidData("end price %v must be positive", end)
	}

	years := Years(s)
	if years <= 0 {
		return 0, calcerr.DegenerateRange("elapsed time of %.4f years between %s and %s",
			years, s.First().Date.Format(constants.DayLayout), s.Last().Date.Format(constants.DayLayout))
	}

	cagr := math.Pow(end/start, 1/years) - 1
	if !mathutil.IsFinite(cagr) {
		return 0, calcerr.InvalidData("growth from %v to %v over %.4f years overflows", start, end, years)
	}
	return cagr, nil
}

// TotalReturn is the simple return end/start - 1 over the series.
func TotalReturn(s series.PriceSeries) (float64, error) {
	if len(s) < 2 {
		return 0, calcerr.InsufficientData("total return needs at least 2 points, got %d", len(s))
	}
	start := s.First().Close
	if start <= 0 || !mathutil.IsFinite(start) {
		return 0, calcerr.InvalidData("start price %v must be positive", start)
	}
	return s.Last().Close/start - 1, nil
}

// MovingAverage returns the mean of the trailing window closes at every
// position. Positions with fewer than window points so far are nil.
func MovingAverage(s series.PriceSeries, window int) ([]*float64, error) {
	if window < 1 {
		return nil, calcerr.InvalidParameter("moving average window must be >= 1, got %d", window)
	}

	closes := s.Closes()
	averages := make([]*float64, len(closes))
	for i := window - 1; i < len(closes); i++ {
		mean := mathutil.Mean(closes[i-window+1 : i+1])
		averages[i] = &mean
	}
	return averages, nil
}

// Latest returns the last defined value of a moving average.
func Latest(values []*float64) (float64, bool) {
	for i := len(values) - 1; i >= 0; i-- {
		if values[i] != nil {
			return *values[i], true
		}
	}
	return 0, false
}
