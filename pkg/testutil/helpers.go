// Package testutil provides common utility functions for testing.
package testutil

import (
	"math"
	"time"

	"github.com/iwvelando/savings-forecast/pkg/series"
)

// TradingDays returns n consecutive weekdays starting at start (or the next
// weekday when start falls on a weekend).
func TradingDays(start time.Time, n int) []time.Time {
	days := make([]time.Time, 0, n)
	d := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	for len(days) < n {
		if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
			days = append(days, d)
		}
		d = d.AddDate(0, 0, 1)
	}
	return days
}

// LinearSeries builds a series whose close at ordinal i is slope*i + intercept.
func LinearSeries(start time.Time, n int, slope, intercept float64) series.PriceSeries {
	s := make(series.PriceSeries, n)
	for i, d := range TradingDays(start, n) {
		s[i] = series.PricePoint{Date: d, Close: slope*float64(i) + intercept}
	}
	return s
}

// SeriesFromCloses places closes on consecutive trading days starting at start.
func SeriesFromCloses(start time.Time, closes ...float64) series.PriceSeries {
	s := make(series.PriceSeries, len(closes))
	for i, d := range TradingDays(start, len(closes)) {
		s[i] = series.PricePoint{Date: d, Close: closes[i]}
	}
	return s
}

// SlicesWithin reports whether two slices have equal length and every pair of
// elements differs by at most tolerance.
func SlicesWithin(a, b []float64, tolerance float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > tolerance {
			return false
		}
	}
	return true
}
