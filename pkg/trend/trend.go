// Package trend fits a straight line to a price series indexed by trading-day
// ordinal and produces the fitted values shown next to the price chart.
package trend

import (
	"time"

	"github.com/iwvelando/savings-forecast/pkg/calcerr"
	"github.com/iwvelando/savings-forecast/pkg/constants"
	"github.com/iwvelando/savings-forecast/pkg/mathutil"
	"github.com/iwvelando/savings-forecast/pkg/series"
)

// Model is a least-squares line close = Slope*ordinal + Intercept.
type Model struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// ForecastPoint pairs a date with the model's predicted close.
type ForecastPoint struct {
	Date      time.Time `json:"date"`
	Predicted float64   `json:"predicted"`
}

// At returns the model value at the given ordinal.
func (m Model) At(ordinal int) float64 {
	return m.Slope*float64(ordinal) + m.Intercept
}

// TrendEnd returns the model value at the last ordinal of an n-point series.
func (m Model) TrendEnd(n int) float64 {
	return m.At(n - 1)
}

// Fit runs ordinary least squares of close price on the ordinal index
// 0..n-1. Calendar gaps are ignored; the x axis counts trading days.
func Fit(s series.PriceSeries) (Model, error) {
	if len(s) < constants.MinRegressionPoints {
		return Model{}, calcerr.InsufficientData("trend needs at least %d points, got %d", constants.MinRegressionPoints, len(s))
	}
	if err := s.Validate(); err != nil {
		return Model{}, err
	}

	closes := s.Closes()
	n := float64(len(closes))
	xMean := (n - 1) / 2
	yMean := mathutil.Mean(closes)

	// Centred sums keep the products small for long series.
	var num, den float64
	for i, y := range closes {
		dx := float64(i) - xMean
		num += dx * (y - yMean)
		den += dx * dx
	}

	slope := num / den
	return Model{
		Slope:     slope,
		Intercept: yMean - slope*xMean,
	}, nil
}

// Predict evaluates the model at every ordinal of the series.
func Predict(m Model, s series.PriceSeries) []ForecastPoint {
	points := make([]ForecastPoint, len(s))
	for i, p := range s {
		points[i] = ForecastPoint{Date: p.Date, Predicted: m.At(i)}
	}
	return points
}
