// Package savings simulates the monthly compound growth of a savings balance
// under a fixed annual rate and a sequence of monthly contributions.
package savings

import (
	"github.com/iwvelando/savings-forecast/pkg/calcerr"
	"github.com/iwvelando/savings-forecast/pkg/constants"
	"github.com/iwvelando/savings-forecast/pkg/mathutil"
)

// MonthlyRate converts an annual rate in percent into the monthly decimal
// rate. The annual rate must lie within [0, maxPercent].
func MonthlyRate(annualPercent, maxPercent float64) (float64, error) {
	if !mathutil.IsFinite(annualPercent) || annualPercent < 0 || annualPercent > maxPercent {
		return 0, calcerr.InvalidParameter("annual rate %.2f%% outside [0%%, %.2f%%]", annualPercent, maxPercent)
	}
	return mathutil.PercentToDecimal(annualPercent) / constants.MonthsPerYear, nil
}

// Simulate returns the balance after each month. Interest on the previous
// balance accrues before that month's contribution is added.
func Simulate(monthlyRate float64, contributions []float64) []float64 {
	return SimulateFrom(0, monthlyRate, contributions)
}

// SimulateFrom runs the same recurrence starting from an opening balance, so
// a schedule can be simulated in pieces and joined.
func SimulateFrom(opening, monthlyRate float64, contributions []float64) []float64 {
	balances := make([]float64, len(contributions))
	balance := opening
	for k, c := range contributions {
		balance = step(balance, monthlyRate, c)
		balances[k] = balance
	}
	return balances
}

func step(previous, monthlyRate, contribution float64) float64 {
	if monthlyRate == 0 {
		return previous + contribution
	}
	return previous*(1+monthlyRate) + contribution
}
