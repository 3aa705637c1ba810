package savings

import (
	"github.com/iwvelando/savings-forecast/pkg/calcerr"
	"github.com/iwvelando/savings-forecast/pkg/constants"
	"github.com/iwvelando/savings-forecast/pkg/mathutil"
)

// ValidatePlan checks a per-year schedule of nominal monthly contributions.
func ValidatePlan(perYear []float64) error {
	if len(perYear) == 0 {
		return calcerr.InvalidParameter("contribution plan has no years")
	}
	for year, amount := range perYear {
		if !mathutil.IsFinite(amount) || amount < 0 {
			return calcerr.InvalidParameter("planned monthly contribution %v for year %d must be a non-negative number", amount, year+1)
		}
	}
	return nil
}

// ExpandPlan turns per-year monthly amounts into one entry per month.
func ExpandPlan(perYear []float64) ([]float64, error) {
	if err := ValidatePlan(perYear); err != nil {
		return nil, err
	}
	months := make([]float64, 0, len(perYear)*constants.MonthsPerYear)
	for _, amount := range perYear {
		for m := 0; m < constants.MonthsPerYear; m++ {
			months = append(months, amount)
		}
	}
	return months, nil
}

// PlannedTotal is the sum of all planned contributions without growth.
func PlannedTotal(perYear []float64) float64 {
	total := 0.0
	for _, amount := range perYear {
		total += amount * constants.MonthsPerYear
	}
	return total
}
