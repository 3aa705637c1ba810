package savings

import (
	"sort"

	"github.com/iwvelando/savings-forecast/pkg/calcerr"
	"github.com/iwvelando/savings-forecast/pkg/mathutil"
)

// Actuals maps a 0-based month index from plan start to the amount actually
// contributed that month.
type Actuals map[int]float64

// ValidateContribution checks one edit before it is accepted.
func ValidateContribution(month int, amount, limit float64) error {
	if month < 0 {
		return calcerr.InvalidParameter("month index %d must not be negative", month)
	}
	if !mathutil.IsFinite(amount) || amount < 0 {
		return calcerr.InvalidParameter("contribution %v for month %d must be a non-negative number", amount, month)
	}
	if amount > limit {
		return calcerr.InvalidParameter("contribution %.2f for month %d exceeds the monthly cap of %.2f", amount, month, limit)
	}
	return nil
}

// Set records an actual contribution after validating it against limit.
func (a Actuals) Set(month int, amount, limit float64) error {
	if err := ValidateContribution(month, amount, limit); err != nil {
		return err
	}
	a[month] = amount
	return nil
}

// Clone returns an independent copy.
func (a Actuals) Clone() Actuals {
	clone := make(Actuals, len(a))
	for k, v := range a {
		clone[k] = v
	}
	return clone
}

// Months returns the recorded month indices in ascending order.
func (a Actuals) Months() []int {
	months := make([]int, 0, len(a))
	for k := range a {
		months = append(months, k)
	}
	sort.Ints(months)
	return months
}

// Sequence returns length monthly contributions. Months after lastUnlocked
// (and months without an entry) are 0.
func (a Actuals) Sequence(length, lastUnlocked int) []float64 {
	seq := make([]float64, length)
	for month, amount := range a {
		if month < 0 || month >= length || month > lastUnlocked {
			continue
		}
		seq[month] = amount
	}
	return seq
}
