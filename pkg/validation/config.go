// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/savings-forecast/pkg/constants"
	"github.com/iwvelando/savings-forecast/pkg/datetime"
	"github.com/iwvelando/savings-forecast/pkg/format"
	"github.com/iwvelando/savings-forecast/pkg/mathutil"
	"github.com/iwvelando/savings-forecast/pkg/savings"
)

// ValidatePlanWindow warns when the plan has not started yet or has already ended.
func ValidatePlanWindow(startDate string, months int, now time.Time) (string, error) {
	start, err := time.Parse(datetime.DateTimeLayout, startDate)
	if err != nil {
		return "", err
	}

	idx := datetime.MonthIndex(start, now)
	if idx < 0 {
		return fmt.Sprintf("Plan starts in the future (%s); no actual contributions can be entered yet", startDate), nil
	}
	if idx >= months {
		end, _ := datetime.OffsetDate(startDate, datetime.DateTimeLayout, months-1)
		return fmt.Sprintf("Plan ended in %s; status is reported for the final month", end), nil
	}
	return "", nil
}

// ValidatePlanReach warns when following the plan exactly would not reach the target.
func ValidatePlanReach(perYear []float64, annualRatePercent, maxAnnualRatePercent, target float64) (string, error) {
	monthly, err := savings.ExpandPlan(perYear)
	if err != nil {
		return "", err
	}
	rate, err := savings.MonthlyRate(annualRatePercent, maxAnnualRatePercent)
	if err != nil {
		return "", err
	}

	balances := savings.Simulate(rate, monthly)
	final := balances[len(balances)-1]
	if final < target {
		return fmt.Sprintf("Planned contributions reach %s at %.2f%%, short of the %s target (%.1f%%)",
			format.Currency(final), annualRatePercent, format.Currency(target),
			mathutil.CalculatePercentage(final, target)), nil
	}
	return "", nil
}

// ValidateContributionCap warns about plan years whose monthly amount exceeds the cap.
func ValidateContributionCap(perYear []float64, limit float64) []string {
	var warnings []string
	for year, amount := range perYear {
		if amount > limit {
			warnings = append(warnings, fmt.Sprintf("Plan year %d expects %s per month but actual contributions are capped at %s",
				year+1, format.Currency(amount), format.Currency(limit)))
		}
	}
	return warnings
}

// ValidateMovingAverageWindow warns when the window is longer than the
// lookback period, which leaves the whole average undefined.
func ValidateMovingAverageWindow(window, tradingDays int, period string) string {
	if window > tradingDays {
		return fmt.Sprintf("Moving average window of %d exceeds the ~%d trading days in %s; the average will be undefined",
			window, tradingDays, period)
	}
	return ""
}

// ConfigValidator collects the values needed for warning checks.
type ConfigValidator struct {
	Plan   PlanConfig
	Assets []AssetConfig
	Window WindowConfig
	Now    time.Time
}

// PlanConfig mirrors the plan section of the configuration.
type PlanConfig struct {
	StartDate            string
	YearlyContributions  []float64
	AnnualRatePercent    float64
	MaxAnnualRatePercent float64
	ContributionCap      float64
	TargetCapital        float64
}

// AssetConfig mirrors one catalog entry.
type AssetConfig struct {
	Name   string
	Symbol string
}

// WindowConfig mirrors the moving-average settings.
type WindowConfig struct {
	Size        int
	Period      string
	TradingDays int
}

// ValidateAll validates the entire configuration and returns warnings
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string

	now := cv.Now
	if now.IsZero() {
		now = time.Now()
	}

	months := len(cv.Plan.YearlyContributions) * constants.MonthsPerYear
	if months > 0 {
		if warning, err := ValidatePlanWindow(cv.Plan.StartDate, months, now); err == nil && warning != "" {
			warnings = append(warnings, warning)
		}
	}

	if cv.Plan.TargetCapital > 0 {
		if warning, err := ValidatePlanReach(cv.Plan.YearlyContributions, cv.Plan.AnnualRatePercent, cv.Plan.MaxAnnualRatePercent, cv.Plan.TargetCapital); err == nil && warning != "" {
			warnings = append(warnings, warning)
		}
	}

	warnings = append(warnings, ValidateContributionCap(cv.Plan.YearlyContributions, cv.Plan.ContributionCap)...)

	if warning := ValidateMovingAverageWindow(cv.Window.Size, cv.Window.TradingDays, cv.Window.Period); warning != "" {
		warnings = append(warnings, warning)
	}

	seen := make(map[string]string)
	for _, asset := range cv.Assets {
		key := strings.ToUpper(asset.Symbol)
		if previous, ok := seen[key]; ok {
			warnings = append(warnings, fmt.Sprintf("Assets '%s' and '%s' share symbol %s", previous, asset.Name, asset.Symbol))
			continue
		}
		seen[key] = asset.Name
	}

	return warnings
}
