package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/savings-forecast/pkg/constants"
)

func TestValidatePlanWindow(t *testing.T) {
	now := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name        string
		startDate   string
		months      int
		expectWarn  bool
		expectError bool
	}{
		{"Running plan", "2025-01", 48, false, false},
		{"Future plan", "2027-01", 48, true, false},
		{"Finished plan", "2020-01", 48, true, false},
		{"Invalid start date", "invalid-date", 48, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warning, err := ValidatePlanWindow(tt.startDate, tt.months, now)
			if tt.expectError {
				if err == nil {
					t.Errorf("ValidatePlanWindow() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidatePlanWindow() unexpected error = %v", err)
			}
			if (warning != "") != tt.expectWarn {
				t.Errorf("ValidatePlanWindow() warning = %q, expected warning %t", warning, tt.expectWarn)
			}
		})
	}
}

func TestValidatePlanReach(t *testing.T) {
	// The default plan puts in 74,400 over four years, well short of 100,000.
	warning, err := ValidatePlanReach(constants.DefaultYearlyContributions(), 5, 10, 100000)
	if err != nil {
		t.Fatalf("ValidatePlanReach() error = %v", err)
	}
	if !strings.Contains(warning, "$100,000.00") {
		t.Errorf("ValidatePlanReach() warning = %q, expected the target in the message", warning)
	}

	warning, err = ValidatePlanReach([]float64{5000}, 0, 10, 50000)
	if err != nil {
		t.Fatalf("ValidatePlanReach() error = %v", err)
	}
	if warning != "" {
		t.Errorf("ValidatePlanReach() warning = %q, expected none when 60,000 >= 50,000", warning)
	}

	if _, err := ValidatePlanReach([]float64{1000}, 12, 10, 1000); err == nil {
		t.Errorf("ValidatePlanReach() should reject a rate above the bound")
	}
}

func TestValidateContributionCap(t *testing.T) {
	warnings := ValidateContributionCap([]float64{1000, 2500, 3000}, 2000)
	if len(warnings) != 2 {
		t.Fatalf("ValidateContributionCap() = %v, expected 2 warnings", warnings)
	}
	if !strings.Contains(warnings[0], "Plan year 2") {
		t.Errorf("first warning = %q, expected year 2", warnings[0])
	}
}

func TestValidateAll(t *testing.T) {
	cv := ConfigValidator{
		Plan: PlanConfig{
			StartDate:            "2025-01",
			YearlyContributions:  constants.DefaultYearlyContributions(),
			AnnualRatePercent:    5,
			MaxAnnualRatePercent: 10,
			ContributionCap:      1500,
			TargetCapital:        100000,
		},
		Assets: []AssetConfig{
			{Name: "Nasdaq 100 ETF", Symbol: "QQQ"},
			{Name: "Nasdaq copy", Symbol: "qqq"},
		},
		Window: WindowConfig{Size: 300, Period: "1y", TradingDays: 252},
		Now:    time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC),
	}

	warnings := cv.ValidateAll()
	// reach + two capped years + window + duplicate symbol
	if len(warnings) != 5 {
		t.Errorf("ValidateAll() returned %d warnings, expected 5: %v", len(warnings), warnings)
	}
}
