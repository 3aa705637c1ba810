package savings

import (
	"errors"
	"math"
	"testing"

	"github.com/iwvelando/savings-forecast/pkg/calcerr"
	"github.com/iwvelando/savings-forecast/pkg/constants"
	"github.com/iwvelando/savings-forecast/pkg/testutil"
	"go.uber.org/zap"
)

func TestMonthlyRate(t *testing.T) {
	tests := []struct {
		name     string
		annual   float64
		expected float64
		wantErr  bool
	}{
		{"Zero", 0, 0, false},
		{"Six percent", 6, 0.005, false},
		{"Upper bound", 10, 0.1 / 12, false},
		{"Negative", -1, 0, true},
		{"Above slider bound", 10.5, 0, true},
		{"NaN", math.NaN(), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MonthlyRate(tt.annual, constants.MaxAnnualRatePercent)
			if tt.wantErr {
				if !errors.Is(err, calcerr.ErrInvalidParameter) {
					t.Errorf("MonthlyRate(%v) error = %v, expected invalid parameter", tt.annual, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("MonthlyRate(%v) error = %v", tt.annual, err)
			}
			if math.Abs(result-tt.expected) > 1e-15 {
				t.Errorf("MonthlyRate(%v) = %v, expected %v", tt.annual, result, tt.expected)
			}
		})
	}
}

func TestSimulateZeroRateIsRunningSum(t *testing.T) {
	contributions := []float64{1000, 0, 250.5, 1200, 0, 2000}
	expected := []float64{1000, 1000, 1250.5, 2450.5, 2450.5, 4450.5}

	result := Simulate(0, contributions)
	for i := range expected {
		if result[i] != expected[i] {
			t.Errorf("Simulate(0)[%d] = %v, expected %v", i, result[i], expected[i])
		}
	}
}

func TestSimulateCompounding(t *testing.T) {
	tests := []struct {
		name          string
		rate          float64
		contributions []float64
		expected      []float64
	}{
		{
			name:          "Contribution is end of month",
			rate:          0.01,
			contributions: []float64{100, 100, 100},
			expected:      []float64{100, 201, 303.01},
		},
		{
			name:          "Growth without new money",
			rate:          0.005,
			contributions: []float64{1000, 0, 0},
			expected:      []float64{1000, 1005, 1010.025},
		},
		{
			name:          "Empty schedule",
			rate:          0.005,
			contributions: []float64{},
			expected:      []float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Simulate(tt.rate, tt.contributions)
			if !testutil.SlicesWithin(result, tt.expected, 1e-9) {
				t.Errorf("Simulate() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestSimulateAnnuityClosedForm(t *testing.T) {
	rate := 0.005
	contributions := make([]float64, 48)
	for i := range contributions {
		contributions[i] = 1000
	}
	result := Simulate(rate, contributions)
	expected := 1000 * (math.Pow(1+rate, 48) - 1) / rate
	if math.Abs(result[47]-expected) > 1e-6 {
		t.Errorf("Simulate() final = %v, expected %v", result[47], expected)
	}
}

func TestSimulateSplitting(t *testing.T) {
	rate := 0.05 / 12
	first := []float64{1000, 1000, 1000, 1200, 1200}
	second := []float64{2000, 0, 2000, 2000}

	whole := Simulate(rate, append(append([]float64{}, first...), second...))
	head := Simulate(rate, first)
	tail := SimulateFrom(head[len(head)-1], rate, second)

	for i := range head {
		if head[i] != whole[i] {
			t.Errorf("head[%d] = %v, expected %v", i, head[i], whole[i])
		}
	}
	for i := range tail {
		if tail[i] != whole[len(first)+i] {
			t.Errorf("tail[%d] = %v, expected %v", i, tail[i], whole[len(first)+i])
		}
	}
}

func TestSimulateIsDeterministicAndPure(t *testing.T) {
	contributions := []float64{1000, 1200, 2000}
	snapshot := append([]float64{}, contributions...)

	a := Simulate(0.004, contributions)
	b := Simulate(0.004, contributions)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Simulate() is not reproducible at %d: %v != %v", i, a[i], b[i])
		}
	}
	for i := range contributions {
		if contributions[i] != snapshot[i] {
			t.Fatalf("Simulate() mutated its input")
		}
	}
}

func TestExpandPlan(t *testing.T) {
	months, err := ExpandPlan(constants.DefaultYearlyContributions())
	if err != nil {
		t.Fatalf("ExpandPlan() error = %v", err)
	}
	if len(months) != 48 {
		t.Fatalf("ExpandPlan() length = %d, expected 48", len(months))
	}
	checks := map[int]float64{0: 1000, 11: 1000, 12: 1200, 23: 1200, 24: 2000, 47: 2000}
	for idx, want := range checks {
		if months[idx] != want {
			t.Errorf("ExpandPlan()[%d] = %v, expected %v", idx, months[idx], want)
		}
	}
	if total := PlannedTotal(constants.DefaultYearlyContributions()); total != 74400 {
		t.Errorf("PlannedTotal() = %v, expected 74400", total)
	}
}

func TestExpandPlanErrors(t *testing.T) {
	tests := []struct {
		name    string
		perYear []float64
	}{
		{"No years", nil},
		{"Negative year", []float64{1000, -1}},
		{"NaN year", []float64{math.NaN()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ExpandPlan(tt.perYear); !errors.Is(err, calcerr.ErrInvalidParameter) {
				t.Errorf("ExpandPlan() error = %v, expected invalid parameter", err)
			}
		})
	}
}

func TestActuals(t *testing.T) {
	actuals := Actuals{}
	limit := constants.DefaultContributionCap

	if err := actuals.Set(0, 1000, limit); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := actuals.Set(2, 1500, limit); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := actuals.Set(5, 900, limit); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	rejected := []struct {
		name   string
		month  int
		amount float64
	}{
		{"Over cap", 1, limit + 0.01},
		{"Negative amount", 1, -10},
		{"Negative month", -1, 100},
		{"Infinite amount", 1, math.Inf(1)},
	}
	for _, tt := range rejected {
		t.Run(tt.name, func(t *testing.T) {
			if err := actuals.Set(tt.month, tt.amount, limit); !errors.Is(err, calcerr.ErrInvalidParameter) {
				t.Errorf("Set(%d, %v) error = %v, expected invalid parameter", tt.month, tt.amount, err)
			}
		})
	}
	if _, ok := actuals[1]; ok {
		t.Errorf("rejected edits must not be recorded")
	}

	seq := actuals.Sequence(6, 3)
	expected := []float64{1000, 0, 1500, 0, 0, 0}
	for i := range expected {
		if seq[i] != expected[i] {
			t.Errorf("Sequence()[%d] = %v, expected %v", i, seq[i], expected[i])
		}
	}

	if months := actuals.Months(); len(months) != 3 || months[0] != 0 || months[2] != 5 {
		t.Errorf("Months() = %v, expected [0 2 5]", months)
	}

	clone := actuals.Clone()
	clone[0] = 1
	if actuals[0] != 1000 {
		t.Errorf("Clone() shares storage with the original")
	}
}

func TestSimulatorRun(t *testing.T) {
	sim := NewSimulator(zap.NewNop())

	plan := make([]float64, 12)
	for i := range plan {
		plan[i] = 1000
	}
	actual := append([]float64{}, plan...)

	result, err := sim.Run(0.005, plan, actual)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	for i := range result.Plan {
		if result.Plan[i] != result.Actual[i] {
			t.Errorf("month %d: plan %v != actual %v", i, result.Plan[i], result.Actual[i])
		}
	}
	if math.Abs(result.Plan[11]-12335.56) > 0.01 {
		t.Errorf("Run() final plan = %.4f, expected 12335.56", result.Plan[11])
	}

	if _, err := NewSimulator(nil).Run(0.005, plan, actual[:6]); !errors.Is(err, calcerr.ErrInvalidParameter) {
		t.Errorf("Run() with mismatched lengths error = %v, expected %v", err, calcerr.ErrInvalidParameter)
	}
}
