package mathutil

import (
	"math"
	"testing"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"Round up at midpoint", 1.235, 1.24},
		{"Round down below midpoint", 1.234, 1.23},
		{"Compounded balance", 12168.8831, 12168.88},
		{"Negative deviation", -612.345, -612.35},
		{"Zero", 0.0, 0.0},
		{"Sub-cent residue", 0.004, 0.00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Round(tt.input)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("Round(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestIsZeroAndWithinTolerance(t *testing.T) {
	if !IsZero(0.01) || !IsZero(-0.01) {
		t.Errorf("IsZero should accept values exactly one cent from zero")
	}
	if IsZero(0.011) {
		t.Errorf("IsZero(0.011) = true, expected false")
	}
	if !WithinTolerance(100, 100.4, 0.5) {
		t.Errorf("WithinTolerance(100, 100.4, 0.5) = false, expected true")
	}
	if WithinTolerance(100, 101, 0.5) {
		t.Errorf("WithinTolerance(100, 101, 0.5) = true, expected false")
	}
}

func TestIsFinite(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected bool
	}{
		{"Regular price", 412.7, true},
		{"Zero", 0, true},
		{"NaN", math.NaN(), false},
		{"Positive infinity", math.Inf(1), false},
		{"Negative infinity", math.Inf(-1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := IsFinite(tt.input); result != tt.expected {
				t.Errorf("IsFinite(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		val      float64
		expected float64
	}{
		{"Below range", -0.2, 0},
		{"Inside range", 0.37, 0.37},
		{"Above range", 1.8, 1},
		{"Lower bound", 0, 0},
		{"Upper bound", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := Clamp(tt.val, 0, 1); result != tt.expected {
				t.Errorf("Clamp(%v, 0, 1) = %v, expected %v", tt.val, result, tt.expected)
			}
		})
	}
}

func TestPercentHelpers(t *testing.T) {
	if result := PercentToDecimal(6); math.Abs(result-0.06) > 1e-12 {
		t.Errorf("PercentToDecimal(6) = %v, expected 0.06", result)
	}
	if result := CalculatePercentage(25000, 100000); result != 25 {
		t.Errorf("CalculatePercentage(25000, 100000) = %v, expected 25", result)
	}
	if result := CalculatePercentage(10, 0); result != 0 {
		t.Errorf("CalculatePercentage with zero total = %v, expected 0", result)
	}
}

func TestSumAndMean(t *testing.T) {
	values := make([]float64, 10000)
	for i := range values {
		values[i] = 0.1
	}
	if result := Sum(values); math.Abs(result-1000) > 1e-9 {
		t.Errorf("Sum() = %.12f, expected 1000", result)
	}
	if result := Mean([]float64{100, 200, 300}); result != 200 {
		t.Errorf("Mean() = %v, expected 200", result)
	}
	if result := Mean(nil); !math.IsNaN(result) {
		t.Errorf("Mean(nil) = %v, expected NaN", result)
	}
}
