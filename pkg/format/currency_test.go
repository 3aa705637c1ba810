package format

import "testing"

func TestCurrency(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		expected string
	}{
		{"Target capital", 100000, "$100,000.00"},
		{"Small amount", 12.5, "$12.50"},
		{"Negative deviation", -1234.56, "-$1,234.56"},
		{"Zero", 0, "$0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := Currency(tt.amount); result != tt.expected {
				t.Errorf("Currency(%v) = %q, expected %q", tt.amount, result, tt.expected)
			}
		})
	}
}

func TestAmount(t *testing.T) {
	tests := []struct {
		amount   float64
		expected string
	}{
		{12335.562373, "12335.56"},
		{-612.345, "-612.35"},
		{1000, "1000.00"},
	}

	for _, tt := range tests {
		if result := Amount(tt.amount); result != tt.expected {
			t.Errorf("Amount(%v) = %q, expected %q", tt.amount, result, tt.expected)
		}
	}
}

func TestPriceAndPercent(t *testing.T) {
	if result := Price(412.789); result != "412.79 USD" {
		t.Errorf("Price() = %q, expected 412.79 USD", result)
	}
	if result := Percent(0.0734); result != "7.34%" {
		t.Errorf("Percent() = %q, expected 7.34%%", result)
	}
}
