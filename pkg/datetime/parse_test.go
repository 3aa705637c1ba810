package datetime

import (
	"testing"
	"time"
)

func TestMustParseTime(t *testing.T) {
	result := MustParseTime(DateTimeLayout, "2025-01")
	if result.Format(DateTimeLayout) != "2025-01" {
		t.Errorf("MustParseTime() = %s, expected 2025-01", result.Format(DateTimeLayout))
	}
}

func TestMustParseTimePanic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Expected MustParseTime to panic with invalid date")
		}
	}()

	MustParseTime(DateTimeLayout, "invalid-date")
}

func TestOffsetDate(t *testing.T) {
	tests := []struct {
		name     string
		date     string
		months   int
		expected string
		wantErr  bool
	}{
		{"Plan horizon", "2025-01", 47, "2028-12", false},
		{"Cross year boundary forward", "2025-06", 8, "2026-02", false},
		{"Backwards", "2025-01", -1, "2024-12", false},
		{"Invalid date", "2025/01", 1, "2025/01", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := OffsetDate(tt.date, DateTimeLayout, tt.months)
			if (err != nil) != tt.wantErr {
				t.Fatalf("OffsetDate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if result != tt.expected {
				t.Errorf("OffsetDate() = %s, expected %s", result, tt.expected)
			}
		})
	}
}

func TestMonthIndex(t *testing.T) {
	start := MustParseTime(DateTimeLayout, "2025-01")
	tests := []struct {
		name     string
		now      time.Time
		expected int
	}{
		{"Start month", time.Date(2025, 1, 31, 23, 0, 0, 0, time.UTC), 0},
		{"Next month", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), 1},
		{"Second year", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), 14},
		{"Before start", time.Date(2024, 11, 5, 0, 0, 0, 0, time.UTC), -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := MonthIndex(start, tt.now); result != tt.expected {
				t.Errorf("MonthIndex() = %d, expected %d", result, tt.expected)
			}
		})
	}
}

func TestMonthLabels(t *testing.T) {
	labels, err := MonthLabels("2025-11", 3)
	if err != nil {
		t.Fatalf("MonthLabels() error = %v", err)
	}
	expected := []string{"2025-11", "2025-12", "2026-01"}
	for i := range expected {
		if labels[i] != expected[i] {
			t.Errorf("MonthLabels()[%d] = %s, expected %s", i, labels[i], expected[i])
		}
	}
	if _, err := MonthLabels("bad", 3); err == nil {
		t.Errorf("MonthLabels() with bad start should fail")
	}
}
