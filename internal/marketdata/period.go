package marketdata

import (
	"fmt"
	"strings"
	"time"
)

// Period is a lookback window for price history.
type Period string

// Supported lookback periods.
const (
	SixMonths Period = "6mo"
	OneYear   Period = "1y"
	TwoYears  Period = "2y"
	FiveYears Period = "5y"
)

// Periods lists the supported periods from shortest to longest.
func Periods() []Period {
	return []Period{SixMonths, OneYear, TwoYears, FiveYears}
}

// ParsePeriod accepts one of the supported period labels.
func ParsePeriod(value string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(value)))
	for _, known := range Periods() {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("unsupported period %q, expected one of 6mo, 1y, 2y, 5y", value)
}

// Start returns the first day covered by the period when looking back from now.
func (p Period) Start(now time.Time) time.Time {
	y, m, d := now.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	switch p {
	case SixMonths:
		return day.AddDate(0, -6, 0)
	case TwoYears:
		return day.AddDate(-2, 0, 0)
	case FiveYears:
		return day.AddDate(-5, 0, 0)
	default:
		return day.AddDate(-1, 0, 0)
	}
}

// ApproxTradingDays is a rough count of sessions in the period.
func (p Period) ApproxTradingDays() int {
	switch p {
	case SixMonths:
		return 126
	case TwoYears:
		return 504
	case FiveYears:
		return 1260
	default:
		return 252
	}
}
