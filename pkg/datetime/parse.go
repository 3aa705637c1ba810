// Package datetime provides month arithmetic for savings plans.
package datetime

import (
	"time"

	"github.com/iwvelando/savings-forecast/pkg/constants"
)

const (
	// DateTimeLayout is the format expected in config files and is also the output
	// month format.
	DateTimeLayout = constants.DateTimeLayout
)

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// OffsetDate returns the string-formatted date offset by the given number of
// months relative to the given date.
func OffsetDate(date, layout string, months int) (string, error) {
	t, err := time.Parse(layout, date)
	if err != nil {
		return date, err
	}
	return t.AddDate(0, months, 0).Format(layout), nil
}

// MonthIndex returns the number of whole calendar months from start to t, so
// the month containing start is 0. It is negative when t precedes start.
func MonthIndex(start, t time.Time) int {
	return (t.Year()-start.Year())*constants.MonthsPerYear + int(t.Month()) - int(start.Month())
}

// MonthLabels returns n consecutive month labels beginning with start.
func MonthLabels(start string, n int) ([]string, error) {
	startT, err := time.Parse(DateTimeLayout, start)
	if err != nil {
		return nil, err
	}
	labels := make([]string, n)
	for i := range labels {
		labels[i] = startT.AddDate(0, i, 0).Format(DateTimeLayout)
	}
	return labels, nil
}
