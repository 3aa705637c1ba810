package trend

import (
	"time"

	"github.com/iwvelando/savings-forecast/pkg/series"
)

// Extrapolate extends the line steps trading days past the end of s. Dates
// advance over weekdays only; exchange holidays are not known here.
func Extrapolate(m Model, s series.PriceSeries, steps int) []ForecastPoint {
	if steps <= 0 || len(s) == 0 {
		return nil
	}

	points := make([]ForecastPoint, 0, steps)
	date := s.Last().Date
	for k := 0; k < steps; k++ {
		date = nextWeekday(date)
		points = append(points, ForecastPoint{
			Date:      date,
			Predicted: m.At(len(s) + k),
		})
	}
	return points
}

func nextWeekday(t time.Time) time.Time {
	next := t.AddDate(0, 0, 1)
	for next.Weekday() == time.Saturday || next.Weekday() == time.Sunday {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
