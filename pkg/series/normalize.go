package series

import (
	"sort"
	"time"

	"github.com/iwvelando/savings-forecast/pkg/mathutil"
)

// Normalize builds a series from unordered raw observations the way the
// upstream provider's data is cleaned: non-finite closes are dropped, points
// are sorted by date and, for duplicate trading days, the last observation wins.
func Normalize(dates []time.Time, closes []float64) PriceSeries {
	n := len(dates)
	if len(closes) < n {
		n = len(closes)
	}

	points := make(PriceSeries, 0, n)
	for i := 0; i < n; i++ {
		if !mathutil.IsFinite(closes[i]) {
			continue
		}
		y, m, d := dates[i].Date()
		points = append(points, PricePoint{
			Date:  time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
			Close: closes[i],
		})
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})

	deduped := points[:0]
	for _, p := range points {
		if len(deduped) > 0 && deduped[len(deduped)-1].Date.Equal(p.Date) {
			deduped[len(deduped)-1] = p
			continue
		}
		deduped = append(deduped, p)
	}
	return deduped
}
