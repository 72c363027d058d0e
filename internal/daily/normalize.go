package daily

import (
	"time"

	"github.com/Foia65/healthtogo/internal/metric"
)

// Normalize groups raw samples by calendar day in loc and collapses each
// group to one value: the sum for cumulative metrics, the arithmetic mean
// for discrete ones. The metric's transform is applied to the day's value
// after aggregation. Days with no samples produce no point, so the result
// is sparse, sorted ascending by day.
//
// The grouping key is the local start of day. Callers must pass the current
// location on every run: a timezone change between runs shifts which day a
// sample lands on, and downstream code consumes the day key, not the raw
// timestamp.
func Normalize(samples []Sample, m metric.Metric, loc *time.Location) Series {
	if len(samples) == 0 {
		return Series{}
	}

	groups := make(map[time.Time][]float64)
	for _, s := range samples {
		day := DayStart(s.Time, loc)
		groups[day] = append(groups[day], s.Value)
	}

	out := make(Series, 0, len(groups))
	for day, values := range groups {
		var v float64
		for _, x := range values {
			v += x
		}
		if m.Kind == metric.Discrete {
			v /= float64(len(values))
		}
		out = append(out, Point{Day: day, Value: m.Transform(v)})
	}

	sortSeries(out)
	return out
}
