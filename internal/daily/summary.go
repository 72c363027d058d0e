package daily

import (
	"time"

	"github.com/Foia65/healthtogo/internal/metric"
)

// rangeLabelLayout is a medium date style with no time component.
const rangeLabelLayout = "Jan 2, 2006"

// AllDataLabel is the range label used when a fetch covered all history.
const AllDataLabel = "All available data"

// Summary is a derived, read-only view over one daily series. Total is set
// only for cumulative metrics; Min and Max only for discrete metrics with
// at least one active day.
type Summary struct {
	Total      *float64 `json:"total,omitempty"`
	AvgDaily   float64  `json:"avg_daily"`
	ActiveDays int      `json:"active_days"`
	Min        *float64 `json:"min,omitempty"`
	Max        *float64 `json:"max,omitempty"`
	DateRange  string   `json:"date_range"`
}

// Summarize computes the summary for a series. An active day is a point
// with value strictly greater than zero. Averaging and min/max ignore
// zero-value points uniformly, whether the zero is a true measurement
// (cumulative, no steps that day) or the no-data sentinel of a discrete
// metric; the cumulative total includes every point.
func Summarize(s Series, kind metric.Kind, rangeLabel string) Summary {
	sum := Summary{DateRange: rangeLabel}

	var activeTotal float64
	for _, p := range s {
		if p.Value > 0 {
			sum.ActiveDays++
			activeTotal += p.Value
		}
	}

	if kind == metric.Cumulative {
		var total float64
		for _, p := range s {
			total += p.Value
		}
		sum.Total = &total
		if sum.ActiveDays > 0 {
			sum.AvgDaily = activeTotal / float64(sum.ActiveDays)
		}
		return sum
	}

	if sum.ActiveDays > 0 {
		sum.AvgDaily = activeTotal / float64(sum.ActiveDays)
		var min, max float64
		first := true
		for _, p := range s {
			if p.Value <= 0 {
				continue
			}
			if first || p.Value < min {
				min = p.Value
			}
			if first || p.Value > max {
				max = p.Value
			}
			first = false
		}
		sum.Min = &min
		sum.Max = &max
	}
	return sum
}

// RangeLabel formats the human-readable label for a fetch window. All-time
// fetches use a fixed literal; bounded fetches render "<start> to <end>"
// with a medium date style and no time component.
func RangeLabel(start, end time.Time, allTime bool) string {
	if allTime {
		return AllDataLabel
	}
	return start.Format(rangeLabelLayout) + " to " + end.Format(rangeLabelLayout)
}
