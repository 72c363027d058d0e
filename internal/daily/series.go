// Package daily turns raw timestamped health samples into calendar-day
// series and computes per-metric summaries over them.
package daily

import (
	"sort"
	"time"
)

// Sample is one raw reading from the health store.
type Sample struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// Point is one aggregated value for one calendar day. Day is start-of-day
// in the location the series was built with.
type Point struct {
	Day   time.Time `json:"day"`
	Value float64   `json:"value"`
}

// Series is an ordered sequence of daily points for one metric: sorted
// ascending by day, at most one point per day. Series are built fresh on
// every fetch and replaced wholesale, never mutated in place.
type Series []Point

// FilterZero returns the points with Value > 0. Used for metrics where a
// zero daily value is the no-data sentinel (weight, BMI, body fat).
func (s Series) FilterZero() Series {
	out := make(Series, 0, len(s))
	for _, p := range s {
		if p.Value > 0 {
			out = append(out, p)
		}
	}
	return out
}

// DayStart truncates t to the start of its calendar day in loc.
func DayStart(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}

// DayEnd returns 23:59:59 of t's calendar day in loc.
func DayEnd(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 23, 59, 59, 0, loc)
}

func sortSeries(s Series) {
	sort.Slice(s, func(i, j int) bool { return s[i].Day.Before(s[j].Day) })
}
