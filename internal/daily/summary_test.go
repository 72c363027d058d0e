package daily

import (
	"testing"
	"time"

	"github.com/Foia65/healthtogo/internal/metric"
)

// TestSummarizeCumulative verifies the total includes zero days while the
// average divides by active days only: [1000, 0, 2000] totals 3000 but
// averages 1500.
func TestSummarizeCumulative(t *testing.T) {
	s := Series{
		{Day: day(t, "2026-03-01"), Value: 1000},
		{Day: day(t, "2026-03-02"), Value: 0},
		{Day: day(t, "2026-03-03"), Value: 2000},
	}

	sum := Summarize(s, metric.Cumulative, "Mar 1, 2026 to Mar 3, 2026")

	if sum.Total == nil || *sum.Total != 3000 {
		t.Fatalf("Total = %v, want 3000", sum.Total)
	}
	if sum.ActiveDays != 2 {
		t.Errorf("ActiveDays = %d, want 2", sum.ActiveDays)
	}
	if sum.AvgDaily != 1500 {
		t.Errorf("AvgDaily = %v, want 1500", sum.AvgDaily)
	}
	if sum.Min != nil || sum.Max != nil {
		t.Errorf("Min/Max = %v/%v, want nil for cumulative", sum.Min, sum.Max)
	}
}

// TestSummarizeDiscrete verifies min, max, and average skip zero-value
// points for discrete metrics.
func TestSummarizeDiscrete(t *testing.T) {
	s := Series{
		{Day: day(t, "2026-03-01"), Value: 72},
		{Day: day(t, "2026-03-02"), Value: 0},
		{Day: day(t, "2026-03-03"), Value: 68},
		{Day: day(t, "2026-03-04"), Value: 80},
	}

	sum := Summarize(s, metric.Discrete, AllDataLabel)

	if sum.Total != nil {
		t.Errorf("Total = %v, want nil for discrete", sum.Total)
	}
	if sum.ActiveDays != 3 {
		t.Errorf("ActiveDays = %d, want 3", sum.ActiveDays)
	}
	if !approxEqual(sum.AvgDaily, (72+68+80)/3.0) {
		t.Errorf("AvgDaily = %v, want %v", sum.AvgDaily, (72+68+80)/3.0)
	}
	if sum.Min == nil || *sum.Min != 68 {
		t.Errorf("Min = %v, want 68", sum.Min)
	}
	if sum.Max == nil || *sum.Max != 80 {
		t.Errorf("Max = %v, want 80", sum.Max)
	}
}

// TestSummarizeEmpty verifies the zero-data summaries: no active days, no
// optional stats beyond the cumulative total of zero.
func TestSummarizeEmpty(t *testing.T) {
	cum := Summarize(Series{}, metric.Cumulative, AllDataLabel)
	if cum.Total == nil || *cum.Total != 0 {
		t.Errorf("cumulative Total = %v, want 0", cum.Total)
	}
	if cum.ActiveDays != 0 || cum.AvgDaily != 0 {
		t.Errorf("cumulative ActiveDays/AvgDaily = %d/%v, want 0/0", cum.ActiveDays, cum.AvgDaily)
	}

	disc := Summarize(Series{}, metric.Discrete, AllDataLabel)
	if disc.Total != nil || disc.Min != nil || disc.Max != nil {
		t.Errorf("discrete Total/Min/Max = %v/%v/%v, want all nil", disc.Total, disc.Min, disc.Max)
	}
	if disc.ActiveDays != 0 || disc.AvgDaily != 0 {
		t.Errorf("discrete ActiveDays/AvgDaily = %d/%v, want 0/0", disc.ActiveDays, disc.AvgDaily)
	}
}

// TestSummarizeAllZero verifies a series of only zero points behaves like
// an empty one for the discrete stats.
func TestSummarizeAllZero(t *testing.T) {
	s := Series{
		{Day: day(t, "2026-03-01"), Value: 0},
		{Day: day(t, "2026-03-02"), Value: 0},
	}

	sum := Summarize(s, metric.Discrete, AllDataLabel)

	if sum.ActiveDays != 0 {
		t.Errorf("ActiveDays = %d, want 0", sum.ActiveDays)
	}
	if sum.Min != nil || sum.Max != nil {
		t.Errorf("Min/Max = %v/%v, want nil", sum.Min, sum.Max)
	}
}

// TestRangeLabel verifies both label forms: the all-time literal and the
// bounded "<start> to <end>" medium date style.
func TestRangeLabel(t *testing.T) {
	start := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)

	if got := RangeLabel(start, end, true); got != "All available data" {
		t.Errorf("all-time label = %q, want %q", got, "All available data")
	}
	if got := RangeLabel(start, end, false); got != "Jan 2, 2026 to Feb 14, 2026" {
		t.Errorf("bounded label = %q, want %q", got, "Jan 2, 2026 to Feb 14, 2026")
	}
}
