package daily

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// BPPoint pairs the systolic and diastolic readings of one calendar day.
// Blood pressure is the one metric that cannot be a single value per day,
// so two independently fetched series are joined by day. Either field may
// be absent when only one series had data for that day.
type BPPoint struct {
	Day       time.Time `json:"day"`
	Systolic  *int      `json:"systolic,omitempty"`
	Diastolic *int      `json:"diastolic,omitempty"`
}

// HasData reports whether at least one field is a positive reading.
func (p BPPoint) HasData() bool {
	return (p.Systolic != nil && *p.Systolic > 0) || (p.Diastolic != nil && *p.Diastolic > 0)
}

// FormattedReading renders the point as "sys/dia", substituting "??" for a
// missing or non-positive half, or "No data" when neither is present.
func (p BPPoint) FormattedReading() string {
	sysOK := p.Systolic != nil && *p.Systolic > 0
	diaOK := p.Diastolic != nil && *p.Diastolic > 0
	switch {
	case sysOK && diaOK:
		return fmt.Sprintf("%d/%d", *p.Systolic, *p.Diastolic)
	case sysOK:
		return fmt.Sprintf("%d/??", *p.Systolic)
	case diaOK:
		return fmt.Sprintf("??/%d", *p.Diastolic)
	default:
		return "No data"
	}
}

// PairBloodPressure outer-joins two daily series on day, rounding each
// value to the nearest integer. A day present in only one series yields a
// point with the other field nil. The result keeps days that fail HasData;
// filtering happens at the display and export consumers.
func PairBloodPressure(systolic, diastolic Series) []BPPoint {
	byDay := make(map[time.Time]*BPPoint)

	for _, p := range systolic {
		v := int(math.Round(p.Value))
		bp, ok := byDay[p.Day]
		if !ok {
			bp = &BPPoint{Day: p.Day}
			byDay[p.Day] = bp
		}
		bp.Systolic = &v
	}
	for _, p := range diastolic {
		v := int(math.Round(p.Value))
		bp, ok := byDay[p.Day]
		if !ok {
			bp = &BPPoint{Day: p.Day}
			byDay[p.Day] = bp
		}
		bp.Diastolic = &v
	}

	out := make([]BPPoint, 0, len(byDay))
	for _, bp := range byDay {
		out = append(out, *bp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out
}

// BPSummary aggregates paired readings: per-component average, min, and
// max over days that have that component, plus the count of days with any
// reading at all.
type BPSummary struct {
	AvgSystolic   *int   `json:"avg_systolic,omitempty"`
	AvgDiastolic  *int   `json:"avg_diastolic,omitempty"`
	MinSystolic   *int   `json:"min_systolic,omitempty"`
	MaxSystolic   *int   `json:"max_systolic,omitempty"`
	MinDiastolic  *int   `json:"min_diastolic,omitempty"`
	MaxDiastolic  *int   `json:"max_diastolic,omitempty"`
	TotalReadings int    `json:"total_readings"`
	DateRange     string `json:"date_range"`
}

// SummarizeBloodPressure computes per-component stats over the points that
// have data. Components are summarized independently: a day with only a
// systolic value still contributes to the systolic average.
func SummarizeBloodPressure(points []BPPoint, rangeLabel string) BPSummary {
	sum := BPSummary{DateRange: rangeLabel}

	var sysVals, diaVals []int
	for _, p := range points {
		if !p.HasData() {
			continue
		}
		sum.TotalReadings++
		if p.Systolic != nil {
			sysVals = append(sysVals, *p.Systolic)
		}
		if p.Diastolic != nil {
			diaVals = append(diaVals, *p.Diastolic)
		}
	}

	if len(sysVals) > 0 {
		avg, min, max := intStats(sysVals)
		sum.AvgSystolic, sum.MinSystolic, sum.MaxSystolic = &avg, &min, &max
	}
	if len(diaVals) > 0 {
		avg, min, max := intStats(diaVals)
		sum.AvgDiastolic, sum.MinDiastolic, sum.MaxDiastolic = &avg, &min, &max
	}
	return sum
}

func intStats(vals []int) (avg, min, max int) {
	min, max = vals[0], vals[0]
	total := 0
	for _, v := range vals {
		total += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	avg = int(math.Round(float64(total) / float64(len(vals))))
	return avg, min, max
}
