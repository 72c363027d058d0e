// Package export renders daily series as CSV documents and writes them to
// the export directory.
package export

import (
	"strconv"
	"strings"
	"time"

	"github.com/Foia65/healthtogo/internal/daily"
	"github.com/Foia65/healthtogo/internal/fetch"
)

const (
	rowDateLayout      = "2006-01-02"
	filenameDateLayout = "20060102"
)

// CSV renders a single-value daily series. Header is "Date,<label>"; one
// row per point with the date as YYYY-MM-DD and the value with native
// precision (integral values render without decimals). No escaping is
// needed: every field is numeric or a fixed-format date.
func CSV(series daily.Series, metricLabel string) string {
	var b strings.Builder
	b.WriteString("Date,")
	b.WriteString(metricLabel)
	b.WriteString("\n")

	for _, p := range series {
		b.WriteString(p.Day.Format(rowDateLayout))
		b.WriteString(",")
		b.WriteString(formatValue(p.Value))
		b.WriteString("\n")
	}
	return b.String()
}

// BloodPressureCSV renders paired readings. Rows without any data are
// skipped; a missing half renders as an empty field, not "0".
func BloodPressureCSV(points []daily.BPPoint) string {
	var b strings.Builder
	b.WriteString("Date,Systolic,Diastolic\n")

	for _, p := range points {
		if !p.HasData() {
			continue
		}
		b.WriteString(p.Day.Format(rowDateLayout))
		b.WriteString(",")
		if p.Systolic != nil {
			b.WriteString(strconv.Itoa(*p.Systolic))
		}
		b.WriteString(",")
		if p.Diastolic != nil {
			b.WriteString(strconv.Itoa(*p.Diastolic))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Filename builds the export filename: <Label>_<yyyyMMdd>_to_<yyyyMMdd>.csv,
// with "all" in place of the dates for an all-time export.
func Filename(label string, rng fetch.DateRange) string {
	if rng.AllTime {
		return label + "_all.csv"
	}
	return label + "_" + rng.Start.Format(filenameDateLayout) +
		"_to_" + rng.End.Format(filenameDateLayout) + ".csv"
}

// ParseCSV parses a single-value CSV document back into a series. Used by
// the CLI to verify round-trips; the header row is skipped.
func ParseCSV(text string, loc *time.Location) (daily.Series, error) {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) <= 1 {
		return daily.Series{}, nil
	}

	series := make(daily.Series, 0, len(lines)-1)
	for _, line := range lines[1:] {
		dateStr, valStr, ok := strings.Cut(line, ",")
		if !ok {
			continue
		}
		day, err := time.ParseInLocation(rowDateLayout, dateStr, loc)
		if err != nil {
			return nil, err
		}
		v, err := strconv.ParseFloat(valStr, 64)
		if err != nil {
			return nil, err
		}
		series = append(series, daily.Point{Day: day, Value: v})
	}
	return series, nil
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
