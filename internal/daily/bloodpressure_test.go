package daily

import (
	"testing"
)

// TestPairBloodPressure verifies the outer join: a day present in both
// series pairs up, a day in only one keeps the other half nil, and the
// output sorts ascending by day.
func TestPairBloodPressure(t *testing.T) {
	systolic := Series{
		{Day: day(t, "2026-03-01"), Value: 120.4},
	}
	diastolic := Series{
		{Day: day(t, "2026-03-01"), Value: 79.6},
		{Day: day(t, "2026-03-02"), Value: 75},
	}

	got := PairBloodPressure(systolic, diastolic)

	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}

	p1 := got[0]
	if p1.Systolic == nil || *p1.Systolic != 120 {
		t.Errorf("day 1 systolic = %v, want 120 (rounded)", p1.Systolic)
	}
	if p1.Diastolic == nil || *p1.Diastolic != 80 {
		t.Errorf("day 1 diastolic = %v, want 80 (rounded)", p1.Diastolic)
	}
	if got := p1.FormattedReading(); got != "120/80" {
		t.Errorf("day 1 reading = %q, want %q", got, "120/80")
	}

	p2 := got[1]
	if p2.Systolic != nil {
		t.Errorf("day 2 systolic = %v, want nil", p2.Systolic)
	}
	if got := p2.FormattedReading(); got != "??/75" {
		t.Errorf("day 2 reading = %q, want %q", got, "??/75")
	}

	if !p1.HasData() || !p2.HasData() {
		t.Error("both points should report HasData")
	}
}

// TestPairKeepsEmptyDays verifies a day whose both halves are zero stays in
// the joined result; HasData is how consumers filter it out later.
func TestPairKeepsEmptyDays(t *testing.T) {
	systolic := Series{{Day: day(t, "2026-03-01"), Value: 0}}
	diastolic := Series{{Day: day(t, "2026-03-01"), Value: 0}}

	got := PairBloodPressure(systolic, diastolic)

	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].HasData() {
		t.Error("zero/zero day should not report HasData")
	}
	if r := got[0].FormattedReading(); r != "No data" {
		t.Errorf("reading = %q, want %q", r, "No data")
	}
}

// TestFormattedReading covers the four rendering cases.
func TestFormattedReading(t *testing.T) {
	sys, dia := 118, 76

	tests := []struct {
		name  string
		point BPPoint
		want  string
	}{
		{"both", BPPoint{Systolic: &sys, Diastolic: &dia}, "118/76"},
		{"systolic only", BPPoint{Systolic: &sys}, "118/??"},
		{"diastolic only", BPPoint{Diastolic: &dia}, "??/76"},
		{"neither", BPPoint{}, "No data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.point.FormattedReading(); got != tt.want {
				t.Errorf("FormattedReading() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestSummarizeBloodPressure verifies per-component stats over days with
// data, including a half-reading day counting toward only its component.
func TestSummarizeBloodPressure(t *testing.T) {
	s1, s2 := 120, 130
	d1 := 80

	points := []BPPoint{
		{Day: day(t, "2026-03-01"), Systolic: &s1, Diastolic: &d1},
		{Day: day(t, "2026-03-02"), Systolic: &s2},
		{Day: day(t, "2026-03-03")},
	}

	sum := SummarizeBloodPressure(points, AllDataLabel)

	if sum.TotalReadings != 2 {
		t.Errorf("TotalReadings = %d, want 2 (no-data day excluded)", sum.TotalReadings)
	}
	if sum.AvgSystolic == nil || *sum.AvgSystolic != 125 {
		t.Errorf("AvgSystolic = %v, want 125", sum.AvgSystolic)
	}
	if sum.MinSystolic == nil || *sum.MinSystolic != 120 {
		t.Errorf("MinSystolic = %v, want 120", sum.MinSystolic)
	}
	if sum.MaxSystolic == nil || *sum.MaxSystolic != 130 {
		t.Errorf("MaxSystolic = %v, want 130", sum.MaxSystolic)
	}
	if sum.AvgDiastolic == nil || *sum.AvgDiastolic != 80 {
		t.Errorf("AvgDiastolic = %v, want 80", sum.AvgDiastolic)
	}
}

// TestSummarizeBloodPressureRoundsAverage verifies the integer average
// rounds to nearest instead of truncating: mean 125.5 reports as 126.
func TestSummarizeBloodPressureRoundsAverage(t *testing.T) {
	s1, s2 := 120, 131

	points := []BPPoint{
		{Day: day(t, "2026-03-01"), Systolic: &s1},
		{Day: day(t, "2026-03-02"), Systolic: &s2},
	}

	sum := SummarizeBloodPressure(points, AllDataLabel)

	if sum.AvgSystolic == nil || *sum.AvgSystolic != 126 {
		t.Errorf("AvgSystolic = %v, want 126", sum.AvgSystolic)
	}
}

// TestSummarizeBloodPressureEmpty verifies all optional stats stay nil with
// no readings.
func TestSummarizeBloodPressureEmpty(t *testing.T) {
	sum := SummarizeBloodPressure(nil, AllDataLabel)

	if sum.TotalReadings != 0 {
		t.Errorf("TotalReadings = %d, want 0", sum.TotalReadings)
	}
	if sum.AvgSystolic != nil || sum.AvgDiastolic != nil {
		t.Errorf("averages = %v/%v, want nil", sum.AvgSystolic, sum.AvgDiastolic)
	}
}
