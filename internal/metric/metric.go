// Package metric defines the fixed catalog of supported health metrics and
// how each one aggregates into a daily value.
package metric

import "fmt"

// Kind determines how raw samples collapse into one value per day.
type Kind int

const (
	// Cumulative metrics sum over a day (steps, distance, energy).
	Cumulative Kind = iota
	// Discrete metrics average over a day's readings (heart rate, weight).
	Discrete
)

func (k Kind) String() string {
	if k == Cumulative {
		return "cumulative"
	}
	return "discrete"
}

// Metric describes one supported metric: its aggregation semantics, display
// label, measurement unit, and any value transform applied after daily
// aggregation.
type Metric struct {
	ID    string
	Kind  Kind
	Label string
	Unit  string

	// Transform is applied once to each aggregated daily value. Identity
	// for every metric except body_fat_percentage, which the store reports
	// as a 0-1 fraction and we display as a percentage.
	Transform func(float64) float64

	// ZeroFiltered marks metrics where a zero daily value means "no
	// measurement that day" and the row is dropped before display and
	// export. Never set for cumulative metrics or heart rate, where zero
	// is a real value.
	ZeroFiltered bool
}

func identity(v float64) float64 { return v }

func percent(v float64) float64 { return v * 100 }

// Metric IDs. The set is fixed; there is no runtime registration.
const (
	Steps              = "steps"
	DistanceWalkingRun = "distance_walking_running"
	ActiveEnergy       = "active_energy_burned"
	BasalEnergy        = "basal_energy_burned"
	FlightsClimbed     = "flights_climbed"
	HeartRate          = "heart_rate"
	BodyMass           = "body_mass"
	Height             = "height"
	BodyMassIndex      = "body_mass_index"
	BodyFatPercentage  = "body_fat_percentage"
	BPSystolic         = "blood_pressure_systolic"
	BPDiastolic        = "blood_pressure_diastolic"
)

var catalog = []Metric{
	{ID: Steps, Kind: Cumulative, Label: "Steps", Unit: "count", Transform: identity},
	{ID: DistanceWalkingRun, Kind: Cumulative, Label: "Distance", Unit: "m", Transform: identity},
	{ID: ActiveEnergy, Kind: Cumulative, Label: "ActiveEnergy", Unit: "kcal", Transform: identity},
	{ID: BasalEnergy, Kind: Cumulative, Label: "BasalEnergy", Unit: "kcal", Transform: identity},
	{ID: FlightsClimbed, Kind: Cumulative, Label: "FlightsClimbed", Unit: "count", Transform: identity},
	{ID: HeartRate, Kind: Discrete, Label: "HeartRate", Unit: "bpm", Transform: identity},
	{ID: BodyMass, Kind: Discrete, Label: "Weight", Unit: "kg", Transform: identity, ZeroFiltered: true},
	{ID: Height, Kind: Discrete, Label: "Height", Unit: "m", Transform: identity},
	{ID: BodyMassIndex, Kind: Discrete, Label: "BMI", Unit: "count", Transform: identity, ZeroFiltered: true},
	{ID: BodyFatPercentage, Kind: Discrete, Label: "BodyFat", Unit: "%", Transform: percent, ZeroFiltered: true},
	{ID: BPSystolic, Kind: Discrete, Label: "Systolic", Unit: "mmHg", Transform: identity},
	{ID: BPDiastolic, Kind: Discrete, Label: "Diastolic", Unit: "mmHg", Transform: identity},
}

var byID = func() map[string]Metric {
	m := make(map[string]Metric, len(catalog))
	for _, md := range catalog {
		m[md.ID] = md
	}
	return m
}()

// Lookup returns the descriptor for a metric ID.
func Lookup(id string) (Metric, bool) {
	m, ok := byID[id]
	return m, ok
}

// MustLookup returns the descriptor for a metric ID and panics if the ID is
// unknown. The supported set is enumerated at compile time, so a miss is a
// programming error, not a runtime condition.
func MustLookup(id string) Metric {
	m, ok := byID[id]
	if !ok {
		panic(fmt.Sprintf("unknown metric %q", id))
	}
	return m
}

// All returns the full catalog in declaration order.
func All() []Metric {
	out := make([]Metric, len(catalog))
	copy(out, catalog)
	return out
}

// IDs returns every supported metric ID in declaration order.
func IDs() []string {
	out := make([]string, len(catalog))
	for i, m := range catalog {
		out[i] = m.ID
	}
	return out
}
