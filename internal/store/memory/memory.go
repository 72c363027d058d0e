// Package memory implements an in-memory health-sample store for
// development and testing.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Foia65/healthtogo/internal/daily"
	"github.com/Foia65/healthtogo/internal/metric"
	"github.com/Foia65/healthtogo/internal/store"
)

// DB is a mutex-guarded in-memory store.
type DB struct {
	mu      sync.Mutex
	samples map[string][]daily.Sample
	denied  map[string]bool

	// Fail, when set, is returned unwrapped by every query. Lets tests
	// exercise the failure taxonomy.
	Fail error
}

var (
	_ store.SampleStore  = (*DB)(nil)
	_ store.SampleWriter = (*DB)(nil)
)

// New creates an empty in-memory store with all metrics granted.
func New() *DB {
	return &DB{
		samples: make(map[string][]daily.Sample),
		denied:  make(map[string]bool),
	}
}

// QueryDayBuckets aggregates samples into one point per calendar day over
// the window, zero-filling empty days, mirroring the platform statistics
// query the real store exposes.
func (db *DB) QueryDayBuckets(ctx context.Context, metricID string, start, end time.Time, kind metric.Kind, loc *time.Location) (daily.Series, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.Fail != nil {
		return nil, db.Fail
	}

	sums := make(map[time.Time]float64)
	counts := make(map[time.Time]int)
	for _, s := range db.samples[metricID] {
		day := daily.DayStart(s.Time, loc)
		sums[day] += s.Value
		counts[day]++
	}

	var result daily.Series
	endDay := daily.DayStart(end, loc)
	for day := daily.DayStart(start, loc); !day.After(endDay); day = day.AddDate(0, 0, 1) {
		v := sums[day]
		if kind == metric.Discrete && counts[day] > 0 {
			v /= float64(counts[day])
		}
		result = append(result, daily.Point{Day: day, Value: v})
	}
	if result == nil {
		return nil, store.ErrNoResults
	}
	return result, nil
}

// QueryAllSamples returns every sample for the metric sorted ascending.
func (db *DB) QueryAllSamples(ctx context.Context, metricID string) ([]daily.Sample, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.Fail != nil {
		return nil, db.Fail
	}

	src := db.samples[metricID]
	out := make([]daily.Sample, len(src))
	copy(out, src)
	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out, nil
}

// Authorize denies access for metrics marked via SetGrant(false).
func (db *DB) Authorize(ctx context.Context, metricIDs []string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.Fail != nil {
		return db.Fail
	}
	for _, id := range metricIDs {
		if db.denied[id] {
			return store.ErrAuthorizationDenied
		}
	}
	return nil
}

// InsertSamples appends samples for a metric.
func (db *DB) InsertSamples(ctx context.Context, metricID string, samples []daily.Sample) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.samples[metricID] = append(db.samples[metricID], samples...)
	return int64(len(samples)), nil
}

// SetGrant enables or disables read access for a metric.
func (db *DB) SetGrant(ctx context.Context, metricID string, granted bool) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.denied[metricID] = !granted
	return nil
}
