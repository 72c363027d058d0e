// Package store defines the boundary to the external health-sample store
// and the failure taxonomy every implementation reports through.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/Foia65/healthtogo/internal/daily"
	"github.com/Foia65/healthtogo/internal/metric"
)

// Store failures. These originate at the store boundary and propagate
// unmodified to callers; a failure is never converted to an empty success.
var (
	ErrStoreUnavailable    = errors.New("health store not available")
	ErrMetricUnsupported   = errors.New("data type not available")
	ErrAuthorizationDenied = errors.New("authorization denied")
	ErrNoResults           = errors.New("no results returned")
	ErrNoSamples           = errors.New("no data available")
)

// SampleStore is the read side of the external health store. It must
// support day-bucketed aggregate queries over a bounded window and
// unbounded raw-sample queries sorted ascending by timestamp.
type SampleStore interface {
	// QueryDayBuckets returns exactly one point per calendar day in
	// [start-of-day(start), end-of-day(end)], each holding the sum
	// (cumulative) or average (discrete) of that day's samples. Days with
	// no samples yield explicit zero-value points. Values are raw: no
	// metric transform is applied by the store.
	QueryDayBuckets(ctx context.Context, metricID string, start, end time.Time, kind metric.Kind, loc *time.Location) (daily.Series, error)

	// QueryAllSamples returns every raw sample ever recorded for the
	// metric, sorted ascending by timestamp.
	QueryAllSamples(ctx context.Context, metricID string) ([]daily.Sample, error)

	// Authorize checks read access for the given metric IDs, returning
	// ErrAuthorizationDenied if any of them lacks a grant.
	Authorize(ctx context.Context, metricIDs []string) error
}

// SampleWriter is the seeding side of the store. The fetch/aggregation
// core is strictly read-only; only the ingest path writes.
type SampleWriter interface {
	// InsertSamples appends raw samples for a metric. Returns the number
	// actually inserted (duplicates skipped).
	InsertSamples(ctx context.Context, metricID string, samples []daily.Sample) (int64, error)

	// SetGrant enables or disables read access for a metric.
	SetGrant(ctx context.Context, metricID string, granted bool) error
}
