// Package fetch resolves a metric and date range into a daily series,
// choosing between the store's bounded statistics path and client-side
// normalization of all raw samples.
package fetch

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Foia65/healthtogo/internal/daily"
	"github.com/Foia65/healthtogo/internal/metric"
	"github.com/Foia65/healthtogo/internal/store"
)

// ErrFetchInFlight is returned when a fetch is requested while another is
// outstanding on the same Fetcher. New requests are dropped, not queued.
var ErrFetchInFlight = errors.New("fetch already in flight")

// DateRange is a resolved fetch window. When AllTime is set, Start and End
// are ignored and the adapter takes the raw-sample path instead of the
// bounded statistics query.
type DateRange struct {
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	AllTime bool      `json:"all_time"`
}

// Label returns the human-readable label for the range.
func (r DateRange) Label() string {
	return daily.RangeLabel(r.Start, r.End, r.AllTime)
}

// LastDays returns a bounded range covering today and the previous n-1
// days, the default window the app opens with.
func LastDays(n int, loc *time.Location) DateRange {
	now := time.Now().In(loc)
	return DateRange{
		Start: daily.DayStart(now.AddDate(0, 0, -(n-1)), loc),
		End:   daily.DayEnd(now, loc),
	}
}

// Fetcher adapts the external store into daily series. One fetch may be in
// flight at a time; the guard drops concurrent requests rather than
// queueing or cancelling. No retries, no fallback between modes.
type Fetcher struct {
	store store.SampleStore
	loc   *time.Location
	log   *slog.Logger
	busy  atomic.Bool
}

// New creates a Fetcher resolving calendar days in loc.
func New(st store.SampleStore, loc *time.Location, log *slog.Logger) *Fetcher {
	return &Fetcher{store: st, loc: loc, log: log}
}

// Fetch returns the daily series for one metric over the range.
//
// Bounded mode asks the store for day-bucketed aggregates: one point per
// calendar day, with explicit zero points for empty days. All-time mode
// pulls every raw sample and normalizes locally, producing a sparse series
// with no entry for empty days. The two paths deliberately differ in
// zero-filling; unifying them would silently change exported totals.
func (f *Fetcher) Fetch(ctx context.Context, metricID string, rng DateRange) (daily.Series, error) {
	if !f.busy.CompareAndSwap(false, true) {
		return nil, ErrFetchInFlight
	}
	defer f.busy.Store(false)

	return f.fetchSeries(ctx, metricID, rng)
}

// FetchBloodPressure fetches the systolic and diastolic series
// concurrently and joins them by day. Both halves must succeed; if either
// fails, the failure is surfaced and no partial pairing is produced.
func (f *Fetcher) FetchBloodPressure(ctx context.Context, rng DateRange) ([]daily.BPPoint, error) {
	if !f.busy.CompareAndSwap(false, true) {
		return nil, ErrFetchInFlight
	}
	defer f.busy.Store(false)

	var (
		wg                  sync.WaitGroup
		systolic, diastolic daily.Series
		sysErr, diaErr      error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		systolic, sysErr = f.fetchSeries(ctx, metric.BPSystolic, rng)
	}()
	go func() {
		defer wg.Done()
		diastolic, diaErr = f.fetchSeries(ctx, metric.BPDiastolic, rng)
	}()
	wg.Wait()

	if sysErr != nil {
		return nil, sysErr
	}
	if diaErr != nil {
		return nil, diaErr
	}

	return daily.PairBloodPressure(systolic, diastolic), nil
}

func (f *Fetcher) fetchSeries(ctx context.Context, metricID string, rng DateRange) (daily.Series, error) {
	m, ok := metric.Lookup(metricID)
	if !ok {
		return nil, store.ErrMetricUnsupported
	}

	if rng.AllTime {
		samples, err := f.store.QueryAllSamples(ctx, metricID)
		if err != nil {
			return nil, err
		}
		series := daily.Normalize(samples, m, f.loc)
		f.log.Debug("all-time fetch", "metric", metricID, "samples", len(samples), "days", len(series))
		return series, nil
	}

	buckets, err := f.store.QueryDayBuckets(ctx, metricID, rng.Start, rng.End, m.Kind, f.loc)
	if err != nil {
		return nil, err
	}

	// The store returns raw bucket values; the transform applies exactly
	// once, here, after aggregation.
	series := make(daily.Series, len(buckets))
	for i, p := range buckets {
		series[i] = daily.Point{Day: p.Day, Value: m.Transform(p.Value)}
	}
	f.log.Debug("bounded fetch", "metric", metricID, "days", len(series))
	return series, nil
}
