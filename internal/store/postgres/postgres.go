// Package postgres implements the health-sample store on PostgreSQL.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Foia65/healthtogo/internal/daily"
	"github.com/Foia65/healthtogo/internal/metric"
	"github.com/Foia65/healthtogo/internal/store"
)

// DB wraps a pgxpool.Pool and implements store.SampleStore and
// store.SampleWriter.
type DB struct {
	Pool *pgxpool.Pool
}

var (
	_ store.SampleStore  = (*DB)(nil)
	_ store.SampleWriter = (*DB)(nil)
)

// New creates a new DB with a connection pool. A failed ping is reported
// as ErrStoreUnavailable.
func New(ctx context.Context, dsn string) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %v", store.ErrStoreUnavailable, err)
	}
	return &DB{Pool: pool}, nil
}

// Close closes the connection pool.
func (db *DB) Close() {
	db.Pool.Close()
}

// RunMigrations applies all pending migrations from the given directory.
func RunMigrations(dsn, migrationsPath string) error {
	m, err := migrate.New("file://"+migrationsPath, dsn)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// QueryDayBuckets returns one aggregated point per calendar day over the
// bounded window, including zero points for empty days. Days are resolved
// in loc so a sample counts toward the local day it fell on.
func (db *DB) QueryDayBuckets(ctx context.Context, metricID string, start, end time.Time, kind metric.Kind, loc *time.Location) (daily.Series, error) {
	agg := "AVG"
	if kind == metric.Cumulative {
		agg = "SUM"
	}

	startDay := daily.DayStart(start, loc).Format("2006-01-02")
	endDay := daily.DayStart(end, loc).Format("2006-01-02")

	query := fmt.Sprintf(
		`SELECT d::date AS day, COALESCE(%s(s.value), 0) AS value
		 FROM generate_series($1::date, $2::date, interval '1 day') AS d
		 LEFT JOIN samples s
		   ON s.metric_name = $3
		  AND (s.sampled_at AT TIME ZONE $4)::date = d::date
		 GROUP BY day
		 ORDER BY day ASC`, agg)

	rows, err := db.Pool.Query(ctx, query, startDay, endDay, metricID, loc.String())
	if err != nil {
		return nil, fmt.Errorf("querying day buckets: %w", err)
	}
	defer rows.Close()

	var result daily.Series
	for rows.Next() {
		var day time.Time
		var value float64
		if err := rows.Scan(&day, &value); err != nil {
			return nil, fmt.Errorf("scanning day bucket: %w", err)
		}
		result = append(result, daily.Point{
			Day:   time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc),
			Value: value,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if result == nil {
		return nil, store.ErrNoResults
	}
	return result, nil
}

// QueryAllSamples returns every raw sample recorded for the metric,
// sorted ascending by timestamp.
func (db *DB) QueryAllSamples(ctx context.Context, metricID string) ([]daily.Sample, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT sampled_at, value FROM samples
		 WHERE metric_name = $1
		 ORDER BY sampled_at ASC`,
		metricID)
	if err != nil {
		return nil, fmt.Errorf("querying samples: %w", err)
	}
	defer rows.Close()

	var result []daily.Sample
	for rows.Next() {
		var s daily.Sample
		if err := rows.Scan(&s.Time, &s.Value); err != nil {
			return nil, fmt.Errorf("scanning sample: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// Authorize verifies that every requested metric has an enabled grant.
func (db *DB) Authorize(ctx context.Context, metricIDs []string) error {
	rows, err := db.Pool.Query(ctx,
		`SELECT metric_name FROM metric_grants WHERE granted AND metric_name = ANY($1)`,
		metricIDs)
	if err != nil {
		return fmt.Errorf("querying grants: %w", err)
	}
	defer rows.Close()

	granted := make(map[string]bool, len(metricIDs))
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("scanning grant: %w", err)
		}
		granted[name] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, id := range metricIDs {
		if !granted[id] {
			return fmt.Errorf("%w: %s", store.ErrAuthorizationDenied, id)
		}
	}
	return nil
}

// InsertSamples batch-inserts raw samples. Duplicate (metric, timestamp)
// pairs are skipped via ON CONFLICT DO NOTHING; returns the number
// actually inserted.
func (db *DB) InsertSamples(ctx context.Context, metricID string, samples []daily.Sample) (int64, error) {
	if len(samples) == 0 {
		return 0, nil
	}

	query := `INSERT INTO samples (metric_name, sampled_at, value) VALUES `
	args := make([]any, 0, len(samples)*3)
	for i, s := range samples {
		if i > 0 {
			query += ","
		}
		base := i * 3
		query += fmt.Sprintf("($%d,$%d,$%d)", base+1, base+2, base+3)
		args = append(args, metricID, s.Time, s.Value)
	}
	query += " ON CONFLICT DO NOTHING"

	tag, err := db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("inserting samples: %w", err)
	}
	return tag.RowsAffected(), nil
}

// SetGrant enables or disables read access for a metric.
func (db *DB) SetGrant(ctx context.Context, metricID string, granted bool) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO metric_grants (metric_name, granted) VALUES ($1, $2)
		 ON CONFLICT (metric_name) DO UPDATE SET granted = EXCLUDED.granted`,
		metricID, granted)
	if err != nil {
		return fmt.Errorf("setting grant: %w", err)
	}
	return nil
}
