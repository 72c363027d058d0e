// Package ingest seeds the sample store from exported health data. The
// payload format follows the Health Auto Export REST shape: named metrics,
// each with timestamped quantity data points.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Foia65/healthtogo/internal/daily"
	"github.com/Foia65/healthtogo/internal/metric"
	"github.com/Foia65/healthtogo/internal/store"
)

const (
	timeLayout     = "2006-01-02 15:04:05 -0700"
	dateOnlyLayout = "2006-01-02"
)

// SampleTime handles the export date format "2006-01-02 15:04:05 -0700",
// falling back to date-only "2006-01-02".
type SampleTime struct {
	time.Time
}

func (t *SampleTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.Parse(timeLayout, s)
	if err == nil {
		t.Time = parsed
		return nil
	}
	parsed, err2 := time.Parse(dateOnlyLayout, s)
	if err2 == nil {
		t.Time = parsed
		return nil
	}
	return fmt.Errorf("cannot parse sample time %q: %w", s, err)
}

func (t SampleTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(timeLayout))
}

// Payload is the top-level ingest JSON structure.
type Payload struct {
	Metrics []MetricSamples `json:"metrics"`
}

// MetricSamples is one metric's batch of data points.
type MetricSamples struct {
	Name string        `json:"name"`
	Data []SamplePoint `json:"data"`
}

// SamplePoint is a single timestamped quantity. Body-fat points carry the
// raw 0-1 fraction; the percentage transform lives on the read side so it
// applies exactly once.
type SamplePoint struct {
	Date SampleTime `json:"date"`
	Qty  float64    `json:"qty"`
}

// Result holds the outcome of an ingest operation.
type Result struct {
	SamplesReceived int      `json:"samples_received"`
	SamplesInserted int64    `json:"samples_inserted"`
	SamplesSkipped  int64    `json:"samples_skipped"`
	RejectedNames   []string `json:"rejected_names,omitempty"`
	Message         string   `json:"message,omitempty"`
}

// Provider writes ingest payloads into the sample store.
type Provider struct {
	writer store.SampleWriter
	log    *slog.Logger
}

// NewProvider creates a new ingest provider.
func NewProvider(w store.SampleWriter, log *slog.Logger) *Provider {
	return &Provider{writer: w, log: log}
}

// Ingest stores the payload's samples, rejecting metrics outside the
// supported catalog.
func (p *Provider) Ingest(ctx context.Context, payload *Payload) (*Result, error) {
	result := &Result{}

	for _, m := range payload.Metrics {
		if _, ok := metric.Lookup(m.Name); !ok {
			result.RejectedNames = append(result.RejectedNames, m.Name)
			continue
		}

		samples := make([]daily.Sample, 0, len(m.Data))
		for _, dp := range m.Data {
			result.SamplesReceived++
			samples = append(samples, daily.Sample{Time: dp.Date.Time, Value: dp.Qty})
		}

		inserted, err := p.writer.InsertSamples(ctx, m.Name, samples)
		if err != nil {
			return result, fmt.Errorf("inserting %s samples: %w", m.Name, err)
		}
		result.SamplesInserted += inserted
		result.SamplesSkipped += int64(len(samples)) - inserted
	}

	if len(result.RejectedNames) > 0 {
		result.Message = fmt.Sprintf(
			"Some metrics were rejected because they are not supported: %v. "+
				"Check GET /api/v1/metrics for the full list.",
			result.RejectedNames)
	}

	return result, nil
}
