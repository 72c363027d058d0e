package mcp

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Foia65/healthtogo/internal/daily"
	"github.com/Foia65/healthtogo/internal/fetch"
	"github.com/Foia65/healthtogo/internal/metric"
	"github.com/Foia65/healthtogo/internal/store/memory"
)

func newTestHandlers(t *testing.T, db *memory.DB, premium bool) *handlers {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := &handlers{st: db, loc: time.UTC, premium: premium, log: log, fetchers: make(map[string]*fetch.Fetcher)}
	for _, id := range metric.IDs() {
		h.fetchers[id] = fetch.New(db, time.UTC, log)
	}
	h.fetchers[bloodPressureKey] = fetch.New(db, time.UTC, log)
	return h
}

func seededStore(t *testing.T) *memory.DB {
	t.Helper()
	db := memory.New()
	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	if _, err := db.InsertSamples(context.Background(), metric.Steps, []daily.Sample{{Time: ts, Value: 1000}}); err != nil {
		t.Fatalf("seeding: %v", err)
	}
	if _, err := db.InsertSamples(context.Background(), metric.BPSystolic, []daily.Sample{{Time: ts, Value: 120}}); err != nil {
		t.Fatalf("seeding: %v", err)
	}
	if _, err := db.InsertSamples(context.Background(), metric.BPDiastolic, []daily.Sample{{Time: ts, Value: 80}}); err != nil {
		t.Fatalf("seeding: %v", err)
	}
	return db
}

func toolRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content type = %T, want TextContent", result.Content[0])
	}
	return text.Text
}

// TestAllTimeToolsRequirePremium verifies that every tool taking a range
// denies all=true for non-premium configs instead of serving full history.
func TestAllTimeToolsRequirePremium(t *testing.T) {
	db := seededStore(t)
	h := newTestHandlers(t, db, false)
	args := map[string]any{"metric": metric.Steps, "all": true}

	tests := []struct {
		name string
		call func() (*mcp.CallToolResult, error)
	}{
		{"get_daily_series", func() (*mcp.CallToolResult, error) {
			return h.getDailySeries(context.Background(), toolRequest(args))
		}},
		{"get_summary", func() (*mcp.CallToolResult, error) {
			return h.getSummary(context.Background(), toolRequest(args))
		}},
		{"get_blood_pressure", func() (*mcp.CallToolResult, error) {
			return h.getBloodPressure(context.Background(), toolRequest(map[string]any{"all": true}))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.call()
			if err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if !result.IsError {
				t.Fatalf("result = %q, want premium denial", resultText(t, result))
			}
			if !strings.Contains(resultText(t, result), "premium") {
				t.Errorf("error = %q, want premium message", resultText(t, result))
			}
		})
	}
}

// TestAllTimeToolsWithPremium verifies the same calls succeed once the
// entitlement flag is set.
func TestAllTimeToolsWithPremium(t *testing.T) {
	db := seededStore(t)
	h := newTestHandlers(t, db, true)

	result, err := h.getDailySeries(context.Background(), toolRequest(map[string]any{"metric": metric.Steps, "all": true}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if result.IsError {
		t.Fatalf("result = %q, want success", resultText(t, result))
	}
	if !strings.Contains(resultText(t, result), daily.AllDataLabel) {
		t.Errorf("result = %q, want all-time range label", resultText(t, result))
	}
}

// TestBoundedToolsWithoutPremium verifies bounded ranges stay available to
// non-premium configs.
func TestBoundedToolsWithoutPremium(t *testing.T) {
	db := seededStore(t)
	h := newTestHandlers(t, db, false)

	result, err := h.getSummary(context.Background(), toolRequest(map[string]any{
		"metric": metric.Steps,
		"start":  "2026-03-01",
		"end":    "2026-03-02",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if result.IsError {
		t.Fatalf("result = %q, want success", resultText(t, result))
	}
}
