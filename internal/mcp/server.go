// Package mcp exposes the daily-metrics core to MCP clients.
package mcp

import (
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/Foia65/healthtogo/internal/fetch"
	"github.com/Foia65/healthtogo/internal/metric"
	"github.com/Foia65/healthtogo/internal/store"
)

// New creates an MCP server with all tools registered.
func New(st store.SampleStore, loc *time.Location, premium bool, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("HealthToGo", version,
		server.WithToolCapabilities(false),
		server.WithInstructions("Health ToGo daily metrics server. Query per-day health metric series, summaries, and paired blood pressure readings, or export them as CSV."),
	)

	h := &handlers{st: st, loc: loc, premium: premium, log: log, fetchers: make(map[string]*fetch.Fetcher)}
	for _, id := range metric.IDs() {
		h.fetchers[id] = fetch.New(st, loc, log)
	}
	h.fetchers[bloodPressureKey] = fetch.New(st, loc, log)

	s.AddTools(
		server.ServerTool{Tool: toolListMetrics, Handler: h.listMetrics},
		server.ServerTool{Tool: toolGetDailySeries, Handler: h.getDailySeries},
		server.ServerTool{Tool: toolGetSummary, Handler: h.getSummary},
		server.ServerTool{Tool: toolGetBloodPressure, Handler: h.getBloodPressure},
		server.ServerTool{Tool: toolExportCSV, Handler: h.exportCSV},
	)

	return s
}

const bloodPressureKey = "blood_pressure"

// handlers holds dependencies for MCP tool handlers.
type handlers struct {
	st       store.SampleStore
	loc      *time.Location
	premium  bool
	log      *slog.Logger
	fetchers map[string]*fetch.Fetcher
}
