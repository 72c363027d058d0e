package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Foia65/healthtogo/internal/daily"
	"github.com/Foia65/healthtogo/internal/export"
	"github.com/Foia65/healthtogo/internal/fetch"
	"github.com/Foia65/healthtogo/internal/metric"
)

var errAllDataPremium = errors.New("fetching all historical data is only available for premium users")

// parseRange builds the fetch window from tool arguments: all=true takes
// the all-time path and is a premium feature, otherwise start/end default
// to the last 7 days.
func (h *handlers) parseRange(req mcp.CallToolRequest) (fetch.DateRange, error) {
	if req.GetBool("all", false) {
		if !h.premium {
			return fetch.DateRange{}, errAllDataPremium
		}
		return fetch.DateRange{AllTime: true}, nil
	}

	rng := fetch.LastDays(7, h.loc)
	if v := req.GetString("start", ""); v != "" {
		t, err := time.ParseInLocation("2006-01-02", v, h.loc)
		if err != nil {
			return fetch.DateRange{}, err
		}
		rng.Start = daily.DayStart(t, h.loc)
	}
	if v := req.GetString("end", ""); v != "" {
		t, err := time.ParseInLocation("2006-01-02", v, h.loc)
		if err != nil {
			return fetch.DateRange{}, err
		}
		rng.End = daily.DayEnd(t, h.loc)
	}
	return rng, nil
}

// rangeToolError renders a parseRange failure: the premium denial keeps
// its own message, everything else is a malformed date.
func rangeToolError(err error) *mcp.CallToolResult {
	if errors.Is(err, errAllDataPremium) {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultError("invalid date format: " + err.Error())
}

// --- Tool definitions ---

var toolListMetrics = mcp.NewTool("list_metrics",
	mcp.WithDescription("List all supported health metrics with their aggregation kind (cumulative or discrete), label, and unit."),
)

var toolGetDailySeries = mcp.NewTool("get_daily_series",
	mcp.WithDescription("Retrieve one aggregated value per calendar day for a metric. Bounded ranges include explicit zero days; all-time mode returns a sparse series."),
	mcp.WithString("metric", mcp.Required(), mcp.Description("Metric ID (e.g. steps, heart_rate, body_mass)")),
	mcp.WithString("start", mcp.Description("Start date (YYYY-MM-DD). Defaults to 7 days ago.")),
	mcp.WithString("end", mcp.Description("End date (YYYY-MM-DD). Defaults to today.")),
	mcp.WithBoolean("all", mcp.Description("Fetch all recorded history instead of a bounded range.")),
)

var toolGetSummary = mcp.NewTool("get_summary",
	mcp.WithDescription("Summarize a metric's daily series: total (cumulative only), average over active days, min/max (discrete only), active-day count, and date-range label."),
	mcp.WithString("metric", mcp.Required(), mcp.Description("Metric ID")),
	mcp.WithString("start", mcp.Description("Start date (YYYY-MM-DD). Defaults to 7 days ago.")),
	mcp.WithString("end", mcp.Description("End date (YYYY-MM-DD). Defaults to today.")),
	mcp.WithBoolean("all", mcp.Description("Fetch all recorded history instead of a bounded range.")),
)

var toolGetBloodPressure = mcp.NewTool("get_blood_pressure",
	mcp.WithDescription("Retrieve paired systolic/diastolic readings per day with a per-component summary."),
	mcp.WithString("start", mcp.Description("Start date (YYYY-MM-DD). Defaults to 7 days ago.")),
	mcp.WithString("end", mcp.Description("End date (YYYY-MM-DD). Defaults to today.")),
	mcp.WithBoolean("all", mcp.Description("Fetch all recorded history instead of a bounded range.")),
)

var toolExportCSV = mcp.NewTool("export_csv",
	mcp.WithDescription("Render a metric's daily series as a CSV document. Premium feature. Use metric 'blood_pressure' for the paired systolic/diastolic export."),
	mcp.WithString("metric", mcp.Required(), mcp.Description("Metric ID, or 'blood_pressure'")),
	mcp.WithString("start", mcp.Description("Start date (YYYY-MM-DD). Defaults to 7 days ago.")),
	mcp.WithString("end", mcp.Description("End date (YYYY-MM-DD). Defaults to today.")),
	mcp.WithBoolean("all", mcp.Description("Export all recorded history instead of a bounded range.")),
)

// --- Tool handlers ---

func (h *handlers) listMetrics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type entry struct {
		ID    string `json:"id"`
		Kind  string `json:"kind"`
		Label string `json:"label"`
		Unit  string `json:"unit"`
	}
	metrics := metric.All()
	entries := make([]entry, len(metrics))
	for i, m := range metrics {
		entries[i] = entry{ID: m.ID, Kind: m.Kind.String(), Label: m.Label, Unit: m.Unit}
	}

	result, err := mcp.NewToolResultJSON(entries)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getDailySeries(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("metric")
	if err != nil {
		return mcp.NewToolResultError("metric parameter is required"), nil
	}
	m, ok := metric.Lookup(id)
	if !ok {
		return mcp.NewToolResultError("unknown metric: " + id), nil
	}

	rng, err := h.parseRange(req)
	if err != nil {
		return rangeToolError(err), nil
	}

	series, err := h.fetchSeries(ctx, m, rng)
	if err != nil {
		h.log.Error("mcp get_daily_series", "metric", id, "error", err)
		return mcp.NewToolResultError("fetch failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"metric":     m.ID,
		"date_range": rng.Label(),
		"points":     series,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("metric")
	if err != nil {
		return mcp.NewToolResultError("metric parameter is required"), nil
	}
	m, ok := metric.Lookup(id)
	if !ok {
		return mcp.NewToolResultError("unknown metric: " + id), nil
	}

	rng, err := h.parseRange(req)
	if err != nil {
		return rangeToolError(err), nil
	}

	series, err := h.fetchSeries(ctx, m, rng)
	if err != nil {
		h.log.Error("mcp get_summary", "metric", id, "error", err)
		return mcp.NewToolResultError("fetch failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(daily.Summarize(series, m.Kind, rng.Label()))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getBloodPressure(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rng, err := h.parseRange(req)
	if err != nil {
		return rangeToolError(err), nil
	}

	if err := h.st.Authorize(ctx, []string{metric.BPSystolic, metric.BPDiastolic}); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	points, err := h.fetchers[bloodPressureKey].FetchBloodPressure(ctx, rng)
	if err != nil {
		h.log.Error("mcp get_blood_pressure", "error", err)
		return mcp.NewToolResultError("fetch failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"points":  points,
		"summary": daily.SummarizeBloodPressure(points, rng.Label()),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) exportCSV(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !h.premium {
		return mcp.NewToolResultError("CSV export is only available for premium users"), nil
	}

	id, err := req.RequireString("metric")
	if err != nil {
		return mcp.NewToolResultError("metric parameter is required"), nil
	}

	rng, err := h.parseRange(req)
	if err != nil {
		return rangeToolError(err), nil
	}

	if id == bloodPressureKey {
		if err := h.st.Authorize(ctx, []string{metric.BPSystolic, metric.BPDiastolic}); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		points, err := h.fetchers[bloodPressureKey].FetchBloodPressure(ctx, rng)
		if err != nil {
			return mcp.NewToolResultError("fetch failed: " + err.Error()), nil
		}
		return mcp.NewToolResultText(export.BloodPressureCSV(points)), nil
	}

	m, ok := metric.Lookup(id)
	if !ok {
		return mcp.NewToolResultError("unknown metric: " + id), nil
	}

	series, err := h.fetchSeries(ctx, m, rng)
	if err != nil {
		return mcp.NewToolResultError("fetch failed: " + err.Error()), nil
	}
	if m.ZeroFiltered {
		series = series.FilterZero()
	}
	return mcp.NewToolResultText(export.CSV(series, m.Label)), nil
}

func (h *handlers) fetchSeries(ctx context.Context, m metric.Metric, rng fetch.DateRange) (daily.Series, error) {
	if err := h.st.Authorize(ctx, []string{m.ID}); err != nil {
		return nil, err
	}
	return h.fetchers[m.ID].Fetch(ctx, m.ID, rng)
}
