package server

import (
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Foia65/healthtogo/internal/daily"
	"github.com/Foia65/healthtogo/internal/metric"
)

// handleChart renders the daily series for a metric as an HTML line chart.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	m, rng, ok := s.metricAndRange(w, r)
	if !ok {
		return
	}

	series, err := s.fetchDisplaySeries(r, m, rng)
	if err != nil {
		s.writeError(w, err)
		return
	}

	line := dailyLineChart(series, m, rng.Label())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := line.Render(w); err != nil {
		s.log.Error("chart render failed", "metric", m.ID, "error", err)
	}
}

func dailyLineChart(series daily.Series, m metric.Metric, subtitle string) *charts.Line {
	line := charts.NewLine()

	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: "macarons"}),
		charts.WithTitleOpts(opts.Title{
			Title:    m.Label,
			Subtitle: subtitle,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			AxisLabel: &opts.AxisLabel{Rotate: 45},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: m.Unit,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "item",
		}),
	)

	days := make([]string, len(series))
	items := make([]opts.LineData, len(series))
	for i, p := range series {
		days[i] = p.Day.Format("2006-01-02")
		items[i] = opts.LineData{Value: p.Value}
	}

	line.SetXAxis(days)
	line.AddSeries(m.Label, items)
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))

	return line
}
