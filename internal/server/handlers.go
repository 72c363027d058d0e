package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Foia65/healthtogo/internal/daily"
	"github.com/Foia65/healthtogo/internal/export"
	"github.com/Foia65/healthtogo/internal/fetch"
	"github.com/Foia65/healthtogo/internal/ingest"
	"github.com/Foia65/healthtogo/internal/metric"
	"github.com/Foia65/healthtogo/internal/store"
)

const noDataMessage = "no data available"

type catalogEntry struct {
	ID    string `json:"id"`
	Kind  string `json:"kind"`
	Label string `json:"label"`
	Unit  string `json:"unit"`
}

type dailyResponse struct {
	Metric    string       `json:"metric"`
	Label     string       `json:"label"`
	Unit      string       `json:"unit"`
	DateRange string       `json:"date_range"`
	Points    daily.Series `json:"points"`
	Message   string       `json:"message,omitempty"`
}

type bpPointResponse struct {
	Day       time.Time `json:"day"`
	Systolic  *int      `json:"systolic,omitempty"`
	Diastolic *int      `json:"diastolic,omitempty"`
	Reading   string    `json:"reading"`
}

type bpResponse struct {
	Points  []bpPointResponse `json:"points"`
	Summary daily.BPSummary   `json:"summary"`
	Message string            `json:"message,omitempty"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	metrics := metric.All()
	entries := make([]catalogEntry, len(metrics))
	for i, m := range metrics {
		entries[i] = catalogEntry{ID: m.ID, Kind: m.Kind.String(), Label: m.Label, Unit: m.Unit}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	m, rng, ok := s.metricAndRange(w, r)
	if !ok {
		return
	}

	series, err := s.fetchDisplaySeries(r, m, rng)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := dailyResponse{
		Metric:    m.ID,
		Label:     m.Label,
		Unit:      m.Unit,
		DateRange: rng.Label(),
		Points:    series,
	}
	if len(series) == 0 {
		resp.Message = noDataMessage
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	m, rng, ok := s.metricAndRange(w, r)
	if !ok {
		return
	}

	series, err := s.fetchSeries(r, m, rng)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, daily.Summarize(series, m.Kind, rng.Label()))
}

func (s *Server) handleBloodPressure(w http.ResponseWriter, r *http.Request) {
	rng, ok := s.parseRange(w, r)
	if !ok {
		return
	}

	if err := s.st.Authorize(r.Context(), []string{metric.BPSystolic, metric.BPDiastolic}); err != nil {
		s.writeError(w, err)
		return
	}

	points, err := s.fetchers[bloodPressureKey].FetchBloodPressure(r.Context(), rng)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := bpResponse{
		Points:  make([]bpPointResponse, 0, len(points)),
		Summary: daily.SummarizeBloodPressure(points, rng.Label()),
	}
	for _, p := range points {
		if !p.HasData() {
			continue
		}
		resp.Points = append(resp.Points, bpPointResponse{
			Day:       p.Day,
			Systolic:  p.Systolic,
			Diastolic: p.Diastolic,
			Reading:   p.FormattedReading(),
		})
	}
	if len(resp.Points) == 0 {
		resp.Message = noDataMessage
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	m, rng, ok := s.metricAndRange(w, r)
	if !ok {
		return
	}

	series, err := s.fetchDisplaySeries(r, m, rng)
	if err != nil {
		s.writeError(w, err)
		return
	}

	text := export.CSV(series, m.Label)
	s.serveCSV(w, export.Filename(m.Label, rng), text)
}

func (s *Server) handleBloodPressureExport(w http.ResponseWriter, r *http.Request) {
	rng, ok := s.parseRange(w, r)
	if !ok {
		return
	}

	if err := s.st.Authorize(r.Context(), []string{metric.BPSystolic, metric.BPDiastolic}); err != nil {
		s.writeError(w, err)
		return
	}

	points, err := s.fetchers[bloodPressureKey].FetchBloodPressure(r.Context(), rng)
	if err != nil {
		s.writeError(w, err)
		return
	}

	text := export.BloodPressureCSV(points)
	s.serveCSV(w, export.Filename("BloodPressure", rng), text)
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var payload ingest.Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	result, err := s.ingest.Ingest(r.Context(), &payload)
	if err != nil {
		s.log.Error("ingest error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// --- helpers ---

// metricAndRange resolves the {id} URL param and range query params,
// writing the error response itself when either is invalid.
func (s *Server) metricAndRange(w http.ResponseWriter, r *http.Request) (metric.Metric, fetch.DateRange, bool) {
	id := chi.URLParam(r, "id")
	m, found := metric.Lookup(id)
	if !found {
		s.writeError(w, store.ErrMetricUnsupported)
		return metric.Metric{}, fetch.DateRange{}, false
	}

	rng, ok := s.parseRange(w, r)
	if !ok {
		return metric.Metric{}, fetch.DateRange{}, false
	}
	return m, rng, true
}

// parseRange reads start/end/all query params. The default window is the
// last 7 days. All-time mode is a premium feature.
func (s *Server) parseRange(w http.ResponseWriter, r *http.Request) (fetch.DateRange, bool) {
	q := r.URL.Query()

	if q.Get("all") == "true" || q.Get("all") == "1" {
		if !s.premium {
			writeJSON(w, http.StatusPaymentRequired, map[string]string{"error": premiumAllDataMessage})
			return fetch.DateRange{}, false
		}
		return fetch.DateRange{AllTime: true}, true
	}

	rng := fetch.LastDays(7, s.loc)
	if v := q.Get("start"); v != "" {
		t, err := time.ParseInLocation("2006-01-02", v, s.loc)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid start date: " + v})
			return fetch.DateRange{}, false
		}
		rng.Start = daily.DayStart(t, s.loc)
	}
	if v := q.Get("end"); v != "" {
		t, err := time.ParseInLocation("2006-01-02", v, s.loc)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid end date: " + v})
			return fetch.DateRange{}, false
		}
		rng.End = daily.DayEnd(t, s.loc)
	}
	if rng.End.Before(rng.Start) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "end date is before start date"})
		return fetch.DateRange{}, false
	}
	return rng, true
}

// fetchSeries authorizes and fetches the raw daily series for a metric.
func (s *Server) fetchSeries(r *http.Request, m metric.Metric, rng fetch.DateRange) (daily.Series, error) {
	if err := s.st.Authorize(r.Context(), []string{m.ID}); err != nil {
		return nil, err
	}
	return s.fetchers[m.ID].Fetch(r.Context(), m.ID, rng)
}

// fetchDisplaySeries fetches and applies the zero-value row filter for
// metrics where zero is the no-data sentinel.
func (s *Server) fetchDisplaySeries(r *http.Request, m metric.Metric, rng fetch.DateRange) (daily.Series, error) {
	series, err := s.fetchSeries(r, m, rng)
	if err != nil {
		return nil, err
	}
	if m.ZeroFiltered {
		series = series.FilterZero()
	}
	return series, nil
}

func (s *Server) serveCSV(w http.ResponseWriter, filename, text string) {
	if s.writer != nil {
		if _, dup, err := s.writer.Write(filename, text); err != nil {
			s.log.Error("export write failed", "filename", filename, "error", err)
		} else if dup {
			s.log.Info("export unchanged since last run", "filename", filename)
		}
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}

// writeError maps the store failure taxonomy onto HTTP statuses. Failures
// stay labeled; they are never flattened into an empty success.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrMetricUnsupported):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrAuthorizationDenied):
		status = http.StatusForbidden
	case errors.Is(err, store.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, store.ErrNoResults), errors.Is(err, store.ErrNoSamples):
		status = http.StatusBadGateway
	case errors.Is(err, fetch.ErrFetchInFlight):
		status = http.StatusTooManyRequests
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
