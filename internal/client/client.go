// Package client talks to the Health ToGo server over HTTP.
package client

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"time"

	"github.com/Foia65/healthtogo/internal/daily"
)

// Query selects the fetch window for a request. All takes the all-time
// path; otherwise empty Start/End fall back to the server default window.
type Query struct {
	Start string
	End   string
	All   bool
}

func (q Query) values() url.Values {
	v := url.Values{}
	if q.All {
		v.Set("all", "true")
		return v
	}
	if q.Start != "" {
		v.Set("start", q.Start)
	}
	if q.End != "" {
		v.Set("end", q.End)
	}
	return v
}

// DailyResult mirrors the server's daily-series response.
type DailyResult struct {
	Metric    string       `json:"metric"`
	Label     string       `json:"label"`
	Unit      string       `json:"unit"`
	DateRange string       `json:"date_range"`
	Points    daily.Series `json:"points"`
	Message   string       `json:"message,omitempty"`
}

// BPResult mirrors the server's blood-pressure response.
type BPResult struct {
	Points []struct {
		Day       time.Time `json:"day"`
		Systolic  *int      `json:"systolic,omitempty"`
		Diastolic *int      `json:"diastolic,omitempty"`
		Reading   string    `json:"reading"`
	} `json:"points"`
	Summary daily.BPSummary `json:"summary"`
	Message string          `json:"message,omitempty"`
}

// CatalogEntry is one metric in the server catalog.
type CatalogEntry struct {
	ID    string `json:"id"`
	Kind  string `json:"kind"`
	Label string `json:"label"`
	Unit  string `json:"unit"`
}

// Client sends requests to the Health ToGo server.
type Client struct {
	serverURL  string
	apiKey     string
	httpClient *http.Client
}

// New creates a new HTTP client for the server.
func New(serverURL, apiKey string) *Client {
	return &Client{
		serverURL: serverURL,
		apiKey:    apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Catalog retrieves the supported metric list.
func (c *Client) Catalog() ([]CatalogEntry, error) {
	var entries []CatalogEntry
	if err := c.getJSON("/api/v1/metrics", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Daily retrieves the per-day series for a metric.
func (c *Client) Daily(metricID string, q Query) (*DailyResult, error) {
	var result DailyResult
	if err := c.getJSON("/api/v1/metrics/"+metricID+"/daily", q.values(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Summary retrieves the computed summary for a metric.
func (c *Client) Summary(metricID string, q Query) (*daily.Summary, error) {
	var result daily.Summary
	if err := c.getJSON("/api/v1/metrics/"+metricID+"/summary", q.values(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// BloodPressure retrieves paired readings with their summary.
func (c *Client) BloodPressure(q Query) (*BPResult, error) {
	var result BPResult
	if err := c.getJSON("/api/v1/bloodpressure", q.values(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ExportCSV retrieves a CSV export, returning the server-chosen filename
// and the document body.
func (c *Client) ExportCSV(metricID string, q Query) (string, []byte, error) {
	path := "/api/v1/export/" + metricID + ".csv"
	if metricID == "blood_pressure" {
		path = "/api/v1/export/bloodpressure.csv"
	}

	resp, err := c.get(path, q.values())
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, fmt.Errorf("reading export body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("export failed (status %d): %s", resp.StatusCode, body)
	}

	filename := metricID + ".csv"
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		if name := params["filename"]; name != "" {
			filename = name
		}
	}
	return filename, body, nil
}

func (c *Client) getJSON(path string, query url.Values, out any) error {
	resp, err := c.get(path, query)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("request failed (status %d): %s", resp.StatusCode, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func (c *Client) get(path string, query url.Values) (*http.Response, error) {
	u := c.serverURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", path, err)
	}
	return resp, nil
}
