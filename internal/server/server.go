package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Foia65/healthtogo/internal/export"
	"github.com/Foia65/healthtogo/internal/fetch"
	"github.com/Foia65/healthtogo/internal/ingest"
	"github.com/Foia65/healthtogo/internal/metric"
	"github.com/Foia65/healthtogo/internal/store"
)

// bloodPressureKey indexes the fetcher shared by the paired blood-pressure
// endpoints; it is not a metric ID.
const bloodPressureKey = "blood_pressure"

// Server holds dependencies for HTTP handlers.
type Server struct {
	st      store.SampleStore
	ingest  *ingest.Provider
	writer  *export.Writer
	loc     *time.Location
	apiKey  string
	premium bool
	log     *slog.Logger
	router  chi.Router

	// One fetcher per metric: the in-flight guard is per view, so
	// concurrent requests for the same metric are dropped while requests
	// for different metrics proceed independently.
	fetchers map[string]*fetch.Fetcher
}

// New creates a new Server with all routes configured.
func New(st store.SampleStore, ing *ingest.Provider, writer *export.Writer, loc *time.Location, apiKey string, premium bool, log *slog.Logger) *Server {
	s := &Server{
		st:       st,
		ingest:   ing,
		writer:   writer,
		loc:      loc,
		apiKey:   apiKey,
		premium:  premium,
		log:      log,
		router:   chi.NewRouter(),
		fetchers: make(map[string]*fetch.Fetcher),
	}
	for _, id := range metric.IDs() {
		s.fetchers[id] = fetch.New(st, loc, log)
	}
	s.fetchers[bloodPressureKey] = fetch.New(st, loc, log)
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Ingest endpoint (API key required)
	s.router.Route("/api/v1/ingest", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/", s.handleIngest)
	})

	s.router.Get("/api/v1/metrics", s.handleCatalog)
	s.router.Get("/api/v1/metrics/{id}/daily", s.handleDaily)
	s.router.Get("/api/v1/metrics/{id}/summary", s.handleSummary)
	s.router.Get("/api/v1/bloodpressure", s.handleBloodPressure)
	s.router.Get("/api/v1/charts/{id}", s.handleChart)

	// Export endpoints (premium required)
	s.router.Route("/api/v1/export", func(r chi.Router) {
		r.Use(RequirePremium(s.premium))
		r.Get("/bloodpressure.csv", s.handleBloodPressureExport)
		r.Get("/{id}.csv", s.handleExport)
	})
}
