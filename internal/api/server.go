package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/docscan/internal/cache"
	"github.com/dgallion1/docscan/internal/config"
	"github.com/dgallion1/docscan/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

// Metrics are the runtime components reported by /api/stats. Any field may
// be nil.
type Metrics struct {
	Pool    *pipeline.Pool
	Latency *pipeline.LatencyStats
	Cache   *cache.DocCache
}

// Server is the HTTP API server for docscan.
type Server struct {
	router       chi.Router
	search       pipeline.Searcher
	orchestrator *pipeline.Orchestrator
	metrics      Metrics
	validate     *validator.Validate
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. orch may be nil, in
// which case the job endpoints answer 503.
func NewServer(search pipeline.Searcher, orch *pipeline.Orchestrator, metrics Metrics, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		search:       search,
		orchestrator: orch,
		metrics:      metrics,
		validate:     newValidator(),
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))
	r.Use(CORS(s.cfg.CORSOrigin))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Post("/api/search/pattern", s.handlePatternSearch)
		r.Post("/api/search/heading", s.handleHeadingSearch)
		r.Post("/api/report", s.handleReport)

		r.Post("/api/jobs", s.handleSubmitJob)
		r.Get("/api/jobs/{jobID}", s.handleJobStatus)

		r.Get("/api/stats", s.handleStats)

		// Routes kept for existing frontends.
		r.Post("/textFileSearch", s.handlePatternSearch)
		r.Post("/researchFileSearch", s.handleHeadingSearch)
		r.Post("/generate-pdf", s.handleReport)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
