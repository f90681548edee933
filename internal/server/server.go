// Package server exposes the questionnaire engine over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/fleetfs/dqagent/internal/config"
	"github.com/fleetfs/dqagent/internal/engine"
	"github.com/fleetfs/dqagent/internal/model"
	"github.com/fleetfs/dqagent/pkg/metrics"
)

// Enricher refines generated question contexts. Optional; nil skips
// enrichment.
type Enricher interface {
	Enrich(ctx context.Context, questions []model.Question) []model.Question
}

// Server holds the API's collaborators.
type Server struct {
	cfg       *config.Config
	metrics   metrics.Client
	judge     engine.Judge
	enricher  Enricher
	registry  *Registry
	countries []model.Country
	clock     engine.Clock
}

// Option configures the server.
type Option func(*Server)

// WithMetricsClient sets the metrics store client.
func WithMetricsClient(c metrics.Client) Option {
	return func(s *Server) { s.metrics = c }
}

// WithJudge sets the response-quality judge.
func WithJudge(j engine.Judge) Option {
	return func(s *Server) { s.judge = j }
}

// WithEnricher sets the question context enricher.
func WithEnricher(e Enricher) Option {
	return func(s *Server) { s.enricher = e }
}

// WithClock overrides the generation clock.
func WithClock(c engine.Clock) Option {
	return func(s *Server) { s.clock = c }
}

// New creates a Server.
func New(cfg *config.Config, opts ...Option) *Server {
	s := &Server{
		cfg:       cfg,
		registry:  NewRegistry(),
		countries: supportedCountries,
		clock:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Router builds the chi router with CORS and request logging.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}))
	r.Use(requestLogger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/welcome", s.handleWelcome)
		r.Get("/countries", s.handleCountries)
		r.Post("/questionnaire/generate", s.handleGenerate)
		r.Get("/questionnaire/{questionnaireID}", s.handleGetQuestionnaire)
		r.Post("/questionnaire/{questionnaireID}/response", s.handleSubmitResponse)
	})

	return r
}

// requestLogger logs each request with latency and status.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		zap.L().Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", sw.status),
			zap.Duration("latency", time.Since(start)),
		)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
