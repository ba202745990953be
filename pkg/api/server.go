// Package api exposes sessions over HTTP: JSON endpoints for mutations and
// layout, a server-sent event stream of snapshots, and GraphQL.
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dd0wney/promptflow/pkg/api/middleware"
	"github.com/dd0wney/promptflow/pkg/graphql"
	"github.com/dd0wney/promptflow/pkg/health"
	"github.com/dd0wney/promptflow/pkg/logging"
)

// NewServer creates a server over cfg.Manager.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Manager == nil {
		return nil, errors.New("api: session manager is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	s := &Server{
		manager:        cfg.Manager,
		metrics:        cfg.Manager.Metrics(),
		logger:         logger.With(logging.Component("api")),
		allowedOrigins: cfg.AllowedOrigins,
		maxBodyBytes:   cfg.MaxBodyBytes,
		heartbeat:      cfg.Heartbeat,
		startTime:      time.Now(),
	}
	if s.maxBodyBytes <= 0 {
		s.maxBodyBytes = defaultMaxBodyBytes
	}
	if s.heartbeat <= 0 {
		s.heartbeat = defaultHeartbeat
	}

	limits := cfg.GraphQLLimits
	if limits == nil {
		limits = graphql.DefaultLimitConfig()
	}
	schema, err := graphql.GenerateSchema(cfg.Manager, limits)
	if err != nil {
		return nil, err
	}
	s.graphqlHandler = graphql.NewGraphQLHandler(schema, limits.MaxDepth, logger)

	s.healthChecker = health.NewHealthChecker(cfg.Version)
	s.healthChecker.RegisterCheck("sessions", health.SessionsCheck(cfg.Manager.State))
	s.healthChecker.RegisterCheck("goroutines", health.GoroutineCheck(maxGoroutines))
	s.healthChecker.RegisterCheck("memory", health.MemoryCheck())
	s.healthChecker.RegisterReadinessCheck("sessions", health.SessionsCheck(cfg.Manager.State))
	s.healthChecker.RegisterLivenessCheck("process", health.SimpleCheck("process"))

	return s, nil
}

// Handler returns the routed handler with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID())
	r.Use(middleware.PanicRecovery(s.logger))
	r.Use(middleware.Logging(s.logger, middleware.GetRequestID))
	r.Use(middleware.Metrics(s.metrics))
	r.Use(middleware.SecurityHeaders())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.BodySizeLimit(s.maxBodyBytes))

	r.Get("/health", s.healthChecker.HTTPHandler())
	r.Get("/health/live", s.healthChecker.LivenessHandler())
	r.Get("/health/ready", s.healthChecker.ReadinessHandler())
	r.Get("/metrics", s.handleMetrics())

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Get("/", s.handleListSessions)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Post("/nodes", s.handleAddNode)
			r.Post("/edges", s.handleConnect)
			r.Get("/layout", s.handleLayout)
			r.Get("/events", s.handleEvents)
		})
	})

	r.Method(http.MethodPost, "/graphql", s.graphqlHandler)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.respondError(w, http.StatusNotFound, "no such route")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}

// handleMetrics refreshes the runtime gauges on every scrape.
func (s *Server) handleMetrics() http.HandlerFunc {
	h := promhttp.HandlerFor(s.metrics.GetPrometheusRegistry(), promhttp.HandlerOpts{})
	return func(w http.ResponseWriter, r *http.Request) {
		s.metrics.UpdateSystemMetrics(s.startTime)
		h.ServeHTTP(w, r)
	}
}
