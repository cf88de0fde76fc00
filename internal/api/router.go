package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"mzansishield/internal/api/handlers"
	apimiddleware "mzansishield/internal/api/middleware"
	"mzansishield/internal/config"
	"mzansishield/pkg/logger"
)

// Router holds dependencies for the API router
type Router struct {
	config   config.Config
	handlers *handlers.Handlers
	logger   *logger.Logger
}

// NewRouter creates a new Router instance
func NewRouter(cfg config.Config, h *handlers.Handlers, log *logger.Logger) *Router {
	return &Router{
		config:   cfg,
		handlers: h,
		logger:   log.WithComponent("router"),
	}
}

// Setup sets up the Chi router with all routes and middleware
func (r *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Core middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(apimiddleware.Logger(r.logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// CORS
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   r.config.CORS.AllowedOrigins,
		AllowedMethods:   r.config.CORS.AllowedMethods,
		AllowedHeaders:   r.config.CORS.AllowedHeaders,
		AllowCredentials: r.config.CORS.AllowCredentials,
		MaxAge:           r.config.CORS.MaxAge,
	}))

	// Rate limiting
	if r.config.RateLimit.Enabled {
		router.Use(apimiddleware.RateLimiter(r.config.RateLimit))
	}

	// Health check
	router.Get("/health", r.handlers.Health.Check)
	router.Get("/ready", r.handlers.Health.Ready)

	// API v1 routes
	router.Route("/api/v1", func(api chi.Router) {
		// Content analysis
		api.Post("/check", r.handlers.Check.Check)

		// Check history
		api.Route("/history", func(history chi.Router) {
			history.Get("/", r.handlers.History.List)
			history.Delete("/", r.handlers.History.Clear)
			history.Delete("/{id}", r.handlers.History.RemoveOne)
		})

		// Scam reports
		api.Route("/reports", func(reports chi.Router) {
			reports.Get("/", r.handlers.Reports.List)
			reports.Post("/", r.handlers.Reports.Submit)
			reports.Delete("/", r.handlers.Reports.Clear)
			reports.Get("/stats", r.handlers.Reports.Stats)
			reports.Get("/{id}", r.handlers.Reports.Get)
			reports.Delete("/{id}", r.handlers.Reports.Remove)
			reports.Post("/{id}/verify", r.handlers.Reports.Verify)
			reports.Post("/{id}/false-positive", r.handlers.Reports.MarkFalsePositive)
		})
	})

	// WebSocket endpoint pushing write notifications to open views
	router.Get("/ws/updates", r.handlers.Streaming.HandleWebSocket)
	router.Get("/api/v1/streaming/stats", r.handlers.Streaming.GetStats)

	return router
}
