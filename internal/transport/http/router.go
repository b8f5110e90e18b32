package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"caenergy/internal/config"
	"caenergy/internal/middleware"
)

// version is stamped at build time.
var version = "dev"

// NewRouter assembles the report server's routes and middleware chain.
func NewRouter(cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Metrics)
	if cfg.Server.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(
			cfg.Server.RateLimit.RPS,
			cfg.Server.RateLimit.Burst,
			logger,
		)
		r.Use(limiter.Handler)
	}

	r.Get("/healthz", healthCheck)
	r.Handle("/metrics", promhttp.Handler())

	reports := NewReportHandler(cfg.Paths.OutputDir, logger)
	r.Route("/api", func(r chi.Router) {
		r.Mount("/reports", reports.Routes())
	})

	return r
}

// healthCheck handles GET /healthz.
func healthCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status":  "healthy",
		"version": version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}
