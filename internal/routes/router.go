package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"karaoke-events/kjhub/internal/api"
	"karaoke-events/kjhub/internal/logging"
	"karaoke-events/kjhub/internal/middleware"
)

// RegisterRoutes builds the HTTP handler over fully wired dependencies.
func RegisterRoutes(deps *api.Dependencies, upSince time.Time) http.Handler {
	r := chi.NewRouter()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MetricsMiddleware(deps.Metrics))
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))
	r.Use(middleware.NewRateLimiter(deps.Config.Rate).Middleware)

	r.Get("/healthCheck", api.HealthCheckHandler(deps.SQLX, deps.Redis, upSince))
	r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())

	handlers := api.NewHandlers(deps)
	RegisterAPIRoutes(r, handlers, deps)

	logging.Info("Router initialized with metrics and logging middleware")
	return r
}
