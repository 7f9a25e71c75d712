package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig holds the router settings that come from configuration.
// RateLimit requests are allowed per RateLimitWindow per client IP.
type RouterConfig struct {
	Token           string
	RateLimit       int
	RateLimitWindow time.Duration
}

// NewRouter builds and returns the Chi router with all routes configured.
// Health and metrics are unauthenticated; everything else requires bearer auth.
// Rate limiting is applied globally, per IP; it defaults to 60 requests per minute.
func NewRouter(handlers *Handlers, cfg RouterConfig, db dbPinger, redisClient redisPinger, log *slog.Logger) *chi.Mux {
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 60
	}
	if cfg.RateLimitWindow <= 0 {
		cfg.RateLimitWindow = time.Minute
	}

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(log))
	r.Use(httprate.LimitByIP(cfg.RateLimit, cfg.RateLimitWindow))

	r.Get("/api/v1/health", HealthHandlerFunc(db, redisClient, log))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(cfg.Token))

		r.Route("/api/v1/packages", func(r chi.Router) {
			r.Get("/", handlers.ListPackages)
			r.Post("/", handlers.CreatePackage)
			r.Get("/{id}", handlers.GetPackage)
			r.Delete("/{id}", handlers.DeletePackage)
			r.Get("/{id}/prices", handlers.GetPrices)
			r.Put("/{id}/override", handlers.PutOverride)
			r.Delete("/{id}/override", handlers.DeleteOverride)
		})

		r.Get("/api/v1/compare", handlers.Compare)

		r.Get("/api/v1/favorites", handlers.ListFavorites)
		r.Put("/api/v1/favorites/{id}", handlers.AddFavorite)
		r.Delete("/api/v1/favorites/{id}", handlers.RemoveFavorite)

		r.Get("/api/v1/preferences", handlers.GetPreferences)
		r.Put("/api/v1/preferences", handlers.PutPreferences)

		r.Post("/api/v1/recommendations", handlers.Recommend)
		r.Post("/api/v1/catalog/import", handlers.ImportCatalog)
	})

	return r
}

// Ensure chi.Mux implements http.Handler.
var _ http.Handler = (*chi.Mux)(nil)
