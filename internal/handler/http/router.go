package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chandan1708/AI-Enabled-E-commerce/pkg/health"
	"github.com/chandan1708/AI-Enabled-E-commerce/pkg/middleware"
)

// RouterConfig wires handlers and cross-cutting settings into the router.
type RouterConfig struct {
	Search        *SearchHandler
	Admin         *AdminHandler
	Health        *health.Handler
	ValidateToken middleware.TokenValidator
	Logger        *slog.Logger
}

// NewRouter creates a chi router with all search service routes registered.
// Public search endpoints are unauthenticated; index maintenance and
// analytics require an authenticated admin.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("search"))

	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	r.Route("/api/v1/search", func(r chi.Router) {
		r.Get("/", cfg.Search.Search)
		r.Get("/filters", cfg.Search.Filters)
		r.Get("/suggest", cfg.Search.Suggest)
		r.Get("/instant", cfg.Search.Instant)
		r.Get("/natural", cfg.Search.Natural)

		r.Group(func(r chi.Router) {
			r.Use(middleware.CacheControl(300))
			r.Get("/trending", cfg.Search.Trending)
		})

		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Post("/click", cfg.Search.TrackClick)
		})
	})

	r.Route("/api/v1/admin/search", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.ValidateToken))
		r.Use(middleware.RequireRole("admin"))

		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Post("/reindex", cfg.Admin.Reindex)
			r.Post("/sync-recent", cfg.Admin.SyncRecent)
			r.Post("/sync/{productID}", cfg.Admin.SyncProduct)
		})

		r.Get("/analytics/metrics", cfg.Admin.Metrics)
		r.Get("/analytics/zero-results", cfg.Admin.ZeroResults)
		r.Get("/analytics/click-through", cfg.Admin.ClickThrough)
	})

	return r
}
