package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rizalw/pricetag/internal/label"
	"github.com/rizalw/pricetag/internal/service"
	"github.com/rizalw/pricetag/pkg/health"
	"github.com/rizalw/pricetag/pkg/middleware"
)

// NewRouter creates a chi router with all label service routes registered.
func NewRouter(
	catalog *service.CatalogService,
	pipeline *label.Pipeline,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("pricetag"))

	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
		promhttp.Handler().ServeHTTP(w, req)
	})

	labelHandler := NewLabelHandler(catalog, pipeline, logger)

	r.Get("/lookup", labelHandler.Lookup)
	r.Get("/image", labelHandler.Image)

	return r
}
