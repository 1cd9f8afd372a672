package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/user/secnews-crawler/internal/delivery/http/handler"
	"github.com/user/secnews-crawler/internal/delivery/http/middleware"
	"github.com/user/secnews-crawler/pkg/metrics"
	"go.uber.org/zap"
)

// New builds the API router. metricsHandler serves /metrics and may be nil.
func New(h *handler.Handler, m *metrics.Metrics, metricsHandler http.Handler, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.Metrics(m))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}
	r.Get("/api/health", h.HandleHealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Post("/crawl", h.HandleTriggerCrawl)
		r.Get("/crawl/status", h.HandleGetCrawlStatus)
	})

	return r
}
