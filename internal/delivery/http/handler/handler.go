package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/user/secnews-crawler/internal/delivery/http/response"
	"github.com/user/secnews-crawler/internal/repository"
	"github.com/user/secnews-crawler/internal/usecase"
	"go.uber.org/zap"
)

// Pinger is a dependency reported by the health check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type Handler struct {
	manager usecase.CrawlManager
	deps    map[string]Pinger
	log     *zap.Logger
}

func NewHandler(manager usecase.CrawlManager, deps map[string]Pinger, log *zap.Logger) *Handler {
	return &Handler{
		manager: manager,
		deps:    deps,
		log:     log,
	}
}

func (h *Handler) HandleTriggerCrawl(w http.ResponseWriter, r *http.Request) {
	err := h.manager.Trigger(r.Context())
	if err != nil {
		if errors.Is(err, repository.ErrCrawlInProgress) {
			h.writeJSONError(w, err.Error(), http.StatusConflict)
			return
		}
		h.log.Error("failed to start crawl", zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusAccepted, response.TriggerCrawlResponse{
		Status:  "accepted",
		Message: "Crawl started",
	})
}

func (h *Handler) HandleGetCrawlStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.manager.GetStatus(r.Context())
	if err != nil {
		h.log.Error("failed to get crawl status", zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, response.NewCrawlStatusResponse(status))
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	health := map[string]string{"status": "ok"}
	code := http.StatusOK
	for name, dep := range h.deps {
		if err := dep.Ping(ctx); err != nil {
			h.log.Error("health check failed", zap.String("dependency", name), zap.Error(err))
			health[name] = "unhealthy"
			health["status"] = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		health[name] = "healthy"
	}

	h.writeJSON(w, code, health)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error("failed to write JSON response", zap.Error(err))
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, response.ErrorResponse{Error: message})
}
