package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/insighthq/insightd/internal/api/response"
	"github.com/insighthq/insightd/internal/cache"
	"github.com/insighthq/insightd/internal/store"
)

type HealthHandler struct {
	store store.Store
	cache cache.Cache
}

func NewHealthHandler(s store.Store, c cache.Cache) *HealthHandler {
	return &HealthHandler{store: s, cache: c}
}

// Health handles GET /api/v1/health. Degraded dependencies are reported
// but do not fail the endpoint; a 200 means the process is serving.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	dbStatus := "ok"
	if err := h.store.Ping(ctx); err != nil {
		dbStatus = "unreachable"
	}
	cacheStatus := "ok"
	if err := h.cache.Ping(ctx); err != nil {
		cacheStatus = "unreachable"
	}

	response.JSON(w, map[string]string{
		"status":   "ok",
		"database": dbStatus,
		"cache":    cacheStatus,
	})
}
