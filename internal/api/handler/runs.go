package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/insighthq/insightd/internal/api/middleware"
	"github.com/insighthq/insightd/internal/api/response"
	"github.com/insighthq/insightd/internal/insight"
	"github.com/insighthq/insightd/internal/store"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

type RunsHandler struct {
	svc RunService
}

func NewRunsHandler(svc RunService) *RunsHandler {
	return &RunsHandler{svc: svc}
}

// List handles GET /api/v1/runs.
func (h *RunsHandler) List(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantID(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing tenant context", nil)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	name := r.URL.Query().Get("name")

	runs, total, err := h.svc.List(r.Context(), tenantID, name, page, limit)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list runs", nil)
		return
	}

	response.Collection(w, runs, response.PaginationMeta{
		Page:    page,
		Limit:   limit,
		Total:   total,
		HasNext: page*limit < total,
	})
}

// Get handles GET /api/v1/runs/{runID}.
func (h *RunsHandler) Get(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantID(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing tenant context", nil)
		return
	}

	runID, err := uuid.Parse(chi.URLParam(r, "runID"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid run ID", nil)
		return
	}

	result, err := h.svc.Get(r.Context(), tenantID, runID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.Error(w, http.StatusNotFound, "NOT_FOUND", "Run not found", nil)
			return
		}
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch run", nil)
		return
	}

	response.JSON(w, result)
}

// Report handles GET /api/v1/runs/{runID}/report and renders the run's
// insights as a plain-text report.
func (h *RunsHandler) Report(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantID(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing tenant context", nil)
		return
	}

	runID, err := uuid.Parse(chi.URLParam(r, "runID"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid run ID", nil)
		return
	}

	result, err := h.svc.Get(r.Context(), tenantID, runID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.Error(w, http.StatusNotFound, "NOT_FOUND", "Run not found", nil)
			return
		}
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch run", nil)
		return
	}

	response.Text(w, insight.BuildReport(result.Insights))
}
