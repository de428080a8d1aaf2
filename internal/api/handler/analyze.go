// Package handler implements the HTTP endpoints of the analysis API.
package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/insighthq/insightd/internal/api/middleware"
	"github.com/insighthq/insightd/internal/api/response"
	"github.com/insighthq/insightd/internal/insight"
	"github.com/insighthq/insightd/internal/run"
	"github.com/insighthq/insightd/pkg/models"
)

// RunService is the slice of the run service the handlers need.
type RunService interface {
	Analyze(ctx context.Context, p run.Params) (*models.AnalysisRun, error)
	Get(ctx context.Context, tenantID, runID uuid.UUID) (*models.AnalysisRun, error)
	List(ctx context.Context, tenantID uuid.UUID, name string, page, limit int) ([]*models.AnalysisRun, int, error)
}

type AnalyzeHandler struct {
	svc RunService
}

func NewAnalyzeHandler(svc RunService) *AnalyzeHandler {
	return &AnalyzeHandler{svc: svc}
}

type analyzeRequest struct {
	Name       string                   `json:"name"`
	Metadata   map[string]any           `json:"metadata"`
	TimeSeries []models.TimeSeriesPoint `json:"time_series"`
	Customers  []models.CustomerRecord  `json:"customers"`
	Records    []models.DataPoint       `json:"records"`
}

// Analyze handles POST /api/v1/analyze.
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantID(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing tenant context", nil)
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
		return
	}

	if len(req.TimeSeries) == 0 && len(req.Customers) == 0 && len(req.Records) == 0 {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
			"At least one of time_series, customers, or records is required", nil)
		return
	}

	result, err := h.svc.Analyze(r.Context(), run.Params{
		TenantID: tenantID,
		Name:     req.Name,
		Metadata: req.Metadata,
		Input: insight.Input{
			TimeSeries: req.TimeSeries,
			Customers:  req.Customers,
			Records:    req.Records,
		},
	})
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Analysis failed", nil)
		return
	}

	response.Created(w, result)
}
