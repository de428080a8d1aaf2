// Package run orchestrates analysis invocations: it feeds the insight
// engine, persists each run, and serves repeated identical inputs from
// the result cache.
package run

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/insighthq/insightd/internal/cache"
	"github.com/insighthq/insightd/internal/insight"
	"github.com/insighthq/insightd/internal/store"
	"github.com/insighthq/insightd/pkg/models"
)

const defaultRunName = "analysis"

// Params holds validated parameters for one analysis invocation.
type Params struct {
	TenantID uuid.UUID
	Name     string
	Metadata map[string]any
	Input    insight.Input
}

// Service runs analyses and manages persisted runs.
type Service struct {
	engine   *insight.Engine
	store    store.Store
	cache    cache.Cache
	cacheTTL time.Duration
}

// NewService creates a run Service. A non-positive cacheTTL disables
// result caching.
func NewService(engine *insight.Engine, st store.Store, ca cache.Cache, cacheTTL time.Duration) *Service {
	return &Service{engine: engine, store: st, cache: ca, cacheTTL: cacheTTL}
}

// Analyze runs the engine over the input bundle and persists the result
// as a named run. An identical input bundle for the same tenant within
// the cache TTL returns the previously persisted run; the engine is
// deterministic, so the replay is byte-for-byte equivalent.
func (s *Service) Analyze(ctx context.Context, p Params) (*models.AnalysisRun, error) {
	if p.Name == "" {
		p.Name = defaultRunName
	}

	key := cache.ResultKey(p.TenantID, InputHash(p.Input))
	if s.cacheTTL > 0 {
		if cached, found, err := s.cache.Get(ctx, key); err == nil && found {
			var run models.AnalysisRun
			if err := json.Unmarshal(cached, &run); err == nil {
				return &run, nil
			}
			// A corrupt cache entry is not fatal; recompute below.
			_ = s.cache.Delete(ctx, key)
		}
	}

	insights := s.engine.Analyze(p.Input)

	high := 0
	for _, in := range insights {
		if in.Priority == models.PriorityHigh {
			high++
		}
	}

	run := &models.AnalysisRun{
		ID:                uuid.New(),
		TenantID:          p.TenantID,
		Name:              p.Name,
		TotalInsights:     len(insights),
		HighPriorityCount: high,
		Metadata:          p.Metadata,
		Insights:          insights,
		CreatedAt:         time.Now().UTC(),
	}

	if err := s.store.CreateAnalysisRun(ctx, run); err != nil {
		return nil, fmt.Errorf("persisting run: %w", err)
	}

	if s.cacheTTL > 0 {
		if b, err := json.Marshal(run); err == nil {
			if err := s.cache.Set(ctx, key, b, s.cacheTTL); err != nil {
				slog.Warn("caching run result failed", "run_id", run.ID, "error", err)
			}
		}
	}

	return run, nil
}

// Get returns one persisted run scoped to a tenant.
func (s *Service) Get(ctx context.Context, tenantID, runID uuid.UUID) (*models.AnalysisRun, error) {
	return s.store.GetAnalysisRun(ctx, runID, tenantID)
}

// List returns persisted runs newest-first with the total count. An
// empty name matches all runs.
func (s *Service) List(ctx context.Context, tenantID uuid.UUID, name string, page, limit int) ([]*models.AnalysisRun, int, error) {
	return s.store.ListAnalysisRuns(ctx, store.RunFilter{
		TenantID: tenantID,
		Name:     name,
		Page:     page,
		Limit:    limit,
	})
}

// InputHash returns a stable fingerprint for an input bundle. JSON
// marshaling orders struct fields by declaration and map keys
// lexicographically, so equal bundles always hash equal.
func InputHash(in insight.Input) string {
	b, err := json.Marshal(in)
	if err != nil {
		// Input is plain data; marshaling cannot realistically fail.
		return ""
	}
	return fmt.Sprintf("%x", sha256.Sum256(b))
}
