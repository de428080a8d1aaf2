package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/insighthq/insightd/pkg/models"
)

var ErrNotFound = errors.New("resource not found")
var ErrDuplicateKey = errors.New("duplicate key violation")

// Store is the data access interface. All database operations go through here.
type Store interface {
	Ping(ctx context.Context) error
	GetDefaultTenant(ctx context.Context) (*models.Tenant, error)

	GetAPIKeyByPrefix(ctx context.Context, prefix string) ([]*models.APIKey, error)
	UpdateAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error
	CreateAPIKey(ctx context.Context, key *models.APIKey) error
	ListAPIKeys(ctx context.Context, tenantID uuid.UUID) ([]*models.APIKey, error)
	RevokeAPIKey(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) error

	CreateAnalysisRun(ctx context.Context, run *models.AnalysisRun) error
	GetAnalysisRun(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*models.AnalysisRun, error)
	ListAnalysisRuns(ctx context.Context, filter RunFilter) ([]*models.AnalysisRun, int, error)
}

// RunFilter narrows and pages ListAnalysisRuns. Runs always come back
// newest-first, mirroring how callers browse past analyses.
type RunFilter struct {
	TenantID uuid.UUID
	Name     string
	Page     int
	Limit    int
}
