package store_test

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/insighthq/insightd/internal/store"
	"github.com/insighthq/insightd/pkg/models"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// migrationsDir returns the absolute path to the migrations directory.
func migrationsDir() string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filename), "..", "..", "migrations")
}

// setupTestDB spins up a Postgres container, runs migrations, and returns a pool.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("insightd_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, pgContainer.Terminate(ctx))
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	err = store.RunMigrations(connStr, migrationsDir())
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	return pool
}

// defaultTenantID returns the UUID of the seeded default tenant.
func defaultTenantID(t *testing.T, s store.Store) uuid.UUID {
	t.Helper()
	tenant, err := s.GetDefaultTenant(context.Background())
	require.NoError(t, err)
	return tenant.ID
}

func sampleRun(tenantID uuid.UUID, name string, createdAt time.Time) *models.AnalysisRun {
	return &models.AnalysisRun{
		ID:                uuid.New(),
		TenantID:          tenantID,
		Name:              name,
		TotalInsights:     2,
		HighPriorityCount: 1,
		Metadata:          map[string]any{"source": "test"},
		Insights: []models.Insight{
			{
				Type:       "anomaly",
				Narrative:  "1 anomalous point detected",
				Confidence: 88,
				Action:     "Investigate the spike",
				Priority:   models.PriorityHigh,
				Data:       map[string]any{"anomalyCount": float64(1)},
			},
			{
				Type:       "trend",
				Narrative:  "steady growth of 2.00 per period",
				Confidence: 82,
				Action:     "Scale capacity",
				Priority:   models.PriorityMedium,
			},
		},
		CreatedAt: createdAt,
	}
}

// --- Tenant Tests ---

func TestGetDefaultTenant(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)

	tenant, err := s.GetDefaultTenant(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "default", tenant.Name)
	assert.NotEqual(t, uuid.Nil, tenant.ID)
}

// --- API Key Tests ---

func TestAPIKey_CreateAndGet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()
	tenantID := defaultTenantID(t, s)

	now := time.Now().UTC().Truncate(time.Microsecond)
	key := &models.APIKey{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Name:      "test-key",
		KeyHash:   "bcrypt-hash-here",
		KeyPrefix: "in_abcd1",
		Scopes:    []string{"analyze", "admin"},
		CreatedAt: now,
		UpdatedAt: now,
	}

	require.NoError(t, s.CreateAPIKey(ctx, key))

	keys, err := s.GetAPIKeyByPrefix(ctx, "in_abcd1")
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, key.ID, keys[0].ID)
	assert.Equal(t, []string{"analyze", "admin"}, keys[0].Scopes)
}

func TestAPIKey_Revoke(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()
	tenantID := defaultTenantID(t, s)

	now := time.Now().UTC()
	key := &models.APIKey{
		ID: uuid.New(), TenantID: tenantID, Name: "doomed",
		KeyHash: "hash", KeyPrefix: "in_gone1",
		Scopes: []string{"analyze"}, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, s.CreateAPIKey(ctx, key))

	require.NoError(t, s.RevokeAPIKey(ctx, key.ID, tenantID))

	keys, err := s.GetAPIKeyByPrefix(ctx, "in_gone1")
	require.NoError(t, err)
	assert.Empty(t, keys)

	// Revoking again reports not found.
	assert.ErrorIs(t, s.RevokeAPIKey(ctx, key.ID, tenantID), store.ErrNotFound)
}

// --- Analysis Run Tests ---

func TestAnalysisRun_CreateAndGet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()
	tenantID := defaultTenantID(t, s)

	run := sampleRun(tenantID, "monthly-sales", time.Now().UTC().Truncate(time.Microsecond))
	require.NoError(t, s.CreateAnalysisRun(ctx, run))

	got, err := s.GetAnalysisRun(ctx, run.ID, tenantID)
	require.NoError(t, err)
	assert.Equal(t, run.Name, got.Name)
	assert.Equal(t, run.TotalInsights, got.TotalInsights)
	assert.Equal(t, run.HighPriorityCount, got.HighPriorityCount)
	require.Len(t, got.Insights, 2)
	assert.Equal(t, "anomaly", got.Insights[0].Type)
	assert.Equal(t, models.PriorityHigh, got.Insights[0].Priority)
	assert.Equal(t, float64(1), got.Insights[0].Data["anomalyCount"])
}

func TestAnalysisRun_GetWrongTenant(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()
	tenantID := defaultTenantID(t, s)

	run := sampleRun(tenantID, "scoped", time.Now().UTC())
	require.NoError(t, s.CreateAnalysisRun(ctx, run))

	_, err := s.GetAnalysisRun(ctx, run.ID, uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAnalysisRun_ListNewestFirst(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()
	tenantID := defaultTenantID(t, s)

	base := time.Now().UTC().Add(-time.Hour).Truncate(time.Microsecond)
	for i := 0; i < 5; i++ {
		run := sampleRun(tenantID, "history", base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, s.CreateAnalysisRun(ctx, run))
	}

	runs, total, err := s.ListAnalysisRuns(ctx, store.RunFilter{TenantID: tenantID, Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, runs, 3)
	for i := 1; i < len(runs); i++ {
		assert.False(t, runs[i].CreatedAt.After(runs[i-1].CreatedAt),
			"runs must be ordered newest-first")
	}
}

func TestAnalysisRun_ListFilterByName(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()
	tenantID := defaultTenantID(t, s)

	require.NoError(t, s.CreateAnalysisRun(ctx, sampleRun(tenantID, "sales", time.Now().UTC())))
	require.NoError(t, s.CreateAnalysisRun(ctx, sampleRun(tenantID, "churn", time.Now().UTC())))

	runs, total, err := s.ListAnalysisRuns(ctx, store.RunFilter{TenantID: tenantID, Name: "sales"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, runs, 1)
	assert.Equal(t, "sales", runs[0].Name)
}
