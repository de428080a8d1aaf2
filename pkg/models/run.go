package models

import (
	"time"

	"github.com/google/uuid"
)

// AnalysisRun is one persisted analysis invocation: the ranked insight
// list plus summary counters, named by the caller for later retrieval.
type AnalysisRun struct {
	ID                uuid.UUID      `db:"id"                  json:"id"`
	TenantID          uuid.UUID      `db:"tenant_id"           json:"tenant_id"`
	Name              string         `db:"name"                json:"name"`
	TotalInsights     int            `db:"total_insights"      json:"total_insights"`
	HighPriorityCount int            `db:"high_priority_count" json:"high_priority_count"`
	Metadata          map[string]any `db:"metadata"            json:"metadata,omitempty"`
	Insights          []Insight      `db:"insights"            json:"insights"`
	CreatedAt         time.Time      `db:"created_at"          json:"created_at"`
}
