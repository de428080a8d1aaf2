// Package models contains shared data models used across the insightd codebase.
package models

// Priority ranks how urgently an insight should be acted on.
// The string values are part of the serialization contract.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Weight returns the ordinal used as the primary ranking key.
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Insight is a single human-readable finding produced by an analyzer.
// Field names are the serialization contract consumed by downstream
// formatters; Data holds the diagnostic figures the narrative was
// generated from and is the authoritative, testable payload.
type Insight struct {
	Type       string         `json:"type"`
	Narrative  string         `json:"narrative"`
	Confidence float64        `json:"confidence"`
	Action     string         `json:"action"`
	Priority   Priority       `json:"priority"`
	Data       map[string]any `json:"data,omitempty"`
}
