package models

import "time"

// TimeSeriesPoint is one observation in a time-stamped numeric series.
// Series arrive in whatever order the caller produced them; analyzers
// that need chronological order sort internally.
type TimeSeriesPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// CustomerRecord is one customer's recency/frequency/monetary profile.
// CustomerID is unique within a single segmentation run.
type CustomerRecord struct {
	CustomerID string  `json:"customer_id"`
	Recency    float64 `json:"recency"`
	Frequency  float64 `json:"frequency"`
	Monetary   float64 `json:"monetary"`
}

// DataPoint is one row of a flat tabular sample: field name to value.
// Keys are expected to be identical across all rows of one sample.
type DataPoint map[string]any
