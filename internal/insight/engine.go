// Package insight implements the business-insight discovery engine: five
// independent analyzers over time series, customer RFM records, and flat
// tabular samples, plus deterministic ranking and report rendering.
//
// Everything in this package is pure, synchronous computation over the
// caller's in-memory data. Degenerate input never produces an error; an
// analyzer that cannot say anything useful contributes no insights.
package insight

import (
	"sort"

	"github.com/insighthq/insightd/pkg/models"
)

// Insight type tags. Downstream consumers match on these values.
const (
	TypeSeasonality = "seasonality"
	TypeTrend       = "trend"
	TypeSegment     = "customer-segment"
	TypeCorrelation = "correlation"
	TypeAnomaly     = "anomaly"
)

// Input is the optional bundle of data sources for one analysis.
// Any member may be empty; absent sources simply skip their analyzers.
type Input struct {
	TimeSeries []models.TimeSeriesPoint `json:"time_series,omitempty"`
	Customers  []models.CustomerRecord  `json:"customers,omitempty"`
	Records    []models.DataPoint       `json:"records,omitempty"`
}

// Engine runs the applicable analyzers and ranks their combined output.
// The zero value is not usable; construct with NewEngine. Engines are
// stateless and safe for concurrent use.
type Engine struct {
	anomalyThreshold float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithAnomalyThreshold overrides the z-score cutoff for anomaly detection.
func WithAnomalyThreshold(t float64) Option {
	return func(e *Engine) {
		if t > 0 {
			e.anomalyThreshold = t
		}
	}
}

// NewEngine creates an Engine with default settings.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{anomalyThreshold: DefaultAnomalyThreshold}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Analyze runs every analyzer whose input is present, in fixed invocation
// order, then ranks the concatenated results. The returned slice is never
// nil; calling with an empty Input yields an empty list.
func (e *Engine) Analyze(in Input) []models.Insight {
	insights := []models.Insight{}

	if len(in.TimeSeries) > 0 {
		insights = append(insights, DetectSeasonality(in.TimeSeries)...)
		insights = append(insights, DetectTrend(in.TimeSeries)...)
		insights = append(insights, DetectAnomalies(in.TimeSeries, e.anomalyThreshold)...)
	}
	if len(in.Customers) > 0 {
		insights = append(insights, SegmentCustomers(in.Customers)...)
	}
	if len(in.Records) > 0 {
		insights = append(insights, Correlate(in.Records)...)
	}

	Rank(insights)
	return insights
}

// Rank sorts insights in place by priority weight descending, then
// confidence descending. The sort is stable: equal-ranked insights keep
// their analyzer-invocation order.
func Rank(insights []models.Insight) {
	sort.SliceStable(insights, func(i, j int) bool {
		wi, wj := insights[i].Priority.Weight(), insights[j].Priority.Weight()
		if wi != wj {
			return wi > wj
		}
		return insights[i].Confidence > insights[j].Confidence
	})
}
