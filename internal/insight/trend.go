package insight

import (
	"fmt"
	"math"
	"sort"

	"github.com/insighthq/insightd/pkg/models"
)

const (
	trendConfidence = 82
	minTrendPoints  = 10
)

// DetectTrend fits an ordinary-least-squares line to the series (value
// against chronological index) and reports direction and total growth.
// Series shorter than minTrendPoints yield no insight, as does a series
// whose first value is zero (the growth rate would be undefined).
func DetectTrend(series []models.TimeSeriesPoint) []models.Insight {
	if len(series) < minTrendPoints {
		return nil
	}

	pts := make([]models.TimeSeriesPoint, len(series))
	copy(pts, series)
	sort.SliceStable(pts, func(i, j int) bool {
		return pts[i].Timestamp.Before(pts[j].Timestamp)
	})

	n := float64(len(pts))
	var sumX, sumY, sumXY, sumXX float64
	for i, p := range pts {
		x := float64(i)
		sumX += x
		sumY += p.Value
		sumXY += x * p.Value
		sumXX += x * x
	}

	slope := (n*sumXY - sumX*sumY) / (n*sumXX - sumX*sumX)
	intercept := (sumY - slope*sumX) / n

	first := pts[0].Value
	last := pts[len(pts)-1].Value
	if first == 0 {
		return nil
	}
	growth := (last - first) / first * 100

	priority := models.PriorityLow
	switch {
	case math.Abs(growth) > 20:
		priority = models.PriorityHigh
	case math.Abs(growth) > 10:
		priority = models.PriorityMedium
	}

	direction := "growth"
	action := "Scale capacity, stock, and staffing to sustain the upward trajectory."
	if slope <= 0 {
		direction = "decline"
		action = "Investigate the drivers of the decline and test corrective pricing or campaigns."
	}

	return []models.Insight{{
		Type: TypeTrend,
		Narrative: fmt.Sprintf(
			"The series shows a steady %s of %.2f per period (%.1f%% total change from first to last observation).",
			direction, slope, growth),
		Confidence: trendConfidence,
		Action:     action,
		Priority:   priority,
		Data: map[string]any{
			"slope":      slope,
			"growthRate": growth,
			"intercept":  intercept,
		},
	}}
}
