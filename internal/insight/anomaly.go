package insight

import (
	"fmt"
	"math"
	"time"

	"github.com/insighthq/insightd/pkg/models"
)

const anomalyConfidence = 88

// DefaultAnomalyThreshold is the z-score cutoff used when no threshold is configured.
const DefaultAnomalyThreshold = 2.5

// DetectAnomalies flags points whose z-score against the population mean
// exceeds threshold (standard-deviation units, population stddev with
// denominator n). A flat series (stddev 0) yields no anomalies. When any
// point is flagged, a single insight describes the most extreme one;
// ties keep the first occurrence in input order.
func DetectAnomalies(series []models.TimeSeriesPoint, threshold float64) []models.Insight {
	if len(series) == 0 {
		return nil
	}
	if threshold <= 0 {
		threshold = DefaultAnomalyThreshold
	}

	n := float64(len(series))
	var sum float64
	for _, p := range series {
		sum += p.Value
	}
	mean := sum / n

	var sqDiff float64
	for _, p := range series {
		d := p.Value - mean
		sqDiff += d * d
	}
	stdDev := math.Sqrt(sqDiff / n)
	if stdDev == 0 {
		return nil
	}

	count := 0
	extremeIdx := -1
	extremeZ := 0.0
	for i, p := range series {
		z := math.Abs(p.Value-mean) / stdDev
		if z <= threshold {
			continue
		}
		count++
		if z > extremeZ {
			extremeZ = z
			extremeIdx = i
		}
	}
	if count == 0 {
		return nil
	}

	priority := models.PriorityMedium
	if float64(count) > 0.05*n {
		priority = models.PriorityHigh
	}

	extreme := series[extremeIdx]
	date := extreme.Timestamp.UTC().Format("2006-01-02")

	return []models.Insight{{
		Type: TypeAnomaly,
		Narrative: fmt.Sprintf(
			"%d anomalous points detected; the most extreme on %s (value %.2f, %.2f standard deviations from the mean).",
			count, date, extreme.Value, extremeZ),
		Confidence: anomalyConfidence,
		Action:     fmt.Sprintf("Investigate what happened around %s; confirm whether it was a data error or a real event.", date),
		Priority:   priority,
		Data: map[string]any{
			"anomalyCount": count,
			"mostExtreme": map[string]any{
				"index":  extremeIdx,
				"value":  extreme.Value,
				"date":   extreme.Timestamp.UTC().Format(time.RFC3339),
				"zScore": extremeZ,
			},
		},
	}}
}
