package insight

import (
	"fmt"
	"math"
	"sort"

	"github.com/insighthq/insightd/pkg/models"
)

const maxCorrelationConfidence = 95

// Correlate computes the Pearson coefficient for every unordered pair of
// numeric fields and emits an insight for each notable (|r| > 0.5) pair.
// A field qualifies only when its value is numeric and non-NaN in every
// record of the sample.
func Correlate(records []models.DataPoint) []models.Insight {
	fields := numericFields(records)
	if len(fields) < 2 {
		return nil
	}

	var insights []models.Insight
	for i := 0; i < len(fields); i++ {
		for j := i + 1; j < len(fields); j++ {
			xs := extractColumn(records, fields[i])
			ys := extractColumn(records, fields[j])
			if len(xs) != len(ys) || len(xs) == 0 {
				continue
			}

			r := pearson(xs, ys)
			abs := math.Abs(r)
			if abs <= 0.5 {
				continue
			}

			strength := strengthLabel(abs)
			direction := "positive"
			if r <= 0 {
				direction = "negative"
			}

			priority := models.PriorityMedium
			if abs > 0.7 {
				priority = models.PriorityHigh
			}

			insights = append(insights, models.Insight{
				Type: TypeCorrelation,
				Narrative: fmt.Sprintf(
					"%s and %s show a %s %s correlation (r=%.3f).",
					fields[i], fields[j], strength, direction, r),
				Confidence: math.Min(maxCorrelationConfidence, abs*100),
				Action: fmt.Sprintf(
					"Treat %s as a lever for %s; changes to one should show up in the other.",
					fields[i], fields[j]),
				Priority: priority,
				Data: map[string]any{
					"field1":      fields[i],
					"field2":      fields[j],
					"correlation": r,
				},
			})
		}
	}
	return insights
}

// strengthLabel maps |r| to a human label. Callers only pass values above 0.5.
func strengthLabel(abs float64) string {
	switch {
	case abs > 0.8:
		return "very strong"
	case abs > 0.6:
		return "strong"
	default:
		return "moderate"
	}
}

// numericFields returns, in sorted order, the field names whose values
// are numeric and non-NaN in every record. Sorting keeps pair iteration
// deterministic across runs.
func numericFields(records []models.DataPoint) []string {
	if len(records) == 0 {
		return nil
	}

	var fields []string
	for name := range records[0] {
		ok := true
		for _, rec := range records {
			v, isNum := numericValue(rec[name])
			if !isNum || math.IsNaN(v) {
				ok = false
				break
			}
		}
		if ok {
			fields = append(fields, name)
		}
	}
	sort.Strings(fields)
	return fields
}

func extractColumn(records []models.DataPoint, field string) []float64 {
	col := make([]float64, 0, len(records))
	for _, rec := range records {
		v, ok := numericValue(rec[field])
		if !ok || math.IsNaN(v) {
			continue
		}
		col = append(col, v)
	}
	return col
}

// numericValue coerces the dynamic value types that survive JSON decoding
// or direct construction. Booleans and strings are not numeric.
func numericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// pearson computes the Pearson correlation coefficient of two
// equal-length vectors. A zero denominator (a constant vector) yields 0.
func pearson(xs, ys []float64) float64 {
	n := float64(len(xs))
	var sumX, sumY, sumXY, sumXX, sumYY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXY += xs[i] * ys[i]
		sumXX += xs[i] * xs[i]
		sumYY += ys[i] * ys[i]
	}

	denom := math.Sqrt((n*sumXX - sumX*sumX) * (n*sumYY - sumY*sumY))
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}
