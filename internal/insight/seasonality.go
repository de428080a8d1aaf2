package insight

import (
	"fmt"
	"time"

	"github.com/insighthq/insightd/pkg/models"
)

const seasonalityConfidence = 85

// highVariationPct is the seasonal swing above which the insight is high priority.
const highVariationPct = 30

// DetectSeasonality groups a series by calendar month-of-year, compares
// monthly means, and reports the peak/trough spread relative to the
// overall average. Fewer than 12 distinct months is not rejected; the
// output is simply low-value.
func DetectSeasonality(series []models.TimeSeriesPoint) []models.Insight {
	if len(series) == 0 {
		return nil
	}

	var sums [13]float64
	var counts [13]int
	for _, p := range series {
		m := int(p.Timestamp.Month())
		sums[m] += p.Value
		counts[m]++
	}

	// First occurrence wins ties, so iterate months in calendar order
	// with strict comparisons.
	peak, trough := 0, 0
	var meanTotal float64
	present := 0
	var means [13]float64
	for m := 1; m <= 12; m++ {
		if counts[m] == 0 {
			continue
		}
		means[m] = sums[m] / float64(counts[m])
		meanTotal += means[m]
		present++
		if peak == 0 || means[m] > means[peak] {
			peak = m
		}
		if trough == 0 || means[m] < means[trough] {
			trough = m
		}
	}

	overall := meanTotal / float64(present)
	if overall == 0 {
		// An all-zero series has no meaningful seasonal shape.
		return nil
	}
	variation := (means[peak] - means[trough]) / overall * 100

	priority := models.PriorityMedium
	if variation > highVariationPct {
		priority = models.PriorityHigh
	}

	peakName := time.Month(peak).String()
	troughName := time.Month(trough).String()

	return []models.Insight{{
		Type: TypeSeasonality,
		Narrative: fmt.Sprintf(
			"Values peak in %s (avg %.1f) and bottom out in %s (avg %.1f), a %.1f%% seasonal swing around the monthly average.",
			peakName, means[peak], troughName, means[trough], variation),
		Confidence: seasonalityConfidence,
		Action: fmt.Sprintf(
			"Build up inventory and schedule promotions ahead of %s; plan clearance and retention campaigns around %s.",
			peakName, troughName),
		Priority: priority,
		Data: map[string]any{
			"peakMonth":   peak,
			"troughMonth": trough,
			"variation":   variation,
		},
	}}
}
