package insight

import (
	"testing"
	"time"

	"github.com/insighthq/insightd/pkg/models"
)

func dailySeries(values []float64) []models.TimeSeriesPoint {
	base := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	series := make([]models.TimeSeriesPoint, len(values))
	for i, v := range values {
		series[i] = models.TimeSeriesPoint{Timestamp: base.AddDate(0, 0, i), Value: v}
	}
	return series
}

func TestDetectAnomalies_SingleSpike(t *testing.T) {
	// 100 constant values except one at 10x: exactly that index flags.
	values := make([]float64, 100)
	for i := range values {
		values[i] = 50
	}
	values[42] = 500

	insights := DetectAnomalies(dailySeries(values), 2.5)
	if len(insights) != 1 {
		t.Fatalf("expected 1 insight, got %d", len(insights))
	}
	in := insights[0]

	if in.Type != TypeAnomaly {
		t.Errorf("expected type %q, got %q", TypeAnomaly, in.Type)
	}
	if in.Confidence != 88 {
		t.Errorf("expected confidence 88, got %v", in.Confidence)
	}
	if in.Data["anomalyCount"] != 1 {
		t.Errorf("expected exactly 1 anomaly, got %v", in.Data["anomalyCount"])
	}

	extreme, ok := in.Data["mostExtreme"].(map[string]any)
	if !ok {
		t.Fatalf("expected mostExtreme payload, got %T", in.Data["mostExtreme"])
	}
	if extreme["index"] != 42 {
		t.Errorf("expected most extreme index 42, got %v", extreme["index"])
	}
	if extreme["value"] != 500.0 {
		t.Errorf("expected most extreme value 500, got %v", extreme["value"])
	}

	// 1 of 100 points is not above the 5% cutoff.
	if in.Priority != models.PriorityMedium {
		t.Errorf("expected medium priority, got %q", in.Priority)
	}
}

func TestDetectAnomalies_HighPriorityAboveFivePercent(t *testing.T) {
	// 2 anomalies in 20 points is 10% of the series.
	values := make([]float64, 20)
	for i := range values {
		values[i] = 10
	}
	values[3] = 200
	values[15] = 180

	insights := DetectAnomalies(dailySeries(values), 2.5)
	if len(insights) != 1 {
		t.Fatalf("expected 1 insight, got %d", len(insights))
	}
	if insights[0].Data["anomalyCount"] != 2 {
		t.Errorf("expected 2 anomalies, got %v", insights[0].Data["anomalyCount"])
	}
	if insights[0].Priority != models.PriorityHigh {
		t.Errorf("expected high priority above the 5%% cutoff, got %q", insights[0].Priority)
	}

	extreme := insights[0].Data["mostExtreme"].(map[string]any)
	if extreme["index"] != 3 {
		t.Errorf("expected index 3 as most extreme, got %v", extreme["index"])
	}
}

func TestDetectAnomalies_TieKeepsFirstOccurrence(t *testing.T) {
	values := make([]float64, 30)
	for i := range values {
		values[i] = 10
	}
	values[5] = 300
	values[20] = 300

	insights := DetectAnomalies(dailySeries(values), 2.5)
	if len(insights) != 1 {
		t.Fatalf("expected 1 insight, got %d", len(insights))
	}
	extreme := insights[0].Data["mostExtreme"].(map[string]any)
	if extreme["index"] != 5 {
		t.Errorf("tied z-scores should keep the first occurrence, got index %v", extreme["index"])
	}
}

func TestDetectAnomalies_FlatSeries(t *testing.T) {
	values := make([]float64, 50)
	for i := range values {
		values[i] = 42
	}
	if got := DetectAnomalies(dailySeries(values), 2.5); len(got) != 0 {
		t.Errorf("expected no anomalies for zero stddev, got %d", len(got))
	}
}

func TestDetectAnomalies_NoneAboveThreshold(t *testing.T) {
	if got := DetectAnomalies(dailySeries([]float64{10, 11, 9, 10, 12, 8, 10, 11}), 2.5); len(got) != 0 {
		t.Errorf("expected no insight without flagged points, got %d", len(got))
	}
}

func TestDetectAnomalies_DefaultThresholdOnZero(t *testing.T) {
	values := make([]float64, 100)
	for i := range values {
		values[i] = 50
	}
	values[7] = 500

	// threshold <= 0 falls back to the 2.5 default.
	insights := DetectAnomalies(dailySeries(values), 0)
	if len(insights) != 1 {
		t.Fatalf("expected 1 insight with default threshold, got %d", len(insights))
	}
}
