package insight

import (
	"fmt"

	"github.com/insighthq/insightd/pkg/models"
)

const segmentConfidence = 78

// segmentMeta carries the display name and recommended action for a segment.
type segmentMeta struct {
	name   string
	action string
}

// segmentCatalog is the fixed segment metadata table. The "other" entry
// is defensive only; the rule set below can never produce an unknown key.
var segmentCatalog = map[string]segmentMeta{
	"champions": {
		name:   "Champions",
		action: "Reward them with early access and referral incentives; they respond to recognition.",
	},
	"loyal": {
		name:   "Loyal Customers",
		action: "Offer a loyalty program upsell and solicit reviews.",
	},
	"potential_loyalist": {
		name:   "Potential Loyalists",
		action: "Nudge toward a second purchase with a limited-time membership offer.",
	},
	"at_risk": {
		name:   "At Risk",
		action: "Send a win-back campaign with a personalized discount before they churn.",
	},
	"cannot_lose_them": {
		name:   "Can't Lose Them",
		action: "Reach out personally; losing these high spenders is expensive.",
	},
	"hibernating": {
		name:   "Hibernating",
		action: "Run a low-cost reactivation drip; suppress if unresponsive.",
	},
	"other": {
		name:   "Other",
		action: "Review this group manually; it matched no defined segment.",
	},
}

// highValueSegments always rank high priority regardless of share.
var highValueSegments = map[string]bool{
	"champions":        true,
	"at_risk":          true,
	"cannot_lose_them": true,
}

type segmentRule struct {
	key   string
	match func(c models.CustomerRecord, avgR, avgF, avgM float64) bool
}

// Segments are intentionally non-exclusive: a customer satisfying several
// rules counts toward each of them, so segment percentages can sum past 100.
var segmentRules = []segmentRule{
	{"champions", func(c models.CustomerRecord, avgR, avgF, avgM float64) bool {
		return c.Recency < avgR && c.Frequency > avgF && c.Monetary > avgM
	}},
	{"loyal", func(c models.CustomerRecord, avgR, avgF, avgM float64) bool {
		return c.Recency < avgR*1.5 && c.Frequency > avgF
	}},
	{"potential_loyalist", func(c models.CustomerRecord, avgR, avgF, avgM float64) bool {
		return c.Recency < avgR && c.Frequency <= avgF
	}},
	{"at_risk", func(c models.CustomerRecord, avgR, avgF, avgM float64) bool {
		return c.Recency > avgR*1.5 && c.Frequency <= avgF
	}},
	{"cannot_lose_them", func(c models.CustomerRecord, avgR, avgF, avgM float64) bool {
		return c.Recency > avgR && c.Monetary > avgM*1.5
	}},
	{"hibernating", func(c models.CustomerRecord, avgR, avgF, avgM float64) bool {
		return c.Recency > avgR*2 && c.Frequency <= avgF*0.5
	}},
}

// SegmentCustomers classifies customers into RFM behavioral segments
// against population averages and emits one insight per non-empty segment.
func SegmentCustomers(customers []models.CustomerRecord) []models.Insight {
	if len(customers) == 0 {
		return nil
	}

	total := float64(len(customers))
	var sumR, sumF, sumM float64
	for _, c := range customers {
		sumR += c.Recency
		sumF += c.Frequency
		sumM += c.Monetary
	}
	avgR, avgF, avgM := sumR/total, sumF/total, sumM/total

	var insights []models.Insight
	for _, rule := range segmentRules {
		var count int
		var segF, segM float64
		for _, c := range customers {
			if rule.match(c, avgR, avgF, avgM) {
				count++
				segF += c.Frequency
				segM += c.Monetary
			}
		}
		if count == 0 {
			continue
		}

		pct := float64(count) / total * 100
		avgSegF := segF / float64(count)
		avgSegM := segM / float64(count)

		meta, ok := segmentCatalog[rule.key]
		if !ok {
			meta = segmentCatalog["other"]
		}

		priority := models.PriorityLow
		switch {
		case highValueSegments[rule.key]:
			priority = models.PriorityHigh
		case pct > 20:
			priority = models.PriorityMedium
		}

		insights = append(insights, models.Insight{
			Type: TypeSegment,
			Narrative: fmt.Sprintf(
				"%s: %d customers (%.1f%% of the base), averaging %.1f purchases and %.2f in total spend.",
				meta.name, count, pct, avgSegF, avgSegM),
			Confidence: segmentConfidence,
			Action:     meta.action,
			Priority:   priority,
			Data: map[string]any{
				"segment":      rule.key,
				"count":        count,
				"percentage":   pct,
				"avgFrequency": avgSegF,
				"avgMonetary":  avgSegM,
			},
		})
	}
	return insights
}
