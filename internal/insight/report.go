package insight

import (
	"fmt"
	"strings"

	"github.com/insighthq/insightd/pkg/models"
)

// BuildReport renders a ranked insight list as a plain-text summary:
// header, per-priority counts, then one entry per insight in ranked
// order. Pure formatting; the exact layout is presentation-only and not
// a compatibility contract.
func BuildReport(insights []models.Insight) string {
	var b strings.Builder

	b.WriteString("BUSINESS INSIGHT REPORT\n")
	b.WriteString(strings.Repeat("=", 40) + "\n")
	fmt.Fprintf(&b, "Total insights: %d\n", len(insights))

	counts := map[models.Priority]int{}
	for _, in := range insights {
		counts[in.Priority]++
	}
	fmt.Fprintf(&b, "High: %d  Medium: %d  Low: %d\n",
		counts[models.PriorityHigh], counts[models.PriorityMedium], counts[models.PriorityLow])

	if len(insights) == 0 {
		b.WriteString("\nNo insights produced for the supplied data.\n")
		return b.String()
	}

	for i, in := range insights {
		fmt.Fprintf(&b, "\n%d. [%s] (%s priority)\n", i+1, in.Type, in.Priority)
		fmt.Fprintf(&b, "   %s\n", in.Narrative)
		fmt.Fprintf(&b, "   Confidence: %.0f%%\n", in.Confidence)
		fmt.Fprintf(&b, "   Action: %s\n", in.Action)
	}

	return b.String()
}
