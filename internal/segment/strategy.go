package segment

import (
	"github.com/getcohort/cohort/internal/model"
)

// maxStrategies caps the recommendations attached to one segment.
const maxStrategies = 5

// Recommender derives marketing-strategy suggestions from a segment's
// aggregate characteristics. Three independent axes (engagement, value,
// behavior) each contribute matches; the result is truncated to five.
type Recommender struct{}

// NewRecommender creates a strategy recommender.
func NewRecommender() *Recommender {
	return &Recommender{}
}

// Recommend returns up to five strategy suggestions for the segment.
func (r *Recommender) Recommend(seg model.AudienceSegment) []string {
	c := seg.Characteristics
	var strategies []string

	switch {
	case c.AvgEngagementScore > 0.5:
		strategies = append(strategies,
			"Premium product messaging",
			"Cross-sell and upsell campaigns")
	case c.AvgEngagementScore > 0.3:
		strategies = append(strategies,
			"Educational content series",
			"Retargeting campaigns")
	default:
		strategies = append(strategies,
			"Re-engagement campaign with incentives")
	}

	switch {
	case c.AvgCLV > 1000:
		strategies = append(strategies,
			"VIP program with high-touch outreach")
	case c.AvgCLV > 500:
		strategies = append(strategies,
			"Loyalty program enrollment")
	default:
		strategies = append(strategies,
			"Value-focused promotions")
	}

	switch {
	case c.AvgPurchaseFrequency > 5:
		strategies = append(strategies,
			"Bulk purchase and frequent-buyer programs")
	case c.AvgPurchaseFrequency > 2:
		strategies = append(strategies,
			"Regular communication cadence")
	default:
		strategies = append(strategies,
			"Cart-abandonment triggers and seasonal offers")
	}

	if len(strategies) > maxStrategies {
		strategies = strategies[:maxStrategies]
	}
	return strategies
}
