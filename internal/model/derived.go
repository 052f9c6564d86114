package model

// DerivedMetrics holds the per-customer values computed once up front and
// attached as a read-only extension of the profile. The Has* flags report
// whether the underlying attributes were present; a metric with a false
// flag must be treated as absent, not as zero.
type DerivedMetrics struct {
	CLV             float64
	EngagementScore float64
	HasCLV          bool
	HasEngagement   bool
}

// Engagement score blend. Open and click rates dominate; session counts
// are capped so a handful of power users cannot saturate the score.
const (
	engagementOpenWeight    = 0.35
	engagementClickWeight   = 0.25
	engagementSessionWeight = 0.25
	engagementSocialWeight  = 0.15
	engagementSessionCap    = 30.0
)

// ComputeDerived calculates CLV and engagement score for one profile.
// Metrics whose inputs are missing are flagged absent rather than erroring:
// the profile stays eligible for every rule that does not need them.
func ComputeDerived(p CustomerProfile) DerivedMetrics {
	var d DerivedMetrics

	if p.Has(AttrTotalSpent, AttrAvgOrderValue, AttrPurchaseFrequency) {
		total := p.Numeric[AttrTotalSpent]
		aov := p.Numeric[AttrAvgOrderValue]
		freq := p.Numeric[AttrPurchaseFrequency]
		// Observed spend plus one projected year at the current monthly cadence.
		d.CLV = total + aov*freq*12
		d.HasCLV = true
	}

	if p.Has(AttrEmailOpenRate, AttrEmailClickRate, AttrWebsiteSessions, AttrSocialEngagement) {
		sessions := p.Numeric[AttrWebsiteSessions] / engagementSessionCap
		if sessions > 1 {
			sessions = 1
		}
		social := clamp01(p.Numeric[AttrSocialEngagement])

		d.EngagementScore = engagementOpenWeight*clamp01(p.Numeric[AttrEmailOpenRate]) +
			engagementClickWeight*clamp01(p.Numeric[AttrEmailClickRate]) +
			engagementSessionWeight*sessions +
			engagementSocialWeight*social
		d.HasEngagement = true
	}

	return d
}

// ComputeAllDerived computes derived metrics for an entire population,
// keyed by profile ID.
func ComputeAllDerived(profiles []CustomerProfile) map[string]DerivedMetrics {
	derived := make(map[string]DerivedMetrics, len(profiles))
	for _, p := range profiles {
		derived[p.ID] = ComputeDerived(p)
	}
	return derived
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
