package segment

import (
	"log/slog"
	"sort"

	"github.com/getcohort/cohort/internal/model"
	"github.com/getcohort/cohort/internal/stats"
)

// PopulationStats holds the percentile cutoffs the default rules compare
// against. Each cutoff is computed over the profiles that carry the
// underlying attribute, so sparse profiles do not skew the distribution.
type PopulationStats struct {
	CLVP80        float64
	EngagementP75 float64
	SpendMedian   float64
}

// Rule is one fixed business rule. Eligible reports whether a profile
// carries the fields the rule needs; ineligible profiles are simply not
// considered, they are never an error. Rules are evaluated in priority
// order and each customer lands in at most one rule segment, keeping the
// method's output mutually exclusive.
type Rule struct {
	Eligible    func(p model.CustomerProfile, d model.DerivedMetrics) bool
	Matches     func(p model.CustomerProfile, d model.DerivedMetrics, st PopulationStats) bool
	Name        string
	Description string
	Priority    int
	IsActive    bool
}

// DefaultRules returns the fixed rule set in declaration order.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:        "high_value",
			Description: "Customers with lifetime value above the 80th percentile",
			Priority:    40,
			IsActive:    true,
			Eligible: func(_ model.CustomerProfile, d model.DerivedMetrics) bool {
				return d.HasCLV
			},
			Matches: func(_ model.CustomerProfile, d model.DerivedMetrics, st PopulationStats) bool {
				return d.CLV > st.CLVP80
			},
		},
		{
			Name:        "new_customers",
			Description: "Customers acquired within the last 30 days",
			Priority:    30,
			IsActive:    true,
			Eligible: func(p model.CustomerProfile, _ model.DerivedMetrics) bool {
				return p.Has(model.AttrCustomerLifetimeDays)
			},
			Matches: func(p model.CustomerProfile, _ model.DerivedMetrics, _ PopulationStats) bool {
				return p.Numeric[model.AttrCustomerLifetimeDays] <= 30
			},
		},
		{
			Name:        "at_risk",
			Description: "Previously valuable customers who have gone quiet",
			Priority:    20,
			IsActive:    true,
			Eligible: func(p model.CustomerProfile, _ model.DerivedMetrics) bool {
				return p.Has(model.AttrDaysSinceLastPurchase, model.AttrTotalSpent)
			},
			Matches: func(p model.CustomerProfile, _ model.DerivedMetrics, st PopulationStats) bool {
				return p.Numeric[model.AttrDaysSinceLastPurchase] > 90 &&
					p.Numeric[model.AttrTotalSpent] > st.SpendMedian
			},
		},
		{
			Name:        "highly_engaged",
			Description: "Customers with engagement above the 75th percentile",
			Priority:    10,
			IsActive:    true,
			Eligible: func(_ model.CustomerProfile, d model.DerivedMetrics) bool {
				return d.HasEngagement
			},
			Matches: func(_ model.CustomerProfile, d model.DerivedMetrics, st PopulationStats) bool {
				return d.EngagementScore > st.EngagementP75
			},
		},
	}
}

// RuleSegmenter applies fixed percentile/threshold business rules.
type RuleSegmenter struct {
	rules   []Rule
	minSize int
}

// NewRuleSegmenter creates a rule segmenter. A nil rule slice selects the
// default rule set.
func NewRuleSegmenter(rules []Rule, minSize int) *RuleSegmenter {
	if rules == nil {
		rules = DefaultRules()
	}
	sorted := make([]Rule, len(rules))
	copy(sorted, rules)
	// Higher priority first; name breaks ties for determinism.
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Priority != sorted[j].Priority {
			return sorted[i].Priority > sorted[j].Priority
		}
		return sorted[i].Name < sorted[j].Name
	})
	return &RuleSegmenter{rules: sorted, minSize: minSize}
}

// Apply evaluates every active rule over the population and returns the
// rule segments that meet the minimum size. Undersized segments are
// silently omitted.
func (s *RuleSegmenter) Apply(profiles []model.CustomerProfile, derived map[string]model.DerivedMetrics) map[string]model.AudienceSegment {
	st := computePopulationStats(profiles, derived)

	matched := make(map[string][]model.CustomerProfile, len(s.rules))
	for _, p := range profiles {
		d := derived[p.ID]
		for _, rule := range s.rules {
			if !rule.IsActive || !rule.Eligible(p, d) {
				continue
			}
			if rule.Matches(p, d, st) {
				matched[rule.Name] = append(matched[rule.Name], p)
				break // highest-priority match wins
			}
		}
	}

	segments := make(map[string]model.AudienceSegment)
	for _, rule := range s.rules {
		members := matched[rule.Name]
		if len(members) < s.minSize {
			if len(members) > 0 {
				slog.Debug("Omitting undersized rule segment",
					"rule", rule.Name,
					"size", len(members),
					"min_segment_size", s.minSize)
			}
			continue
		}
		seg := newSegment(model.MethodRules, rule.Name, rule.Description, members, derived)
		segments[seg.ID] = seg
	}

	return segments
}

// computePopulationStats derives the percentile cutoffs used by the
// default rules.
func computePopulationStats(profiles []model.CustomerProfile, derived map[string]model.DerivedMetrics) PopulationStats {
	var clvs, engagements, spends []float64
	for _, p := range profiles {
		d := derived[p.ID]
		if d.HasCLV {
			clvs = append(clvs, d.CLV)
		}
		if d.HasEngagement {
			engagements = append(engagements, d.EngagementScore)
		}
		if v, ok := p.Num(model.AttrTotalSpent); ok {
			spends = append(spends, v)
		}
	}

	return PopulationStats{
		CLVP80:        stats.Percentile(clvs, 80),
		EngagementP75: stats.Percentile(engagements, 75),
		SpendMedian:   stats.Median(spends),
	}
}
