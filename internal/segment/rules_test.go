package segment

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getcohort/cohort/internal/model"
)

// archetypeProfile builds a profile with the behavioral attributes the
// rules read. A nil attrs map yields a profile with no attributes at all.
func archetypeProfile(id string, attrs map[string]float64) model.CustomerProfile {
	p := model.CustomerProfile{ID: id, Numeric: make(map[string]float64, len(attrs))}
	for k, v := range attrs {
		p.Numeric[k] = v
	}
	return p
}

// rulePopulation builds five archetype groups of 40 profiles each plus one
// sparse profile that lacks email_open_rate:
//
//	hv   - very high spend and order value, low engagement
//	new  - acquired 10 days ago
//	risk - big spenders gone quiet for 120 days
//	eng  - highly engaged, modest spend
//	base - unremarkable on every axis
func rulePopulation() []model.CustomerProfile {
	archetypes := []struct {
		prefix string
		attrs  map[string]float64
	}{
		{"hv", map[string]float64{
			model.AttrTotalSpent: 10000, model.AttrAvgOrderValue: 100, model.AttrPurchaseFrequency: 5,
			model.AttrCustomerLifetimeDays: 400, model.AttrDaysSinceLastPurchase: 10,
			model.AttrEmailOpenRate: 0.2, model.AttrEmailClickRate: 0.05,
			model.AttrWebsiteSessions: 5, model.AttrSocialEngagement: 0.1,
		}},
		{"new", map[string]float64{
			model.AttrTotalSpent: 100, model.AttrAvgOrderValue: 50, model.AttrPurchaseFrequency: 1,
			model.AttrCustomerLifetimeDays: 10, model.AttrDaysSinceLastPurchase: 5,
			model.AttrEmailOpenRate: 0.3, model.AttrEmailClickRate: 0.1,
			model.AttrWebsiteSessions: 3, model.AttrSocialEngagement: 0.2,
		}},
		{"risk", map[string]float64{
			model.AttrTotalSpent: 5000, model.AttrAvgOrderValue: 80, model.AttrPurchaseFrequency: 3,
			model.AttrCustomerLifetimeDays: 500, model.AttrDaysSinceLastPurchase: 120,
			model.AttrEmailOpenRate: 0.1, model.AttrEmailClickRate: 0.02,
			model.AttrWebsiteSessions: 2, model.AttrSocialEngagement: 0.05,
		}},
		{"eng", map[string]float64{
			model.AttrTotalSpent: 300, model.AttrAvgOrderValue: 30, model.AttrPurchaseFrequency: 2,
			model.AttrCustomerLifetimeDays: 200, model.AttrDaysSinceLastPurchase: 20,
			model.AttrEmailOpenRate: 0.9, model.AttrEmailClickRate: 0.8,
			model.AttrWebsiteSessions: 40, model.AttrSocialEngagement: 0.9,
		}},
		{"base", map[string]float64{
			model.AttrTotalSpent: 500, model.AttrAvgOrderValue: 40, model.AttrPurchaseFrequency: 2,
			model.AttrCustomerLifetimeDays: 300, model.AttrDaysSinceLastPurchase: 30,
			model.AttrEmailOpenRate: 0.3, model.AttrEmailClickRate: 0.1,
			model.AttrWebsiteSessions: 10, model.AttrSocialEngagement: 0.2,
		}},
	}

	var profiles []model.CustomerProfile
	for _, a := range archetypes {
		for i := 0; i < 40; i++ {
			profiles = append(profiles, archetypeProfile(fmt.Sprintf("%s_%d", a.prefix, i), a.attrs))
		}
	}

	// Missing email_open_rate: eligible for CLV-based rules, never for
	// engagement-based ones.
	profiles = append(profiles, archetypeProfile("noopen", map[string]float64{
		model.AttrTotalSpent: 200, model.AttrAvgOrderValue: 20, model.AttrPurchaseFrequency: 1,
		model.AttrCustomerLifetimeDays: 5, model.AttrDaysSinceLastPurchase: 10,
		model.AttrEmailClickRate: 0.9, model.AttrWebsiteSessions: 50, model.AttrSocialEngagement: 0.9,
	}))

	return profiles
}

func TestRuleSegmenterArchetypes(t *testing.T) {
	profiles := rulePopulation()
	derived := model.ComputeAllDerived(profiles)

	segmenter := NewRuleSegmenter(nil, 30)
	segments := segmenter.Apply(profiles, derived)

	require.Len(t, segments, 4)

	tests := []struct {
		id   string
		size int
	}{
		{"rules:high_value", 40},
		{"rules:new_customers", 41}, // the 40 new profiles plus noopen
		{"rules:at_risk", 40},
		{"rules:highly_engaged", 40},
	}
	for _, tt := range tests {
		seg, ok := segments[tt.id]
		require.True(t, ok, "missing segment %s", tt.id)
		assert.Equal(t, tt.size, seg.Size(), tt.id)
		assert.Equal(t, model.MethodRules, seg.Method)
	}

	assert.Contains(t, segments["rules:new_customers"].MemberIDs, "noopen")
	assert.NotContains(t, segments["rules:highly_engaged"].MemberIDs, "noopen")
}

func TestRuleSegmenterMutuallyExclusive(t *testing.T) {
	profiles := rulePopulation()
	derived := model.ComputeAllDerived(profiles)

	segments := NewRuleSegmenter(nil, 1).Apply(profiles, derived)

	seen := make(map[string]string)
	for id, seg := range segments {
		for _, member := range seg.MemberIDs {
			prev, dup := seen[member]
			assert.False(t, dup, "member %s in both %s and %s", member, prev, id)
			seen[member] = id
		}
	}
}

func TestRuleSegmenterPriorityOrder(t *testing.T) {
	// One profile qualifies for both high_value and highly_engaged; the
	// higher-priority rule claims it.
	modest := map[string]float64{
		model.AttrTotalSpent: 100, model.AttrAvgOrderValue: 10, model.AttrPurchaseFrequency: 1,
		model.AttrCustomerLifetimeDays: 300, model.AttrDaysSinceLastPurchase: 20,
		model.AttrEmailOpenRate: 0.1, model.AttrEmailClickRate: 0.1,
		model.AttrWebsiteSessions: 1, model.AttrSocialEngagement: 0.1,
	}

	var profiles []model.CustomerProfile
	for i := 0; i < 19; i++ {
		profiles = append(profiles, archetypeProfile(fmt.Sprintf("m_%d", i), modest))
	}
	profiles = append(profiles, archetypeProfile("both", map[string]float64{
		model.AttrTotalSpent: 10000, model.AttrAvgOrderValue: 100, model.AttrPurchaseFrequency: 5,
		model.AttrCustomerLifetimeDays: 200, model.AttrDaysSinceLastPurchase: 10,
		model.AttrEmailOpenRate: 0.9, model.AttrEmailClickRate: 0.8,
		model.AttrWebsiteSessions: 40, model.AttrSocialEngagement: 0.9,
	}))

	derived := model.ComputeAllDerived(profiles)
	segments := NewRuleSegmenter(nil, 1).Apply(profiles, derived)

	require.Contains(t, segments, "rules:high_value")
	assert.Contains(t, segments["rules:high_value"].MemberIDs, "both")
	if eng, ok := segments["rules:highly_engaged"]; ok {
		assert.NotContains(t, eng.MemberIDs, "both")
	}
}

func TestRuleSegmenterMinSize(t *testing.T) {
	profiles := rulePopulation()
	derived := model.ComputeAllDerived(profiles)

	segments := NewRuleSegmenter(nil, 50).Apply(profiles, derived)
	assert.Empty(t, segments)
}

func TestRuleSegmenterInactiveRuleSkipped(t *testing.T) {
	profiles := rulePopulation()
	derived := model.ComputeAllDerived(profiles)

	rules := DefaultRules()
	for i := range rules {
		if rules[i].Name == "high_value" {
			rules[i].IsActive = false
		}
	}

	segments := NewRuleSegmenter(rules, 1).Apply(profiles, derived)
	assert.NotContains(t, segments, "rules:high_value")
}

func TestRuleSegmenterEmptyPopulation(t *testing.T) {
	segments := NewRuleSegmenter(nil, 1).Apply(nil, nil)
	assert.Empty(t, segments)
}
