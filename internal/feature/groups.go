package feature

import (
	"github.com/getcohort/cohort/internal/common"
	"github.com/getcohort/cohort/internal/model"
)

// Group identifies one of the four feature groups. The set is closed:
// every encoded column belongs to exactly one group, and per-group weights
// are the only configuration knob.
type Group string

// Feature groups.
const (
	GroupDemographic   Group = "demographic"
	GroupBehavioral    Group = "behavioral"
	GroupPsychographic Group = "psychographic"
	GroupTemporal      Group = "temporal"
)

// Groups lists the feature groups in encoding order.
var Groups = []Group{
	GroupDemographic,
	GroupBehavioral,
	GroupPsychographic,
	GroupTemporal,
}

// Weights maps each feature group to its multiplier. Missing entries
// default to 1.0 at encode time.
type Weights map[Group]float64

// DefaultWeights returns uniform weights across all groups.
func DefaultWeights() Weights {
	w := make(Weights, len(Groups))
	for _, g := range Groups {
		w[g] = 1.0
	}
	return w
}

// weight returns the configured multiplier for a group, defaulting to 1.0.
func (w Weights) weight(g Group) float64 {
	if w == nil {
		return 1.0
	}
	if v, ok := w[g]; ok {
		return v
	}
	return 1.0
}

// groupProcessor encodes one feature group of a profile into floats.
type groupProcessor interface {
	group() Group
	columns() []string
	encode(p model.CustomerProfile, d model.DerivedMetrics, st *EncodingState) ([]float64, error)
}

// processors returns the fixed processor set in encoding order.
func processors() []groupProcessor {
	return []groupProcessor{
		demographicProcessor{},
		behavioralProcessor{},
		psychographicProcessor{},
		temporalProcessor{},
	}
}

// numericOf fetches a required numeric attribute or fails the profile.
func numericOf(p model.CustomerProfile, attr string) (float64, error) {
	v, ok := p.Num(attr)
	if !ok {
		return 0, common.NewFeatureError(p.ID, attr, "missing required attribute")
	}
	return v, nil
}

type demographicProcessor struct{}

func (demographicProcessor) group() Group { return GroupDemographic }

func (demographicProcessor) columns() []string {
	return []string{
		model.AttrAge,
		model.AttrIncome,
		model.AttrGender,
		model.AttrEducation,
		model.AttrLocation,
	}
}

func (demographicProcessor) encode(p model.CustomerProfile, _ model.DerivedMetrics, st *EncodingState) ([]float64, error) {
	out := make([]float64, 0, 5)

	for _, attr := range []string{model.AttrAge, model.AttrIncome} {
		v, err := numericOf(p, attr)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}

	for _, attr := range []string{model.AttrGender, model.AttrEducation, model.AttrLocation} {
		value, ok := p.Cat(attr)
		if !ok {
			return nil, common.NewFeatureError(p.ID, attr, "missing required attribute")
		}
		idx, ok := st.Index(attr, value)
		if !ok {
			return nil, common.NewFeatureError(p.ID, attr, "value not present in encoding table")
		}
		out = append(out, float64(idx))
	}

	return out, nil
}

type behavioralProcessor struct{}

func (behavioralProcessor) group() Group { return GroupBehavioral }

func (behavioralProcessor) columns() []string {
	return []string{
		model.AttrPurchaseFrequency,
		model.AttrAvgOrderValue,
		model.AttrTotalSpent,
		model.AttrWebsiteSessions,
	}
}

func (b behavioralProcessor) encode(p model.CustomerProfile, _ model.DerivedMetrics, _ *EncodingState) ([]float64, error) {
	out := make([]float64, 0, 4)
	for _, attr := range b.columns() {
		v, err := numericOf(p, attr)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

type psychographicProcessor struct{}

func (psychographicProcessor) group() Group { return GroupPsychographic }

func (psychographicProcessor) columns() []string {
	return []string{
		model.AttrEmailOpenRate,
		model.AttrEmailClickRate,
		model.AttrSocialEngagement,
		"engagement_score",
	}
}

func (psychographicProcessor) encode(p model.CustomerProfile, d model.DerivedMetrics, _ *EncodingState) ([]float64, error) {
	out := make([]float64, 0, 4)
	for _, attr := range []string{model.AttrEmailOpenRate, model.AttrEmailClickRate, model.AttrSocialEngagement} {
		v, err := numericOf(p, attr)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}

	if !d.HasEngagement {
		return nil, common.NewFeatureError(p.ID, "engagement_score", "underlying engagement attributes missing")
	}
	out = append(out, d.EngagementScore)

	return out, nil
}

type temporalProcessor struct{}

func (temporalProcessor) group() Group { return GroupTemporal }

func (temporalProcessor) columns() []string {
	return []string{
		model.AttrDaysSinceLastPurchase,
		model.AttrCustomerLifetimeDays,
	}
}

func (t temporalProcessor) encode(p model.CustomerProfile, _ model.DerivedMetrics, _ *EncodingState) ([]float64, error) {
	out := make([]float64, 0, 2)
	for _, attr := range t.columns() {
		v, err := numericOf(p, attr)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
