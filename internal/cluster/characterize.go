package cluster

import (
	"fmt"
	"time"

	"github.com/getcohort/cohort/internal/model"
)

// characterize builds an AudienceSegment from a cluster's members: the
// aggregate statistics plus a human-readable description synthesized from
// the dominant trait bands.
func (e *Engine) characterize(ordinal int, members []model.CustomerProfile, derived map[string]model.DerivedMetrics) model.AudienceSegment {
	chars := model.Characterize(members, derived)

	name := fmt.Sprintf("cluster_%d", ordinal)
	memberIDs := make([]string, len(members))
	for i, m := range members {
		memberIDs[i] = m.ID
	}

	return model.AudienceSegment{
		ID:              fmt.Sprintf("%s:%s", model.MethodClustering, name),
		Name:            name,
		Description:     describeCluster(chars),
		Method:          model.MethodClustering,
		MemberIDs:       memberIDs,
		Characteristics: chars,
		CreatedAt:       time.Now(),
	}
}

// describeCluster renders the dominant age, income, value, and engagement
// bands as a sentence.
func describeCluster(c model.SegmentCharacteristics) string {
	return fmt.Sprintf("%s, %s customers with %s engagement and %s lifetime value",
		ageBand(c.AvgAge),
		incomeBand(c.AvgIncome),
		engagementBand(c.AvgEngagementScore),
		valueBand(c.AvgCLV))
}

func ageBand(age float64) string {
	switch {
	case age < 30:
		return "Young adult"
	case age < 45:
		return "Mid-career"
	case age < 60:
		return "Established"
	default:
		return "Senior"
	}
}

func incomeBand(income float64) string {
	switch {
	case income < 40000:
		return "budget-conscious"
	case income < 90000:
		return "mid-market"
	default:
		return "affluent"
	}
}

func engagementBand(score float64) string {
	switch {
	case score < 0.3:
		return "low"
	case score < 0.5:
		return "moderate"
	default:
		return "high"
	}
}

func valueBand(clv float64) string {
	switch {
	case clv < 500:
		return "low"
	case clv < 1500:
		return "medium"
	default:
		return "high"
	}
}
