package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fullProfile(id string) CustomerProfile {
	return CustomerProfile{
		ID: id,
		Numeric: map[string]float64{
			AttrAge:                   34,
			AttrIncome:                72000,
			AttrPurchaseFrequency:     2,
			AttrAvgOrderValue:         50,
			AttrTotalSpent:            1000,
			AttrDaysSinceLastPurchase: 12,
			AttrEmailOpenRate:         0.5,
			AttrEmailClickRate:        0.2,
			AttrWebsiteSessions:       15,
			AttrSocialEngagement:      0.4,
			AttrCustomerLifetimeDays:  400,
		},
		Categorical: map[string]string{
			AttrGender:    "female",
			AttrEducation: "bachelors",
			AttrLocation:  "urban",
		},
	}
}

func TestComputeDerived(t *testing.T) {
	d := ComputeDerived(fullProfile("c1"))

	assert.True(t, d.HasCLV)
	// 1000 observed + 50 * 2 * 12 projected
	assert.InDelta(t, 2200, d.CLV, 1e-9)

	assert.True(t, d.HasEngagement)
	// 0.35*0.5 + 0.25*0.2 + 0.25*(15/30) + 0.15*0.4
	assert.InDelta(t, 0.41, d.EngagementScore, 1e-9)
}

func TestComputeDerivedMissingInputs(t *testing.T) {
	p := fullProfile("c2")
	delete(p.Numeric, AttrEmailOpenRate)

	d := ComputeDerived(p)
	assert.False(t, d.HasEngagement)
	assert.True(t, d.HasCLV, "CLV does not depend on engagement attributes")

	p = fullProfile("c3")
	delete(p.Numeric, AttrTotalSpent)
	d = ComputeDerived(p)
	assert.False(t, d.HasCLV)
	assert.True(t, d.HasEngagement)
}

func TestComputeDerivedClampsRates(t *testing.T) {
	p := fullProfile("c4")
	p.Numeric[AttrEmailOpenRate] = 1.8
	p.Numeric[AttrWebsiteSessions] = 500
	p.Numeric[AttrSocialEngagement] = 1.0
	p.Numeric[AttrEmailClickRate] = 1.0

	d := ComputeDerived(p)
	assert.LessOrEqual(t, d.EngagementScore, 1.0)
}

func TestComputeAllDerived(t *testing.T) {
	profiles := []CustomerProfile{fullProfile("a"), fullProfile("b")}
	derived := ComputeAllDerived(profiles)

	assert.Len(t, derived, 2)
	assert.Contains(t, derived, "a")
	assert.Contains(t, derived, "b")
}

func TestGenerateHashStable(t *testing.T) {
	a := fullProfile("c5")
	b := fullProfile("c5")
	assert.Equal(t, a.GenerateHash(), b.GenerateHash())

	b.Numeric[AttrAge] = 35
	assert.NotEqual(t, a.GenerateHash(), b.GenerateHash())
}
