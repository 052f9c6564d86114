package segment

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getcohort/cohort/internal/model"
)

// clvRampPopulation returns 100 profiles whose lifetime value is exactly
// their index: order value and frequency are zero so CLV reduces to total
// spend.
func clvRampPopulation() []model.CustomerProfile {
	var profiles []model.CustomerProfile
	for i := 1; i <= 100; i++ {
		profiles = append(profiles, model.CustomerProfile{
			ID: fmt.Sprintf("c%d", i),
			Numeric: map[string]float64{
				model.AttrTotalSpent:        float64(i),
				model.AttrAvgOrderValue:     0,
				model.AttrPurchaseFrequency: 0,
			},
		})
	}
	return profiles
}

func TestValueSegmenterBands(t *testing.T) {
	profiles := clvRampPopulation()
	derived := model.ComputeAllDerived(profiles)

	segments := NewValueSegmenter(10).Apply(profiles, derived)
	require.Len(t, segments, 2)

	// P75 of 1..100 is 75.25, P25 is 25.75: 76..100 land high, 26..75 medium.
	high := segments["value:high_clv"]
	medium := segments["value:medium_clv"]
	assert.Equal(t, 25, high.Size())
	assert.Equal(t, 50, medium.Size())
	assert.Equal(t, model.MethodValue, high.Method)

	assert.Contains(t, high.MemberIDs, "c100")
	assert.Contains(t, high.MemberIDs, "c76")
	assert.Contains(t, medium.MemberIDs, "c75")
	assert.Contains(t, medium.MemberIDs, "c26")
	assert.NotContains(t, medium.MemberIDs, "c25")
}

func TestValueSegmenterSkipsProfilesWithoutCLV(t *testing.T) {
	profiles := clvRampPopulation()
	profiles = append(profiles, model.CustomerProfile{
		ID:      "sparse",
		Numeric: map[string]float64{model.AttrTotalSpent: 5000},
	})
	derived := model.ComputeAllDerived(profiles)

	segments := NewValueSegmenter(10).Apply(profiles, derived)
	for _, seg := range segments {
		assert.NotContains(t, seg.MemberIDs, "sparse")
	}
}

func TestValueSegmenterMinSize(t *testing.T) {
	profiles := clvRampPopulation()
	derived := model.ComputeAllDerived(profiles)

	segments := NewValueSegmenter(30).Apply(profiles, derived)
	require.Len(t, segments, 1)
	assert.Contains(t, segments, "value:medium_clv")
}

func TestValueSegmenterEmptyPopulation(t *testing.T) {
	assert.Empty(t, NewValueSegmenter(1).Apply(nil, nil))
}
