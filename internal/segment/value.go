package segment

import (
	"github.com/getcohort/cohort/internal/model"
	"github.com/getcohort/cohort/internal/stats"
)

// ValueSegmenter buckets customers by lifetime-value quartile: a high
// band above the 75th percentile and a medium band between the 25th and
// 75th.
type ValueSegmenter struct {
	minSize int
}

// NewValueSegmenter creates a value-band segmenter.
func NewValueSegmenter(minSize int) *ValueSegmenter {
	return &ValueSegmenter{minSize: minSize}
}

// Apply splits the population into CLV bands and returns those meeting
// the minimum size.
func (s *ValueSegmenter) Apply(profiles []model.CustomerProfile, derived map[string]model.DerivedMetrics) map[string]model.AudienceSegment {
	var clvs []float64
	for _, p := range profiles {
		if d := derived[p.ID]; d.HasCLV {
			clvs = append(clvs, d.CLV)
		}
	}
	if len(clvs) == 0 {
		return map[string]model.AudienceSegment{}
	}

	p25 := stats.Percentile(clvs, 25)
	p75 := stats.Percentile(clvs, 75)

	var high, medium []model.CustomerProfile
	for _, p := range profiles {
		d := derived[p.ID]
		if !d.HasCLV {
			continue
		}
		switch {
		case d.CLV > p75:
			high = append(high, p)
		case d.CLV >= p25:
			medium = append(medium, p)
		}
	}

	segments := make(map[string]model.AudienceSegment)
	if len(high) >= s.minSize {
		seg := newSegment(model.MethodValue, "high_clv",
			"Top quartile of customers by lifetime value", high, derived)
		segments[seg.ID] = seg
	}
	if len(medium) >= s.minSize {
		seg := newSegment(model.MethodValue, "medium_clv",
			"Middle half of customers by lifetime value", medium, derived)
		segments[seg.ID] = seg
	}

	return segments
}
