package segment

import (
	"log/slog"
	"sort"

	"github.com/getcohort/cohort/internal/model"
)

// Optimizer prunes the merged segment collection: undersized segments are
// dropped, and when the remainder still exceeds the configured maximum,
// only the top segments by aggregate engagement score are retained.
// Overlap across methods is left alone; members are never deduplicated.
type Optimizer struct {
	minSize     int
	maxSegments int
}

// NewOptimizer creates a segment optimizer.
func NewOptimizer(minSize, maxSegments int) *Optimizer {
	return &Optimizer{minSize: minSize, maxSegments: maxSegments}
}

// Optimize applies both pruning passes and returns the surviving segments.
func (o *Optimizer) Optimize(segments map[string]model.AudienceSegment) map[string]model.AudienceSegment {
	kept := make(map[string]model.AudienceSegment, len(segments))
	for id, seg := range segments {
		if seg.Size() < o.minSize {
			slog.Debug("Dropping undersized segment",
				"segment", id,
				"size", seg.Size(),
				"min_segment_size", o.minSize)
			continue
		}
		kept[id] = seg
	}

	if len(kept) <= o.maxSegments {
		return kept
	}

	// Rank by engagement, ID breaking ties for determinism. Segments past
	// the cap are discarded even though they met the size floor; that
	// policy is deliberate and logged so it is visible when it acts.
	ids := make([]string, 0, len(kept))
	for id := range kept {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := kept[ids[i]], kept[ids[j]]
		if a.Characteristics.AvgEngagementScore != b.Characteristics.AvgEngagementScore {
			return a.Characteristics.AvgEngagementScore > b.Characteristics.AvgEngagementScore
		}
		return ids[i] < ids[j]
	})

	result := make(map[string]model.AudienceSegment, o.maxSegments)
	for _, id := range ids[:o.maxSegments] {
		result[id] = kept[id]
	}

	for _, id := range ids[o.maxSegments:] {
		slog.Warn("Discarding segment over max_segments cap",
			"segment", id,
			"size", kept[id].Size(),
			"avg_engagement", kept[id].Characteristics.AvgEngagementScore)
	}

	return result
}
