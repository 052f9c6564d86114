// Package segment implements the deterministic segmentation methods
// (business rules, RFM scoring, value bands) and the post-processing
// stages that merge, prune, and annotate segments.
package segment

import (
	"fmt"
	"time"

	"github.com/getcohort/cohort/internal/model"
)

// newSegment assembles an AudienceSegment for a method's named group.
// Segment IDs are deterministic (method:name) so identical runs produce
// identical id to member-set mappings.
func newSegment(method model.SegmentMethod, name, description string, members []model.CustomerProfile, derived map[string]model.DerivedMetrics) model.AudienceSegment {
	memberIDs := make([]string, len(members))
	for i, m := range members {
		memberIDs[i] = m.ID
	}

	return model.AudienceSegment{
		ID:              fmt.Sprintf("%s:%s", method, name),
		Name:            name,
		Description:     description,
		Method:          method,
		MemberIDs:       memberIDs,
		Characteristics: model.Characterize(members, derived),
		CreatedAt:       time.Now(),
	}
}
