package model

import "time"

// SegmentMethod identifies which segmenter produced a segment. Segments
// from different methods may share members; segments within one method
// never do.
type SegmentMethod string

// Segmentation methods.
const (
	MethodClustering SegmentMethod = "clustering"
	MethodRules      SegmentMethod = "rules"
	MethodRFM        SegmentMethod = "rfm"
	MethodValue      SegmentMethod = "value"
)

// AudienceSegment is one named, behaviorally coherent group of customers.
// It is created by exactly one segmenter; only later pipeline stages that
// own the revision (optimizer, strategy recommender) may amend it.
type AudienceSegment struct {
	CreatedAt       time.Time
	Characteristics SegmentCharacteristics
	ID              string
	Name            string
	Description     string
	Method          SegmentMethod
	MemberIDs       []string
	Strategies      []string
}

// Size returns the member count.
func (s AudienceSegment) Size() int {
	return len(s.MemberIDs)
}

// SegmentCharacteristics summarizes a segment's members along the
// demographic, behavioral, and engagement axes used by description
// synthesis and strategy inference.
type SegmentCharacteristics struct {
	GenderShare map[string]float64

	AvgAge               float64
	AvgIncome            float64
	AvgCLV               float64
	AvgEngagementScore   float64
	AvgPurchaseFrequency float64
	AvgOrderValue        float64
	AvgTotalSpent        float64
	AvgRecencyDays       float64
	AvgLifetimeDays      float64

	TopLocation  string
	TopEducation string
}
