package model

import "time"

// SegmentRun is one completed orchestration: the final segment collection
// plus enough metadata to reproduce it (profile count, seed).
type SegmentRun struct {
	CreatedAt    time.Time
	Segments     map[string]AudienceSegment
	ID           string
	Seed         int64
	ProfileCount int
}
