package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/getcohort/cohort/internal/model"
)

// RenderSegments formats a segment collection as a terminal table, largest
// segments first.
func RenderSegments(segments map[string]model.AudienceSegment) string {
	if len(segments) == 0 {
		return SubtleStyle.Render("No segments.") + "\n"
	}

	ordered := make([]model.AudienceSegment, 0, len(segments))
	for _, seg := range segments {
		ordered = append(ordered, seg)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Size() != ordered[j].Size() {
			return ordered[i].Size() > ordered[j].Size()
		}
		return ordered[i].ID < ordered[j].ID
	})

	var b strings.Builder
	b.WriteString(TitleStyle.Render(fmt.Sprintf("Audience Segments (%d)", len(ordered))))
	b.WriteString("\n")
	b.WriteString(HeaderStyle.Render(fmt.Sprintf("%-28s %-10s %8s %10s %12s", "SEGMENT", "METHOD", "SIZE", "AVG CLV", "ENGAGEMENT")))
	b.WriteString("\n")

	for _, seg := range ordered {
		b.WriteString(fmt.Sprintf("%-28s %-10s %8d %10.0f %12.2f\n",
			truncate(seg.Name, 28),
			seg.Method,
			seg.Size(),
			seg.Characteristics.AvgCLV,
			seg.Characteristics.AvgEngagementScore))
	}

	return b.String()
}

// RenderSegmentDetail formats one segment with its description and
// recommended strategies.
func RenderSegmentDetail(seg model.AudienceSegment) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(seg.Name))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s\n", seg.Description))
	b.WriteString(SubtleStyle.Render(fmt.Sprintf("method=%s size=%d\n", seg.Method, seg.Size())))

	if len(seg.Strategies) > 0 {
		b.WriteString("\nRecommended strategies:\n")
		for _, strategy := range seg.Strategies {
			b.WriteString(fmt.Sprintf("  • %s\n", strategy))
		}
	}

	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
