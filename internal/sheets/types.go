package sheets

import (
	"github.com/shopspring/decimal"
)

// SummaryRow represents a single row in the Segments tab.
type SummaryRow struct {
	AvgCLV        decimal.Decimal
	AvgSpend      decimal.Decimal
	SegmentName   string
	Method        string
	Description   string
	Strategies    string
	Size          int
	AvgEngagement float64
}

// MemberCountRow represents a single row in the Methods tab.
type MemberCountRow struct {
	Method       string
	SegmentCount int
	MemberCount  int
}
