package segment

import (
	"fmt"
	"log/slog"

	"github.com/getcohort/cohort/internal/model"
	"github.com/getcohort/cohort/internal/stats"
)

// rfmEntry maps a named behavioral segment to the 3-digit RFM codes that
// qualify for it.
type rfmEntry struct {
	name        string
	description string
	codes       []string
}

// rfmTable is the fixed code lookup, evaluated in order. Some codes appear
// under more than one candidate name (e.g. 255 and 254 under both at_risk
// and cannot_lose_them); the FIRST entry containing a code wins, so every
// code resolves to exactly one name per run.
var rfmTable = []rfmEntry{
	{
		name:        "champions",
		description: "Bought recently, buy often, and spend the most",
		codes:       []string{"555", "554", "545", "544", "455", "454", "445"},
	},
	{
		name:        "loyal_customers",
		description: "Buy regularly and respond well to promotions",
		codes:       []string{"543", "444", "435", "355", "354", "345", "344", "335"},
	},
	{
		name:        "potential_loyalists",
		description: "Recent buyers with average frequency, worth nurturing",
		codes: []string{
			"553", "552", "551", "542", "541", "533", "532", "531",
			"453", "452", "451", "442", "441", "433", "432", "431",
			"423", "353", "352", "351", "342", "341", "333", "323",
		},
	},
	{
		name:        "new_buyers",
		description: "Bought very recently for the first time",
		codes:       []string{"512", "511", "422", "421", "412", "411", "311"},
	},
	{
		name:        "promising",
		description: "Recent shoppers who have not spent much yet",
		codes: []string{
			"525", "524", "523", "522", "521", "515", "514", "513",
			"425", "424", "415", "414", "413", "315", "314", "313",
		},
	},
	{
		name:        "need_attention",
		description: "Above-average recency and spend, slipping on frequency",
		codes:       []string{"535", "534", "443", "434", "343", "334", "325", "324"},
	},
	{
		name:        "about_to_sleep",
		description: "Below-average recency and frequency, at risk of lapsing",
		codes:       []string{"331", "321", "312", "251", "241", "231", "221", "213"},
	},
	{
		name:        "at_risk",
		description: "Spent big and often, but long ago",
		codes: []string{
			"255", "254", "253", "252", "245", "244", "243", "242",
			"235", "234", "225", "224", "153", "152", "145", "143",
			"142", "135", "134", "133", "125", "124",
		},
	},
	{
		name:        "cannot_lose_them",
		description: "Made the biggest purchases, but have not returned",
		// 255 and 254 also appear under at_risk above; the earlier entry wins.
		codes: []string{"255", "254", "155", "154", "144", "215", "214", "115", "114", "113"},
	},
	{
		name:        "hibernating",
		description: "Low spenders with long gaps since their last order",
		codes: []string{
			"332", "322", "233", "232", "223", "222",
			"132", "123", "122", "212", "211",
		},
	},
	{
		name:        "lost",
		description: "Lowest recency, frequency, and spend",
		codes:       []string{"111", "112", "121", "131", "141", "151"},
	},
}

// RFMSegmenter scores customers on Recency, Frequency, and Monetary
// quintiles and maps the resulting 3-digit code to a named segment.
type RFMSegmenter struct {
	lookup  map[string]int // code -> index into rfmTable, first entry wins
	minSize int
}

// NewRFMSegmenter creates an RFM segmenter.
func NewRFMSegmenter(minSize int) *RFMSegmenter {
	lookup := make(map[string]int)
	for i, entry := range rfmTable {
		for _, code := range entry.codes {
			if _, taken := lookup[code]; taken {
				continue
			}
			lookup[code] = i
		}
	}
	return &RFMSegmenter{lookup: lookup, minSize: minSize}
}

// Score returns the R, F, M quintile scores (1-5, 5 best) for one profile
// against the population distributions.
func (s *RFMSegmenter) Score(p model.CustomerProfile, recency, frequency, monetary []float64) (r, f, m int, ok bool) {
	if !p.Has(model.AttrDaysSinceLastPurchase, model.AttrPurchaseFrequency, model.AttrTotalSpent) {
		return 0, 0, 0, false
	}

	// Recency inverts: fewer days since last purchase is better.
	r = 6 - stats.QuintileScore(recency, p.Numeric[model.AttrDaysSinceLastPurchase])
	f = stats.QuintileScore(frequency, p.Numeric[model.AttrPurchaseFrequency])
	m = stats.QuintileScore(monetary, p.Numeric[model.AttrTotalSpent])
	return r, f, m, true
}

// Apply scores the population and returns the named RFM segments meeting
// the minimum size.
func (s *RFMSegmenter) Apply(profiles []model.CustomerProfile, derived map[string]model.DerivedMetrics) map[string]model.AudienceSegment {
	var recency, frequency, monetary []float64
	for _, p := range profiles {
		if !p.Has(model.AttrDaysSinceLastPurchase, model.AttrPurchaseFrequency, model.AttrTotalSpent) {
			continue
		}
		recency = append(recency, p.Numeric[model.AttrDaysSinceLastPurchase])
		frequency = append(frequency, p.Numeric[model.AttrPurchaseFrequency])
		monetary = append(monetary, p.Numeric[model.AttrTotalSpent])
	}

	members := make(map[int][]model.CustomerProfile)
	unmatched := 0
	for _, p := range profiles {
		r, f, m, ok := s.Score(p, recency, frequency, monetary)
		if !ok {
			continue
		}

		code := fmt.Sprintf("%d%d%d", r, f, m)
		idx, ok := s.lookup[code]
		if !ok {
			unmatched++
			continue
		}
		members[idx] = append(members[idx], p)
	}

	if unmatched > 0 {
		slog.Debug("RFM codes without a named segment", "profiles", unmatched)
	}

	segments := make(map[string]model.AudienceSegment)
	for idx, entry := range rfmTable {
		group := members[idx]
		if len(group) < s.minSize {
			continue
		}
		seg := newSegment(model.MethodRFM, entry.name, entry.description, group, derived)
		segments[seg.ID] = seg
	}

	return segments
}
