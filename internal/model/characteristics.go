package model

// Characterize aggregates demographic, behavioral, and engagement
// statistics over a segment's members. Averages are taken over the members
// that actually carry each attribute, so one sparse profile does not drag
// a mean toward zero.
func Characterize(members []CustomerProfile, derived map[string]DerivedMetrics) SegmentCharacteristics {
	var c SegmentCharacteristics

	avg := func(attr string) float64 {
		var sum float64
		var n int
		for _, m := range members {
			if v, ok := m.Num(attr); ok {
				sum += v
				n++
			}
		}
		if n == 0 {
			return 0
		}
		return sum / float64(n)
	}

	c.AvgAge = avg(AttrAge)
	c.AvgIncome = avg(AttrIncome)
	c.AvgPurchaseFrequency = avg(AttrPurchaseFrequency)
	c.AvgOrderValue = avg(AttrAvgOrderValue)
	c.AvgTotalSpent = avg(AttrTotalSpent)
	c.AvgRecencyDays = avg(AttrDaysSinceLastPurchase)
	c.AvgLifetimeDays = avg(AttrCustomerLifetimeDays)

	var clvSum, engSum float64
	var clvN, engN int
	for _, m := range members {
		d, ok := derived[m.ID]
		if !ok {
			continue
		}
		if d.HasCLV {
			clvSum += d.CLV
			clvN++
		}
		if d.HasEngagement {
			engSum += d.EngagementScore
			engN++
		}
	}
	if clvN > 0 {
		c.AvgCLV = clvSum / float64(clvN)
	}
	if engN > 0 {
		c.AvgEngagementScore = engSum / float64(engN)
	}

	c.GenderShare = share(members, AttrGender)
	c.TopLocation = mode(members, AttrLocation)
	c.TopEducation = mode(members, AttrEducation)

	return c
}

// share returns each categorical value's fraction of the members that
// carry the attribute.
func share(members []CustomerProfile, attr string) map[string]float64 {
	counts := make(map[string]int)
	total := 0
	for _, m := range members {
		if v, ok := m.Cat(attr); ok {
			counts[v]++
			total++
		}
	}
	if total == 0 {
		return nil
	}
	shares := make(map[string]float64, len(counts))
	for v, n := range counts {
		shares[v] = float64(n) / float64(total)
	}
	return shares
}

// mode returns the most common categorical value, ties broken
// lexicographically for determinism.
func mode(members []CustomerProfile, attr string) string {
	counts := make(map[string]int)
	for _, m := range members {
		if v, ok := m.Cat(attr); ok {
			counts[v]++
		}
	}

	best := ""
	bestN := 0
	for v, n := range counts {
		if n > bestN || (n == bestN && v < best) {
			best = v
			bestN = n
		}
	}
	return best
}
