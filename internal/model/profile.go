// Package model defines the core data types shared across the segmentation pipeline.
package model

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"
)

// Names of the numeric attributes a CustomerProfile may carry.
const (
	AttrAge                   = "age"
	AttrIncome                = "income"
	AttrPurchaseFrequency     = "purchase_frequency"
	AttrAvgOrderValue         = "avg_order_value"
	AttrTotalSpent            = "total_spent"
	AttrDaysSinceLastPurchase = "days_since_last_purchase"
	AttrEmailOpenRate         = "email_open_rate"
	AttrEmailClickRate        = "email_click_rate"
	AttrWebsiteSessions       = "website_sessions"
	AttrSocialEngagement      = "social_media_engagement"
	AttrCustomerLifetimeDays  = "customer_lifetime_days"
)

// Names of the categorical attributes a CustomerProfile may carry.
const (
	AttrGender    = "gender"
	AttrEducation = "education"
	AttrLocation  = "location"
)

// NumericAttributes lists every recognized numeric attribute. Attributes
// outside this set are ignored at ingestion.
var NumericAttributes = []string{
	AttrAge,
	AttrIncome,
	AttrPurchaseFrequency,
	AttrAvgOrderValue,
	AttrTotalSpent,
	AttrDaysSinceLastPurchase,
	AttrEmailOpenRate,
	AttrEmailClickRate,
	AttrWebsiteSessions,
	AttrSocialEngagement,
	AttrCustomerLifetimeDays,
}

// CategoricalAttributes lists every recognized categorical attribute.
var CategoricalAttributes = []string{
	AttrGender,
	AttrEducation,
	AttrLocation,
}

// CustomerProfile is one customer record as supplied by the upstream
// extract. Profiles are immutable inputs: no segmenter writes to them.
// Attributes may be absent; accessors report presence explicitly.
type CustomerProfile struct {
	Numeric     map[string]float64
	Categorical map[string]string
	ID          string
}

// Num returns a numeric attribute and whether it is present.
func (p CustomerProfile) Num(name string) (float64, bool) {
	v, ok := p.Numeric[name]
	return v, ok
}

// Cat returns a categorical attribute and whether it is present.
func (p CustomerProfile) Cat(name string) (string, bool) {
	v, ok := p.Categorical[name]
	return v, ok
}

// Has reports whether every named attribute (numeric or categorical) is present.
func (p CustomerProfile) Has(names ...string) bool {
	for _, name := range names {
		if _, ok := p.Numeric[name]; ok {
			continue
		}
		if _, ok := p.Categorical[name]; ok {
			continue
		}
		return false
	}
	return true
}

// GenerateHash creates a stable content hash for duplicate detection on import.
func (p CustomerProfile) GenerateHash() string {
	keys := make([]string, 0, len(p.Numeric)+len(p.Categorical))
	for k := range p.Numeric {
		keys = append(keys, k)
	}
	for k := range p.Categorical {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(p.ID)
	for _, k := range keys {
		if v, ok := p.Numeric[k]; ok {
			fmt.Fprintf(&b, ":%s=%.4f", k, v)
		} else {
			fmt.Fprintf(&b, ":%s=%s", k, p.Categorical[k])
		}
	}

	hash := sha256.Sum256([]byte(b.String()))
	return fmt.Sprintf("%x", hash)
}
