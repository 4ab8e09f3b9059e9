package tazaccess

import (
	"sort"

	"github.com/theoremus-urban-solutions/taz-accessibility/diag"
	"github.com/theoremus-urban-solutions/taz-accessibility/zoning"
)

// ZoneDelta is one zone's comparison between two scenario results.
// Delta is other - base, so positive means improvement in the uploaded
// scenario. PercentChange is nil when the base value is 0: the relative
// change is undefined, not a division error.
type ZoneDelta struct {
	Base          float64  `json:"base"`
	Other         float64  `json:"other"`
	Delta         float64  `json:"delta"`
	PercentChange *float64 `json:"percent_change"`
}

// ComparisonResult holds the per-zone and aggregate differences between a
// base and another scenario result for the same attribute and threshold.
type ComparisonResult struct {
	Attribute  string                      `json:"attribute"`
	Threshold  float64                     `json:"threshold"`
	Zones      map[zoning.ZoneID]ZoneDelta `json:"zones"`
	TotalBase  float64                     `json:"total_base"`
	TotalOther float64                     `json:"total_other"`
	TotalDelta float64                     `json:"total_delta"`
}

// ZoneIDs returns the compared zones in canonical sorted order.
func (c *ComparisonResult) ZoneIDs() []zoning.ZoneID {
	ids := make([]zoning.ZoneID, 0, len(c.Zones))
	for id := range c.Zones {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Compare computes per-zone deltas between two accessibility results.
// Zones present in only one result use 0 for the missing side. Both
// results must have been computed for the same attribute and threshold.
// Iteration and summation follow canonical sorted zone order, so
// identical inputs always produce identical output.
func Compare(base, other *AccessibilityResult) (*ComparisonResult, error) {
	if base.Attribute != other.Attribute {
		return nil, diag.NewValidationError("comparison",
			"attribute mismatch: %q vs %q", base.Attribute, other.Attribute)
	}
	if base.Threshold != other.Threshold {
		return nil, diag.NewValidationError("comparison",
			"threshold mismatch: %g vs %g", base.Threshold, other.Threshold)
	}

	union := make(map[zoning.ZoneID]struct{}, len(base.Scores))
	for id := range base.Scores {
		union[id] = struct{}{}
	}
	for id := range other.Scores {
		union[id] = struct{}{}
	}
	ids := make([]zoning.ZoneID, 0, len(union))
	for id := range union {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	res := &ComparisonResult{
		Attribute: base.Attribute,
		Threshold: base.Threshold,
		Zones:     make(map[zoning.ZoneID]ZoneDelta, len(ids)),
	}
	for _, id := range ids {
		b := base.Scores[id]
		o := other.Scores[id]
		d := ZoneDelta{Base: b, Other: o, Delta: o - b}
		if b != 0 {
			pct := (o - b) / b * 100
			d.PercentChange = &pct
		}
		res.Zones[id] = d
		res.TotalBase += b
		res.TotalOther += o
		res.TotalDelta += d.Delta
	}
	return res, nil
}
