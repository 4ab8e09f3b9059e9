package tazaccess

import (
	"encoding/json"
	"math"
	"sort"

	"github.com/theoremus-urban-solutions/taz-accessibility/zoning"
)

// AccessibilityResult maps every origin zone to the sum of an attribute
// over all destination zones reachable within the threshold. Results are
// immutable once computed and cached by (scenario, attribute, threshold).
type AccessibilityResult struct {
	Scenario  string                    `json:"scenario"`
	Attribute string                    `json:"attribute"`
	Threshold float64                   `json:"threshold"`
	Scores    map[zoning.ZoneID]float64 `json:"scores"`
	// PercentOfTotal is each score as a share of the citywide attribute
	// total, rounded to whole percent for display.
	PercentOfTotal map[zoning.ZoneID]float64 `json:"percent_of_total"`
	// AttributeTotal is the citywide attribute sum the percentages are
	// relative to.
	AttributeTotal float64 `json:"attribute_total"`
}

// Score returns a zone's accessibility score (0 for unknown zones).
func (r *AccessibilityResult) Score(zone zoning.ZoneID) float64 {
	return r.Scores[zone]
}

// ZoneIDs returns the scored zones in canonical sorted order.
func (r *AccessibilityResult) ZoneIDs() []zoning.ZoneID {
	ids := make([]zoning.ZoneID, 0, len(r.Scores))
	for id := range r.Scores {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// TimeBand is one discrete travel-time interval for a fixed origin zone.
// Regular bands cover [Lower, Upper); the trailing overflow band has
// Upper = +Inf and collects every remaining reachable destination so band
// aggregates always sum to the origin's accessibility at its maximum
// observed travel time.
type TimeBand struct {
	Index      int             `json:"index"`
	Lower      float64         `json:"lower"`
	Upper      float64         `json:"upper"`
	Aggregate  float64         `json:"aggregate"`
	Cumulative float64         `json:"cumulative"`
	Zones      []zoning.ZoneID `json:"zones"`
}

// Overflow reports whether the band is the open-ended trailing bucket.
func (b TimeBand) Overflow() bool { return math.IsInf(b.Upper, 1) }

// MarshalJSON emits the overflow band's upper bound as null, since JSON
// has no representation for +Inf.
func (b TimeBand) MarshalJSON() ([]byte, error) {
	type wireBand struct {
		Index      int             `json:"index"`
		Lower      float64         `json:"lower"`
		Upper      *float64        `json:"upper"`
		Aggregate  float64         `json:"aggregate"`
		Cumulative float64         `json:"cumulative"`
		Zones      []zoning.ZoneID `json:"zones"`
	}
	wb := wireBand{
		Index:      b.Index,
		Lower:      b.Lower,
		Aggregate:  b.Aggregate,
		Cumulative: b.Cumulative,
		Zones:      b.Zones,
	}
	if !b.Overflow() {
		wb.Upper = &b.Upper
	}
	return json.Marshal(wb)
}

// ZoneCount returns the number of destination zones in the band.
func (b TimeBand) ZoneCount() int { return len(b.Zones) }

// TimeBandResult holds banded reachability for one origin zone.
// Destinations with no travel-time entry are excluded entirely, never
// placed in a band.
type TimeBandResult struct {
	Scenario  string        `json:"scenario"`
	Origin    zoning.ZoneID `json:"origin"`
	BandWidth float64       `json:"band_width"`
	Attribute string        `json:"attribute"`
	Bands     []TimeBand    `json:"bands"`
	// Total equals the origin's accessibility at its maximum observed
	// travel time.
	Total float64 `json:"total"`
}
