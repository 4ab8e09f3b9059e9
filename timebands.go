package tazaccess

import (
	"math"

	"github.com/theoremus-urban-solutions/taz-accessibility/diag"
	"github.com/theoremus-urban-solutions/taz-accessibility/zoning"
)

// ComputeBands buckets every destination zone reachable from origin into
// discrete travel-time bands of bandWidth minutes. Band i covers
// [i*bandWidth, (i+1)*bandWidth); the band count is derived from the
// largest finite travel time observed for the origin, and an open-ended
// trailing bucket collects the remainder so that band aggregates sum to
// the origin's accessibility at that maximum time. Destinations with no
// travel-time entry are excluded entirely.
func (e *Engine) ComputeBands(sc *Scenario, origin zoning.ZoneID, bandWidth float64, attribute string) (*TimeBandResult, error) {
	if bandWidth <= 0 {
		return nil, diag.NewValidationError("band_width", "must be > 0, got %g", bandWidth)
	}
	if !sc.Zones.Has(origin) {
		return nil, diag.NewValidationError("origin_zone", "zone %d is not in the zone set", origin)
	}
	if err := validateAttribute(sc, attribute); err != nil {
		return nil, err
	}

	key := bandKey(sc, origin, bandWidth, attribute)
	if res, ok := e.cache.getBands(key); ok {
		return res, nil
	}

	dests := sc.Store.DestinationsByTime(origin)
	maxTime := dests[len(dests)-1].Minutes
	bandCount := int(maxTime / bandWidth)

	res := &TimeBandResult{
		Scenario:  sc.Name,
		Origin:    origin,
		BandWidth: bandWidth,
		Attribute: attribute,
		Bands:     make([]TimeBand, 0, bandCount+1),
	}

	cumulative := 0.0
	next := 0 // index into dests, which is sorted ascending by time
	for i := 0; i <= bandCount; i++ {
		lower := float64(i) * bandWidth
		upper := lower + bandWidth
		overflow := i == bandCount
		if overflow {
			upper = math.Inf(1)
		}
		band := TimeBand{Index: i, Lower: lower, Upper: upper, Zones: []zoning.ZoneID{}}
		for next < len(dests) && (overflow || dests[next].Minutes < upper) {
			band.Zones = append(band.Zones, dests[next].Zone)
			if v, ok := sc.Zones.AttributeValue(dests[next].Zone, attribute); ok {
				band.Aggregate += v
			}
			next++
		}
		cumulative += band.Aggregate
		band.Cumulative = cumulative
		res.Bands = append(res.Bands, band)
	}
	res.Total = cumulative

	e.cache.putBands(key, res)
	return res, nil
}
