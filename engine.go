package tazaccess

import (
	"math"

	"github.com/sirupsen/logrus"
	"github.com/theoremus-urban-solutions/taz-accessibility/diag"
	"github.com/theoremus-urban-solutions/taz-accessibility/zoning"
)

// Engine computes accessibility scores and time-band reachability over a
// scenario. Computations are synchronous and run to completion; the only
// state the engine carries across calls is the result cache.
type Engine struct {
	cache *ResultCache
}

// NewEngine creates an engine with an empty result cache.
func NewEngine() *Engine {
	return &Engine{cache: newResultCache()}
}

// Invalidate clears the whole result cache. Called when a scenario is
// loaded or replaced.
func (e *Engine) Invalidate() {
	e.cache.Clear()
}

// CachedResults returns the number of memoized results, for diagnostics.
func (e *Engine) CachedResults() int {
	return e.cache.Len()
}

// validateAttribute checks the attribute against the scenario's catalog.
func validateAttribute(sc *Scenario, attribute string) error {
	meta, ok := sc.Catalog.Lookup(attribute)
	if !ok {
		return diag.NewValidationError("attribute", "unknown attribute %q", attribute)
	}
	if !meta.Aggregable {
		return diag.NewValidationError("attribute",
			"attribute %q is not aggregable; summing a rate across zones is not a meaningful accessibility score", attribute)
	}
	return nil
}

// Compute returns, for every zone in the scenario's zone set, the sum of
// the attribute over all destination zones reachable within threshold
// minutes. Missing attribute values contribute 0. Identical parameters
// against an unchanged scenario return the cached result.
func (e *Engine) Compute(sc *Scenario, attribute string, threshold float64) (*AccessibilityResult, error) {
	if threshold <= 0 {
		return nil, diag.NewValidationError("threshold", "must be > 0, got %g", threshold)
	}
	if err := validateAttribute(sc, attribute); err != nil {
		return nil, err
	}

	key := accessKey(sc, attribute, threshold)
	if res, ok := e.cache.getAccess(key); ok {
		return res, nil
	}

	total := sc.Zones.AttributeTotal(attribute)
	res := &AccessibilityResult{
		Scenario:       sc.Name,
		Attribute:      attribute,
		Threshold:      threshold,
		Scores:         make(map[zoning.ZoneID]float64, sc.Zones.Len()),
		PercentOfTotal: make(map[zoning.ZoneID]float64, sc.Zones.Len()),
		AttributeTotal: total,
	}
	missing := 0
	for _, origin := range sc.Zones.IDs() {
		score := 0.0
		for _, dest := range sc.Store.ReachableWithin(origin, threshold) {
			v, ok := sc.Zones.AttributeValue(dest, attribute)
			if !ok {
				missing++
				continue
			}
			score += v
		}
		res.Scores[origin] = score
		if total > 0 {
			res.PercentOfTotal[origin] = math.Round(score / total * 100)
		} else {
			res.PercentOfTotal[origin] = 0
		}
	}
	if missing > 0 {
		logrus.Debugf("accessibility %s/%s@%g: %d reachable destinations had no attribute value, counted as 0",
			sc.Name, attribute, threshold, missing)
	}

	e.cache.putAccess(key, res)
	return res, nil
}
