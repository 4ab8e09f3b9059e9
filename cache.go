package tazaccess

import (
	"fmt"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/theoremus-urban-solutions/taz-accessibility/zoning"
)

// ResultCache memoizes computed results by their full parameter key.
// Each computation is single-threaded, but the cache must tolerate
// concurrent readers from the HTTP layer, hence xsync maps rather than
// plain maps. Invalidation is wholesale: a scenario reload clears
// everything, there is no partial invalidation.
type ResultCache struct {
	access *xsync.MapOf[string, *AccessibilityResult]
	bands  *xsync.MapOf[string, *TimeBandResult]
}

func newResultCache() *ResultCache {
	return &ResultCache{
		access: xsync.NewMapOf[string, *AccessibilityResult](),
		bands:  xsync.NewMapOf[string, *TimeBandResult](),
	}
}

func accessKey(sc *Scenario, attribute string, threshold float64) string {
	return fmt.Sprintf("%s|%s|%g", sc.ID, attribute, threshold)
}

func bandKey(sc *Scenario, origin zoning.ZoneID, bandWidth float64, attribute string) string {
	return fmt.Sprintf("%s|%d|%g|%s", sc.ID, origin, bandWidth, attribute)
}

func (c *ResultCache) getAccess(key string) (*AccessibilityResult, bool) {
	return c.access.Load(key)
}

func (c *ResultCache) putAccess(key string, res *AccessibilityResult) {
	c.access.Store(key, res)
}

func (c *ResultCache) getBands(key string) (*TimeBandResult, bool) {
	return c.bands.Load(key)
}

func (c *ResultCache) putBands(key string, res *TimeBandResult) {
	c.bands.Store(key, res)
}

// Clear drops every cached result.
func (c *ResultCache) Clear() {
	c.access.Clear()
	c.bands.Clear()
}

// Len returns the number of cached entries across both result kinds.
func (c *ResultCache) Len() int {
	return c.access.Size() + c.bands.Size()
}
