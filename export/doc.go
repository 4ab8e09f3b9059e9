// Package export renders computed results as CSV or JSON for the
// download path of the operator dashboard. Map/PNG export and its HTML
// fallback live in the visualization layer, not here.
package export
