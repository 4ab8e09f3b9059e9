// Package tazaccess computes zone-to-zone transportation accessibility
// metrics for a TAZ network: accessibility scores (the sum of a zone
// attribute reachable from each origin within a time threshold), banded
// reachability for a selected origin zone, and per-zone differences
// between a base and an uploaded scenario.
//
// The engine consumes three externally produced tables (zone attributes,
// a node-to-zone mapping, and one node-pair travel-time table per
// scenario) and produces zone-keyed numeric mappings ready for
// choropleth binning. Map rendering, file-upload widgets and export
// fallbacks are collaborators, not part of this module.
package tazaccess
