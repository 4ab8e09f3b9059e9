// Package skim holds the travel-time store for one scenario: ingestion of
// the raw node-pair travel-time table, aggregation to zone pairs through
// the zone index, and the reachability queries the accessibility and
// time-band engines are built on. "Skim" is the conventional name for a
// precomputed zone-to-zone travel-time matrix in transport modelling.
package skim
