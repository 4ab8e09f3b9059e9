// Package zoning models the transportation analysis zone (TAZ) layer:
// the node-to-zone index used to aggregate node-pair travel times, the
// zone attribute table, and the catalog describing which attributes can
// participate in accessibility scoring. Zone geometry is owned by the
// visualization layer and never enters this package.
package zoning
