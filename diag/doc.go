// Package diag holds the error taxonomy and data-integrity warning
// aggregation shared by the ingestion and computation layers.
//
// Parameter and contract violations are ValidationError values and fail
// fast. Integrity issues in the input tables (negative times, unresolved
// nodes, missing attribute values) are collected by an Aggregator with
// counts and examples, and processing continues on the valid subset.
package diag
