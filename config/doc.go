// Package config loads and validates the application configuration from a
// YAML file. Data file locations, analysis defaults, the zone-pair
// aggregation rule and the attribute catalog extensions all live here so
// the engine itself carries no ambient state.
package config
