package diag

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Warning type constants
const (
	// Travel-time table warnings
	WarningNegativeTime   = "negative_travel_time"
	WarningNonNumericTime = "non_numeric_travel_time"
	WarningMalformedRow   = "malformed_row"

	// Node resolution warnings
	WarningUnresolvedOriginNode      = "unresolved_origin_node"
	WarningUnresolvedDestinationNode = "unresolved_destination_node"

	// Zone attribute table warnings
	WarningMissingAttributeValue  = "missing_attribute_value"
	WarningNegativeAttributeValue = "negative_attribute_value"
)

// warningInfo holds aggregated information about a specific warning type
type warningInfo struct {
	count    int
	examples []string
}

// Aggregator collects data-integrity warnings during ingestion and
// computation and outputs consolidated summaries instead of one log line
// per bad row.
type Aggregator struct {
	mu       sync.Mutex
	warnings map[string]*warningInfo
}

// NewAggregator creates a new warning aggregator
func NewAggregator() *Aggregator {
	return &Aggregator{warnings: make(map[string]*warningInfo)}
}

// Add records a warning occurrence with an example row or node identifier
func (a *Aggregator) Add(warningType, exampleID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.warnings[warningType] == nil {
		a.warnings[warningType] = &warningInfo{examples: make([]string, 0, 3)}
	}

	info := a.warnings[warningType]
	info.count++

	// Store up to 3 examples
	if len(info.examples) < 3 {
		info.examples = append(info.examples, exampleID)
	}
}

// Count returns the number of occurrences recorded for a warning type.
func (a *Aggregator) Count(warningType string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	if info, ok := a.warnings[warningType]; ok {
		return info.count
	}
	return 0
}

// Total returns the number of occurrences across all warning types.
func (a *Aggregator) Total() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	total := 0
	for _, info := range a.warnings {
		total += info.count
	}
	return total
}

// Summary returns per-type occurrence counts for the diagnostics panel.
func (a *Aggregator) Summary() map[string]int {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(map[string]int, len(a.warnings))
	for t, info := range a.warnings {
		out[t] = info.count
	}
	return out
}

// LogAll outputs all collected warnings in consolidated format
func (a *Aggregator) LogAll(scenario string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.warnings) == 0 {
		return
	}

	types := make([]string, 0, len(a.warnings))
	for t := range a.warnings {
		types = append(types, t)
	}
	sort.Strings(types)

	for _, warningType := range types {
		logrus.Warn(formatWarningMessage(warningType, scenario, a.warnings[warningType]))
	}
}

// formatWarningMessage creates a human-readable warning message
func formatWarningMessage(warningType, scenario string, info *warningInfo) string {
	var description, action string

	switch warningType {
	case WarningNegativeTime:
		description = "rows with negative travel time"
		action = "Excluding rows from aggregation"
	case WarningNonNumericTime:
		description = "rows with non-numeric travel time"
		action = "Excluding rows from aggregation"
	case WarningMalformedRow:
		description = "rows with missing or malformed columns"
		action = "Excluding rows from aggregation"
	case WarningUnresolvedOriginNode:
		description = "origin nodes with no zone assignment"
		action = "Excluding rows from aggregation"
	case WarningUnresolvedDestinationNode:
		description = "destination nodes with no zone assignment"
		action = "Excluding rows from aggregation"
	case WarningMissingAttributeValue:
		description = "zones with no value for a requested attribute"
		action = "Treating missing values as 0"
	case WarningNegativeAttributeValue:
		description = "zones with negative attribute values"
		action = "Clipping values to 0"
	default:
		description = "unknown issue"
		action = "Continuing with valid subset"
	}

	examplesStr := strings.Join(info.examples, ", ")

	return fmt.Sprintf("Scenario %s has %s (%d occurrences). %s. Examples: %s",
		scenario, description, info.count, action, examplesStr)
}
