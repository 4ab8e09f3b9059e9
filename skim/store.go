package skim

import (
	"fmt"
	"sort"

	"github.com/theoremus-urban-solutions/taz-accessibility/diag"
	"github.com/theoremus-urban-solutions/taz-accessibility/zoning"
)

// AggregateRule selects how node-pair times collapse into one zone-pair
// time. AggregateMin (best-case connectivity) is the documented default;
// AggregateMean reproduces the historical behavior of the dashboard this
// engine was extracted from. Mean vs. min changes results materially, so
// the rule is a single explicit configuration point.
type AggregateRule string

const (
	AggregateMin  AggregateRule = "min"
	AggregateMean AggregateRule = "mean"
)

// ParseAggregateRule validates a configured rule name.
func ParseAggregateRule(s string) (AggregateRule, error) {
	switch AggregateRule(s) {
	case AggregateMin, AggregateMean:
		return AggregateRule(s), nil
	case "":
		return AggregateMin, nil
	default:
		return "", diag.NewValidationError("aggregate_rule", "unknown rule %q (want min or mean)", s)
	}
}

// Entry is one row of the raw node-pair travel-time table.
type Entry struct {
	OriginNode      zoning.NodeID
	DestinationNode zoning.NodeID
	Minutes         float64
}

// Pair is an aggregated (origin zone, destination zone) key.
type Pair struct {
	Origin      zoning.ZoneID
	Destination zoning.ZoneID
}

// ZoneTime is one destination zone with its aggregated travel time from a
// fixed origin.
type ZoneTime struct {
	Zone    zoning.ZoneID
	Minutes float64
}

// Store holds the zone-pair travel times for one scenario. It is built
// once per scenario load and read-only afterwards. The table is not
// guaranteed symmetric.
type Store struct {
	name  string
	rule  AggregateRule
	pairs map[Pair]float64
	// Per-origin destination lists sorted ascending by time, each
	// including the origin itself at time 0. Reachability and banding are
	// prefix scans over these lists rather than full zone-set scans.
	origins map[zoning.ZoneID][]ZoneTime
}

// NewStore validates and aggregates raw entries into a zone-pair store.
// Rows with negative times and rows whose nodes do not resolve through the
// index are excluded and counted on the aggregator; zero surviving rows is
// an EmptyResultError.
func NewStore(name string, entries []Entry, index *zoning.ZoneIndex, rule AggregateRule, warns *diag.Aggregator) (*Store, error) {
	type acc struct {
		min   float64
		sum   float64
		count int
	}
	accs := make(map[Pair]*acc, len(entries))
	valid := 0
	for _, e := range entries {
		if e.Minutes < 0 {
			warns.Add(diag.WarningNegativeTime, fmt.Sprintf("%d->%d", e.OriginNode, e.DestinationNode))
			continue
		}
		originZone, ok := index.Resolve(e.OriginNode)
		if !ok {
			warns.Add(diag.WarningUnresolvedOriginNode, fmt.Sprintf("node %d", e.OriginNode))
			continue
		}
		destZone, ok := index.Resolve(e.DestinationNode)
		if !ok {
			warns.Add(diag.WarningUnresolvedDestinationNode, fmt.Sprintf("node %d", e.DestinationNode))
			continue
		}
		valid++
		key := Pair{Origin: originZone, Destination: destZone}
		a, ok := accs[key]
		if !ok {
			accs[key] = &acc{min: e.Minutes, sum: e.Minutes, count: 1}
			continue
		}
		if e.Minutes < a.min {
			a.min = e.Minutes
		}
		a.sum += e.Minutes
		a.count++
	}
	if valid == 0 {
		return nil, &diag.EmptyResultError{Scenario: name}
	}

	pairs := make(map[Pair]float64, len(accs))
	for key, a := range accs {
		switch rule {
		case AggregateMean:
			pairs[key] = a.sum / float64(a.count)
		default:
			pairs[key] = a.min
		}
	}
	return newStore(name, rule, pairs), nil
}

// NewStoreFromPairs rebuilds a store from already-aggregated zone pairs,
// as loaded from the on-disk aggregation cache.
func NewStoreFromPairs(name string, rule AggregateRule, pairs map[Pair]float64) (*Store, error) {
	if len(pairs) == 0 {
		return nil, &diag.EmptyResultError{Scenario: name}
	}
	copied := make(map[Pair]float64, len(pairs))
	for k, v := range pairs {
		copied[k] = v
	}
	return newStore(name, rule, copied), nil
}

func newStore(name string, rule AggregateRule, pairs map[Pair]float64) *Store {
	s := &Store{
		name:    name,
		rule:    rule,
		pairs:   pairs,
		origins: make(map[zoning.ZoneID][]ZoneTime),
	}
	for key, minutes := range pairs {
		if key.Origin == key.Destination {
			continue // origin seated at time 0 below
		}
		s.origins[key.Origin] = append(s.origins[key.Origin], ZoneTime{Zone: key.Destination, Minutes: minutes})
	}
	// The self zone is always reachable at time 0, whatever the threshold.
	// An explicit intra-zonal pair stays visible through TimeBetween but
	// never delays self-reachability.
	for origin := range s.origins {
		s.origins[origin] = append(s.origins[origin], ZoneTime{Zone: origin, Minutes: 0})
	}
	for key := range pairs {
		if _, ok := s.origins[key.Origin]; !ok {
			s.origins[key.Origin] = []ZoneTime{{Zone: key.Origin, Minutes: 0}}
		}
	}
	for origin, dests := range s.origins {
		sort.Slice(dests, func(i, j int) bool {
			if dests[i].Minutes != dests[j].Minutes {
				return dests[i].Minutes < dests[j].Minutes
			}
			return dests[i].Zone < dests[j].Zone
		})
		s.origins[origin] = dests
	}
	return s
}

// Name returns the scenario name the store was built for.
func (s *Store) Name() string { return s.name }

// Rule returns the aggregation rule the store was built with.
func (s *Store) Rule() AggregateRule { return s.rule }

// PairCount returns the number of aggregated zone pairs.
func (s *Store) PairCount() int { return len(s.pairs) }

// TimeBetween returns the aggregated travel time between two zones. A
// zone's time to itself is 0 by convention when no explicit self pair
// exists. The second return is false when the pair has no entry.
func (s *Store) TimeBetween(origin, destination zoning.ZoneID) (float64, bool) {
	if t, ok := s.pairs[Pair{Origin: origin, Destination: destination}]; ok {
		return t, true
	}
	if origin == destination {
		return 0, true
	}
	return 0, false
}

// ReachableWithin returns the destination zones reachable from origin with
// travel time <= threshold, sorted by time then zone ID. The origin zone
// itself is always included for any threshold >= 0.
func (s *Store) ReachableWithin(origin zoning.ZoneID, threshold float64) []zoning.ZoneID {
	dests := s.DestinationsByTime(origin)
	cut := sort.Search(len(dests), func(i int) bool { return dests[i].Minutes > threshold })
	out := make([]zoning.ZoneID, cut)
	for i := 0; i < cut; i++ {
		out[i] = dests[i].Zone
	}
	return out
}

// DestinationsByTime returns the precomputed destination list for an
// origin, sorted ascending by travel time and always containing the origin
// itself. Callers must not mutate the returned slice.
func (s *Store) DestinationsByTime(origin zoning.ZoneID) []ZoneTime {
	if dests, ok := s.origins[origin]; ok {
		return dests
	}
	// No pairs for this origin at all: only the self zone is reachable.
	return []ZoneTime{{Zone: origin, Minutes: 0}}
}

// MaxTimeFrom returns the largest finite travel time observed from an
// origin (0 when only the self zone is reachable).
func (s *Store) MaxTimeFrom(origin zoning.ZoneID) float64 {
	dests := s.DestinationsByTime(origin)
	return dests[len(dests)-1].Minutes
}

// ForEachPair visits every aggregated zone pair. Iteration order is not
// specified; callers needing determinism must sort.
func (s *Store) ForEachPair(fn func(pair Pair, minutes float64)) {
	for key, minutes := range s.pairs {
		fn(key, minutes)
	}
}
