package skim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theoremus-urban-solutions/taz-accessibility/diag"
	"github.com/theoremus-urban-solutions/taz-accessibility/zoning"
)

func testIndex(t *testing.T) *zoning.ZoneIndex {
	t.Helper()
	ix, err := zoning.NewZoneIndex([]zoning.MappingRow{
		{Node: 101, Zone: 1},
		{Node: 102, Zone: 1},
		{Node: 201, Zone: 2},
		{Node: 301, Zone: 3},
	})
	require.NoError(t, err)
	return ix
}

func TestParseAggregateRule(t *testing.T) {
	rule, err := ParseAggregateRule("")
	require.NoError(t, err)
	assert.Equal(t, AggregateMin, rule)

	rule, err = ParseAggregateRule("mean")
	require.NoError(t, err)
	assert.Equal(t, AggregateMean, rule)

	_, err = ParseAggregateRule("median")
	require.Error(t, err)
	assert.True(t, diag.IsValidation(err))
}

func TestNewStoreMinRule(t *testing.T) {
	entries := []Entry{
		{OriginNode: 101, DestinationNode: 201, Minutes: 20},
		{OriginNode: 102, DestinationNode: 201, Minutes: 10},
		{OriginNode: 101, DestinationNode: 301, Minutes: 30},
	}
	warns := diag.NewAggregator()
	s, err := NewStore("base", entries, testIndex(t), AggregateMin, warns)
	require.NoError(t, err)

	// two node pairs collapse into zone pair 1->2 keeping the minimum
	m, ok := s.TimeBetween(1, 2)
	assert.True(t, ok)
	assert.Equal(t, 10.0, m)

	m, ok = s.TimeBetween(1, 3)
	assert.True(t, ok)
	assert.Equal(t, 30.0, m)

	assert.Equal(t, 2, s.PairCount())
	assert.Equal(t, "base", s.Name())
	assert.Equal(t, AggregateMin, s.Rule())
	assert.Equal(t, 0, warns.Total())
}

func TestNewStoreMeanRule(t *testing.T) {
	entries := []Entry{
		{OriginNode: 101, DestinationNode: 201, Minutes: 20},
		{OriginNode: 102, DestinationNode: 201, Minutes: 10},
	}
	s, err := NewStore("base", entries, testIndex(t), AggregateMean, diag.NewAggregator())
	require.NoError(t, err)

	m, ok := s.TimeBetween(1, 2)
	assert.True(t, ok)
	assert.Equal(t, 15.0, m)
}

func TestNewStoreExcludesBadRows(t *testing.T) {
	entries := []Entry{
		{OriginNode: 101, DestinationNode: 201, Minutes: 20},
		{OriginNode: 101, DestinationNode: 201, Minutes: -1}, // negative time
		{OriginNode: 999, DestinationNode: 201, Minutes: 5},  // unknown origin node
		{OriginNode: 101, DestinationNode: 888, Minutes: 5},  // unknown destination node
	}
	warns := diag.NewAggregator()
	s, err := NewStore("base", entries, testIndex(t), AggregateMin, warns)
	require.NoError(t, err)

	m, _ := s.TimeBetween(1, 2)
	assert.Equal(t, 20.0, m, "excluded rows must not affect aggregation")
	assert.Equal(t, 1, warns.Count(diag.WarningNegativeTime))
	assert.Equal(t, 1, warns.Count(diag.WarningUnresolvedOriginNode))
	assert.Equal(t, 1, warns.Count(diag.WarningUnresolvedDestinationNode))
}

func TestNewStoreEmptyResult(t *testing.T) {
	entries := []Entry{
		{OriginNode: 999, DestinationNode: 888, Minutes: 5},
	}
	_, err := NewStore("uploaded", entries, testIndex(t), AggregateMin, diag.NewAggregator())
	require.Error(t, err)
	assert.True(t, diag.IsEmptyResult(err))

	_, err = NewStore("uploaded", nil, testIndex(t), AggregateMin, diag.NewAggregator())
	assert.True(t, diag.IsEmptyResult(err))
}

func TestTimeBetweenSelf(t *testing.T) {
	entries := []Entry{
		{OriginNode: 101, DestinationNode: 201, Minutes: 20},
		{OriginNode: 201, DestinationNode: 201, Minutes: 4},
	}
	s, err := NewStore("base", entries, testIndex(t), AggregateMin, diag.NewAggregator())
	require.NoError(t, err)

	// implicit self time is 0
	m, ok := s.TimeBetween(1, 1)
	assert.True(t, ok)
	assert.Equal(t, 0.0, m)

	// explicit self pair wins over the convention
	m, ok = s.TimeBetween(2, 2)
	assert.True(t, ok)
	assert.Equal(t, 4.0, m)

	// asymmetry: 2->1 was never observed
	_, ok = s.TimeBetween(2, 1)
	assert.False(t, ok)
}

func TestReachableWithin(t *testing.T) {
	entries := []Entry{
		{OriginNode: 101, DestinationNode: 201, Minutes: 10},
		{OriginNode: 101, DestinationNode: 301, Minutes: 25},
	}
	s, err := NewStore("base", entries, testIndex(t), AggregateMin, diag.NewAggregator())
	require.NoError(t, err)

	assert.Equal(t, []zoning.ZoneID{1}, s.ReachableWithin(1, 0), "self zone at any threshold >= 0")
	assert.Equal(t, []zoning.ZoneID{1, 2}, s.ReachableWithin(1, 10), "boundary is inclusive")
	assert.Equal(t, []zoning.ZoneID{1, 2}, s.ReachableWithin(1, 24.9))
	assert.Equal(t, []zoning.ZoneID{1, 2, 3}, s.ReachableWithin(1, 25))

	// origin with no pairs at all reaches only itself
	assert.Equal(t, []zoning.ZoneID{9}, s.ReachableWithin(9, 60))
}

func TestReachableWithinSlowSelfPair(t *testing.T) {
	entries := []Entry{
		{OriginNode: 101, DestinationNode: 101, Minutes: 20},
		{OriginNode: 101, DestinationNode: 201, Minutes: 10},
	}
	s, err := NewStore("base", entries, testIndex(t), AggregateMin, diag.NewAggregator())
	require.NoError(t, err)

	// a slow intra-zonal pair must not push the origin out of its own
	// reachable set at small thresholds
	assert.Contains(t, s.ReachableWithin(1, 5), zoning.ZoneID(1))
	assert.Equal(t, []zoning.ZoneID{1}, s.ReachableWithin(1, 5))
	assert.Equal(t, []zoning.ZoneID{1, 2}, s.ReachableWithin(1, 10))

	dests := s.DestinationsByTime(1)
	assert.Equal(t, ZoneTime{Zone: 1, Minutes: 0}, dests[0])

	// the aggregated intra-zonal time is still observable directly
	m, ok := s.TimeBetween(1, 1)
	assert.True(t, ok)
	assert.Equal(t, 20.0, m)
}

func TestDestinationsByTimeSorted(t *testing.T) {
	entries := []Entry{
		{OriginNode: 101, DestinationNode: 301, Minutes: 25},
		{OriginNode: 101, DestinationNode: 201, Minutes: 10},
	}
	s, err := NewStore("base", entries, testIndex(t), AggregateMin, diag.NewAggregator())
	require.NoError(t, err)

	dests := s.DestinationsByTime(1)
	require.Len(t, dests, 3)
	assert.Equal(t, ZoneTime{Zone: 1, Minutes: 0}, dests[0])
	assert.Equal(t, ZoneTime{Zone: 2, Minutes: 10}, dests[1])
	assert.Equal(t, ZoneTime{Zone: 3, Minutes: 25}, dests[2])
	assert.Equal(t, 25.0, s.MaxTimeFrom(1))
	assert.Equal(t, 0.0, s.MaxTimeFrom(9))
}

func TestNewStoreFromPairs(t *testing.T) {
	pairs := map[Pair]float64{
		{Origin: 1, Destination: 2}: 12,
		{Origin: 2, Destination: 1}: 14,
	}
	s, err := NewStoreFromPairs("base", AggregateMin, pairs)
	require.NoError(t, err)
	m, ok := s.TimeBetween(1, 2)
	assert.True(t, ok)
	assert.Equal(t, 12.0, m)
	assert.Equal(t, 2, s.PairCount())

	_, err = NewStoreFromPairs("base", AggregateMin, nil)
	assert.True(t, diag.IsEmptyResult(err))
}
