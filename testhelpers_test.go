package tazaccess

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/theoremus-urban-solutions/taz-accessibility/skim"
	"github.com/theoremus-urban-solutions/taz-accessibility/zoning"
)

// testBaseline builds a small three-zone fixture. Zone 1 and 2 are within
// 15 minutes of each other; zone 3 is remote.
//
//	jobs:       zone 1 = 100, zone 2 = 200, zone 3 = 50
//	population: zone 1 = 1000, zone 2 = 2000, zone 3 missing
func testBaseline(t *testing.T) *Baseline {
	t.Helper()

	zones, err := zoning.NewZoneTable([]*zoning.Zone{
		{ID: 1, Attrs: map[string]float64{"Emp 2024": 100, "POP_2024": 1000}},
		{ID: 2, Attrs: map[string]float64{"Emp 2024": 200, "POP_2024": 2000}},
		{ID: 3, Attrs: map[string]float64{"Emp 2024": 50}},
	})
	require.NoError(t, err)

	index, err := zoning.NewZoneIndex([]zoning.MappingRow{
		{Node: 11, Zone: 1},
		{Node: 22, Zone: 2},
		{Node: 33, Zone: 3},
	})
	require.NoError(t, err)

	catalog := zoning.NewAttributeCatalog()
	catalog.Register(zoning.AttributeMeta{
		Name: "job_density", Label: "Job Density", Unit: "jobs/km2",
		Category: "derived", Aggregable: false,
	})
	catalog.RegisterColumns(zones.Columns())

	return &Baseline{Zones: zones, Index: index, Catalog: catalog}
}

func testEntries() []skim.Entry {
	return []skim.Entry{
		{OriginNode: 11, DestinationNode: 22, Minutes: 10},
		{OriginNode: 22, DestinationNode: 11, Minutes: 8},
		{OriginNode: 11, DestinationNode: 33, Minutes: 25},
		{OriginNode: 22, DestinationNode: 33, Minutes: 18},
		{OriginNode: 33, DestinationNode: 11, Minutes: 30},
	}
}

// fasterEntries is the fixture network with an improved link between
// zone 1 and zone 3.
func fasterEntries() []skim.Entry {
	return []skim.Entry{
		{OriginNode: 11, DestinationNode: 22, Minutes: 10},
		{OriginNode: 22, DestinationNode: 11, Minutes: 8},
		{OriginNode: 11, DestinationNode: 33, Minutes: 12},
		{OriginNode: 22, DestinationNode: 33, Minutes: 18},
		{OriginNode: 33, DestinationNode: 11, Minutes: 14},
	}
}

func testScenario(t *testing.T, name string) *Scenario {
	t.Helper()
	base := testBaseline(t)
	sc, err := NewScenario(name, testEntries(), base.Zones, base.Index, base.Catalog, skim.AggregateMin, nil)
	require.NoError(t, err)
	return sc
}
