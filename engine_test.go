package tazaccess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theoremus-urban-solutions/taz-accessibility/diag"
	"github.com/theoremus-urban-solutions/taz-accessibility/skim"
	"github.com/theoremus-urban-solutions/taz-accessibility/zoning"
)

func TestComputeWorkedExample(t *testing.T) {
	e := NewEngine()
	sc := testScenario(t, "base")

	res, err := e.Compute(sc, "Emp 2024", 15)
	require.NoError(t, err)

	// zone 1 reaches itself (100) and zone 2 at 10 minutes (200)
	assert.Equal(t, 300.0, res.Score(1))
	// zone 2 reaches itself (200) and zone 1 at 8 minutes (100)
	assert.Equal(t, 300.0, res.Score(2))
	// zone 3 reaches only itself, its one pair takes 30 minutes
	assert.Equal(t, 50.0, res.Score(3))

	assert.Equal(t, 350.0, res.AttributeTotal)
	assert.Equal(t, 86.0, res.PercentOfTotal[1], "300/350 rounded to whole percent")
	assert.Equal(t, 14.0, res.PercentOfTotal[3])
	assert.Equal(t, []zoning.ZoneID{1, 2, 3}, res.ZoneIDs())
}

func TestComputeFullReach(t *testing.T) {
	e := NewEngine()
	sc := testScenario(t, "base")

	res, err := e.Compute(sc, "Emp 2024", 45)
	require.NoError(t, err)
	assert.Equal(t, 350.0, res.Score(1))
	assert.Equal(t, 350.0, res.Score(2))
	// zone 3 reaches zone 1 at 30 minutes but never zone 2
	assert.Equal(t, 150.0, res.Score(3))
}

func TestComputeMissingAttributeContributesZero(t *testing.T) {
	e := NewEngine()
	sc := testScenario(t, "base")

	// zone 3 has no population value; it adds 0 everywhere it is reached
	res, err := e.Compute(sc, "POP_2024", 45)
	require.NoError(t, err)
	assert.Equal(t, 3000.0, res.Score(1))
	assert.Equal(t, 1000.0, res.Score(3))
}

func TestComputeSlowSelfPairKeepsOwnAttribute(t *testing.T) {
	e := NewEngine()
	base := testBaseline(t)
	sc, err := NewScenario("base", []skim.Entry{
		{OriginNode: 11, DestinationNode: 11, Minutes: 20},
		{OriginNode: 11, DestinationNode: 22, Minutes: 10},
	}, base.Zones, base.Index, base.Catalog, skim.AggregateMin, nil)
	require.NoError(t, err)

	// zone 1's own jobs count at any threshold, even though its
	// intra-zonal travel time exceeds the threshold
	res, err := e.Compute(sc, "Emp 2024", 5)
	require.NoError(t, err)
	assert.Equal(t, 100.0, res.Score(1))

	bands, err := e.ComputeBands(sc, 1, 15, "Emp 2024")
	require.NoError(t, err)
	assert.Contains(t, bands.Bands[0].Zones, zoning.ZoneID(1))
}

func TestComputeValidation(t *testing.T) {
	e := NewEngine()
	sc := testScenario(t, "base")

	_, err := e.Compute(sc, "Emp 2024", 0)
	require.Error(t, err)
	assert.True(t, diag.IsValidation(err))

	_, err = e.Compute(sc, "Emp 2024", -10)
	assert.True(t, diag.IsValidation(err))

	_, err = e.Compute(sc, "no_such_attribute", 15)
	assert.True(t, diag.IsValidation(err))

	_, err = e.Compute(sc, "job_density", 15)
	require.Error(t, err)
	assert.True(t, diag.IsValidation(err), "non-aggregable attributes are rejected")
}

func TestComputeMonotoneInThreshold(t *testing.T) {
	e := NewEngine()
	sc := testScenario(t, "base")

	lo, err := e.Compute(sc, "Emp 2024", 9)
	require.NoError(t, err)
	hi, err := e.Compute(sc, "Emp 2024", 30)
	require.NoError(t, err)

	for _, id := range sc.Zones.IDs() {
		assert.GreaterOrEqual(t, hi.Score(id), lo.Score(id))
		assert.GreaterOrEqual(t, lo.Score(id), 0.0)
	}
}

func TestComputeCaching(t *testing.T) {
	e := NewEngine()
	sc := testScenario(t, "base")

	first, err := e.Compute(sc, "Emp 2024", 15)
	require.NoError(t, err)
	second, err := e.Compute(sc, "Emp 2024", 15)
	require.NoError(t, err)
	assert.Same(t, first, second, "identical parameters hit the cache")
	assert.Equal(t, 1, e.CachedResults())

	_, err = e.Compute(sc, "Emp 2024", 30)
	require.NoError(t, err)
	assert.Equal(t, 2, e.CachedResults())

	e.Invalidate()
	assert.Equal(t, 0, e.CachedResults())
	third, err := e.Compute(sc, "Emp 2024", 15)
	require.NoError(t, err)
	assert.NotSame(t, first, third)
	assert.Equal(t, first.Scores, third.Scores, "recomputation is deterministic")
}

func TestComputeScenarioIsolation(t *testing.T) {
	e := NewEngine()
	a := testScenario(t, "base")
	b := testScenario(t, "base")

	ra, err := e.Compute(a, "Emp 2024", 15)
	require.NoError(t, err)
	rb, err := e.Compute(b, "Emp 2024", 15)
	require.NoError(t, err)
	assert.NotSame(t, ra, rb, "distinct scenario identities never share cache entries")
}
