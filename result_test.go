package tazaccess

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theoremus-urban-solutions/taz-accessibility/zoning"
)

func TestTimeBandJSON(t *testing.T) {
	regular := TimeBand{Index: 0, Lower: 0, Upper: 10, Aggregate: 100, Cumulative: 100, Zones: []zoning.ZoneID{1}}
	data, err := json.Marshal(regular)
	require.NoError(t, err)
	assert.JSONEq(t, `{"index":0,"lower":0,"upper":10,"aggregate":100,"cumulative":100,"zones":[1]}`, string(data))

	overflow := TimeBand{Index: 1, Lower: 10, Upper: math.Inf(1), Aggregate: 250, Cumulative: 350, Zones: []zoning.ZoneID{2, 3}}
	data, err = json.Marshal(overflow)
	require.NoError(t, err)
	assert.JSONEq(t, `{"index":1,"lower":10,"upper":null,"aggregate":250,"cumulative":350,"zones":[2,3]}`, string(data))
}

func TestAccessibilityResultZoneIDs(t *testing.T) {
	res := &AccessibilityResult{Scores: map[zoning.ZoneID]float64{3: 1, 1: 2, 2: 3}}
	assert.Equal(t, []zoning.ZoneID{1, 2, 3}, res.ZoneIDs())
	assert.Equal(t, 2.0, res.Score(1))
	assert.Equal(t, 0.0, res.Score(99))
}
