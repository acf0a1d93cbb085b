package types

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierJSON(t *testing.T) {
	t.Run("bounded", func(t *testing.T) {
		b, err := json.Marshal(Tier{UpperBound: 100, Rate: 0.901})
		require.NoError(t, err)
		assert.JSONEq(t, `{"upperBound":100,"rate":0.901}`, string(b))
	})

	t.Run("unbounded encodes null", func(t *testing.T) {
		b, err := json.Marshal(Tier{UpperBound: math.Inf(1), Rate: 1.5958})
		require.NoError(t, err)
		assert.JSONEq(t, `{"upperBound":null,"rate":1.5958}`, string(b))
	})

	t.Run("missing upperBound decodes as unbounded", func(t *testing.T) {
		var tiers []Tier
		require.NoError(t, json.Unmarshal([]byte(`[{"upperBound":100,"rate":0.9},{"rate":1.2}]`), &tiers))
		require.Len(t, tiers, 2)
		assert.Equal(t, 100.0, tiers[0].UpperBound)
		assert.False(t, tiers[0].Unbounded())
		assert.True(t, tiers[1].Unbounded())
		assert.Equal(t, 1.2, tiers[1].Rate)
	})

	t.Run("invalid", func(t *testing.T) {
		var tier Tier
		assert.Error(t, json.Unmarshal([]byte(`{"upperBound":"abc"}`), &tier))
	})
}

func TestTierInfoJSON(t *testing.T) {
	bill := 90.1
	b, err := json.Marshal([]TierInfo{
		{Index: 1, LowerBound: 0, UpperBound: 100, Rate: 0.901, BillAtUpperBound: &bill},
		{Index: 2, LowerBound: 100, UpperBound: math.Inf(1), Rate: 1.0732},
	})
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, 100.0, decoded[0]["upperBound"])
	assert.Equal(t, 90.1, decoded[0]["billAtUpperBound"])
	assert.Nil(t, decoded[0]["increaseVsPrevPct"])
	assert.Nil(t, decoded[1]["upperBound"])
	assert.Nil(t, decoded[1]["billAtUpperBound"])
}
