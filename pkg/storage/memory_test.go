package storage

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tierwatt/tierwatt/pkg/types"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	flat := types.Tariff{ID: "flat", Tiers: []types.Tier{{UpperBound: math.Inf(1), Rate: 1}}}
	m := NewMemory(flat)
	defer m.Close()

	got, err := m.GetTariff(ctx, "flat")
	require.NoError(t, err)
	assert.Equal(t, flat, got)

	_, err = m.GetTariff(ctx, "missing")
	assert.ErrorIs(t, err, ErrTariffNotFound)

	require.NoError(t, m.PutTariff(ctx, types.Tariff{ID: "another"}))
	assert.Error(t, m.PutTariff(ctx, types.Tariff{}))

	list, err := m.ListTariffs(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "another", list[0].ID)
	assert.Equal(t, "flat", list[1].ID)
}
