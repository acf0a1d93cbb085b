package tariff

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tierwatt/tierwatt/pkg/types"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) ListTariffs(ctx context.Context) ([]types.Tariff, error) {
	args := m.Called(ctx)
	return args.Get(0).([]types.Tariff), args.Error(1)
}

func TestMap(t *testing.T) {
	ctx := context.Background()

	t.Run("default is canonical", func(t *testing.T) {
		m := NewMap()
		tbl, err := m.Table("")
		require.NoError(t, err)
		assert.Equal(t, CanonicalID, tbl.ID())

		tbl, err = m.Table(CanonicalID)
		require.NoError(t, err)
		assert.Equal(t, CanonicalID, tbl.ID())
	})

	t.Run("unknown", func(t *testing.T) {
		m := NewMap()
		_, err := m.Table("nope")
		assert.ErrorIs(t, err, ErrUnknownTariff)
		assert.ErrorIs(t, m.SetDefault("nope"), ErrUnknownTariff)
	})

	t.Run("load from source", func(t *testing.T) {
		src := &mockSource{}
		src.On("ListTariffs", mock.Anything).Return([]types.Tariff{
			{
				ID:       "flat",
				Name:     "Flat",
				Currency: "EUR",
				Tiers:    []types.Tier{{UpperBound: math.Inf(1), Rate: 0.3}},
			},
		}, nil)

		m := NewMap()
		require.NoError(t, m.Load(ctx, src))
		src.AssertExpectations(t)

		tbl, err := m.Table("flat")
		require.NoError(t, err)
		assert.InDelta(t, 30.0, tbl.Cost(100), 1e-9)

		require.NoError(t, m.SetDefault("flat"))
		tbl, err = m.Table("")
		require.NoError(t, err)
		assert.Equal(t, "flat", tbl.ID())

		list := m.List()
		require.Len(t, list, 2)
		assert.Equal(t, "flat", list[0].ID)
		assert.True(t, list[0].Default)
		assert.Equal(t, 1, list[0].TierCount)
		assert.Equal(t, CanonicalID, list[1].ID)
		assert.False(t, list[1].Default)
		assert.Equal(t, 6, list[1].TierCount)
	})

	t.Run("load invalid tariff", func(t *testing.T) {
		src := &mockSource{}
		src.On("ListTariffs", mock.Anything).Return([]types.Tariff{
			{ID: "broken", Tiers: []types.Tier{{UpperBound: 100, Rate: 1}}},
		}, nil)

		m := NewMap()
		assert.ErrorIs(t, m.Load(ctx, src), ErrInvalidTable)
		_, err := m.Table("broken")
		assert.ErrorIs(t, err, ErrUnknownTariff)
	})

	t.Run("load error", func(t *testing.T) {
		src := &mockSource{}
		boom := errors.New("boom")
		src.On("ListTariffs", mock.Anything).Return([]types.Tariff(nil), boom)

		m := NewMap()
		assert.ErrorIs(t, m.Load(ctx, src), boom)
	})
}
