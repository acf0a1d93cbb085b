package solar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tierwatt/tierwatt/pkg/tariff"
)

func TestCurveMaxKWH(t *testing.T) {
	assert.Equal(t, 350.0, CurveMaxKWH(0))
	assert.Equal(t, 350.0, CurveMaxKWH(200))
	assert.Equal(t, 700.0, CurveMaxKWH(450))
	assert.Equal(t, 1200.0, CurveMaxKWH(800))
	assert.Equal(t, 400.0, CurveMaxKWH(251))
}

func TestCostCurve(t *testing.T) {
	table := tariff.Canonical()

	t.Run("samples and boundaries", func(t *testing.T) {
		c := CostCurve(table, 450, 0, 670, 1)
		assert.Equal(t, 700.0, c.MaxKWH)
		assert.Equal(t, []float64{100, 150, 200, 300, 500}, c.Bounds)
		require.Len(t, c.Points, 701+5)

		assert.Equal(t, 0.0, c.Points[0].KWH)
		assert.Equal(t, 700.0, c.Points[len(c.Points)-1].KWH)
		for i := 1; i < len(c.Points); i++ {
			assert.Less(t, c.Points[i-1].KWH, c.Points[i].KWH)
		}

		var sawJump bool
		for i := 1; i < len(c.Points); i++ {
			if c.Points[i].KWH == 100.01 {
				sawJump = true
				assert.InDelta(t, 90.10, c.Points[i-1].Cost, 1e-9)
				assert.InDelta(t, 107.330732, c.Points[i].Cost, 1e-9)
			}
		}
		assert.True(t, sawJump)
		assert.InDelta(t, 700*1.5958, c.MaxCost, 1e-9)

		// without panels both series are the same
		for _, p := range c.Points {
			assert.Equal(t, p.Cost, p.CostWithSolar)
		}
		assert.InDelta(t, 621.765, c.Current.Cost, 1e-9)
	})

	t.Run("with solar", func(t *testing.T) {
		c := CostCurve(table, 450, 3, 670, 1)
		assert.InDelta(t, 167.5, c.MonthlyGenerationKWH, 1e-9)
		for _, p := range c.Points {
			assert.LessOrEqual(t, p.CostWithSolar, p.Cost)
			if p.KWH <= 167.5 {
				assert.Equal(t, 0.0, p.CostWithSolar)
			}
		}
		assert.InDelta(t, table.Cost(450-167.5), c.Current.CostWithSolar, 1e-9)
	})

	t.Run("coarse step", func(t *testing.T) {
		c := CostCurve(table, 100, 0, 670, 50)
		assert.Equal(t, 350.0, c.MaxKWH)
		assert.Equal(t, []float64{100, 150, 200, 300}, c.Bounds)
		assert.Len(t, c.Points, 8+4)
	})

	t.Run("invalid step defaults to 1", func(t *testing.T) {
		c := CostCurve(table, 0, 0, 670, 0)
		assert.Len(t, c.Points, 351+4)
	})
}

func TestSavingsBracket(t *testing.T) {
	tests := []struct {
		savings float64
		expect  string
	}{
		{0, "0-3000"},
		{925.74, "0-3000"},
		{3000, "0-3000"},
		{3000.01, "3001-7000"},
		{7000, "3001-7000"},
		{7461.18, "7001-12000"},
		{15000, "12001-18000"},
		{25000, "18001-25000"},
		{25000.5, "25000+"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expect, SavingsBracket(tt.savings), "savings %v", tt.savings)
	}
}
