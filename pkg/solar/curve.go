package solar

import (
	"math"
	"slices"
	"sort"

	"github.com/tierwatt/tierwatt/pkg/types"
)

const (
	curveMinMaxKWH   = 350
	curveRoundKWH    = 50
	curveHeadroom    = 1.5
	boundaryEpsilon  = 0.01
	defaultCurveStep = 1.0
)

// BoundedPricer is a Pricer that also exposes its finite tier bounds.
type BoundedPricer interface {
	Pricer
	Bounds() []float64
}

// CurveMaxKWH returns the upper end of the consumption axis for a curve
// centered on the current consumption: at least 350 kWh, otherwise 1.5 times
// the current consumption rounded up to the next 50 kWh.
func CurveMaxKWH(currentKWH float64) float64 {
	return math.Max(curveMinMaxKWH, math.Ceil(currentKWH*curveHeadroom/curveRoundKWH)*curveRoundKWH)
}

// CostCurve samples the monthly bill with and without solar from 0 to
// CurveMaxKWH(currentKWH) every step kWh. Both sides of each finite bound are
// also sampled so the tier jumps are visible. Every KWH appears once. A non-positive step uses 1 kWh.
func CostCurve(p BoundedPricer, currentKWH float64, panels int, generationPerPanelKWH, step float64) types.CostCurve {
	if step <= 0 || math.IsNaN(step) {
		step = defaultCurveStep
	}
	c := types.CostCurve{
		MaxKWH:               CurveMaxKWH(currentKWH),
		MonthlyGenerationKWH: float64(panels) * generationPerPanelKWH / monthsPerYear,
	}

	point := func(kwh float64) types.CurvePoint {
		_, residual := offset(kwh, c.MonthlyGenerationKWH)
		return types.CurvePoint{
			KWH:           kwh,
			Cost:          p.Cost(kwh),
			CostWithSolar: p.Cost(residual),
		}
	}

	n := int(c.MaxKWH/step) + 1
	c.Points = make([]types.CurvePoint, 0, n+2*len(p.Bounds()))
	for i := 0; i < n; i++ {
		c.Points = append(c.Points, point(float64(i)*step))
	}
	for _, b := range p.Bounds() {
		if b < c.MaxKWH {
			c.Bounds = append(c.Bounds, b)
			c.Points = append(c.Points, point(b), point(b+boundaryEpsilon))
		}
	}
	sort.SliceStable(c.Points, func(i, j int) bool {
		return c.Points[i].KWH < c.Points[j].KWH
	})
	// a bound that is also a regular sample is emitted once
	c.Points = slices.CompactFunc(c.Points, func(a, b types.CurvePoint) bool {
		return a.KWH == b.KWH
	})

	for _, pt := range c.Points {
		c.MaxCost = math.Max(c.MaxCost, pt.Cost)
	}
	c.Current = point(currentKWH)
	return c
}

// SavingsBracket categorizes annual savings for display. Upper bounds are
// inclusive.
func SavingsBracket(annualSavings float64) string {
	switch {
	case annualSavings <= 3000:
		return "0-3000"
	case annualSavings <= 7000:
		return "3001-7000"
	case annualSavings <= 12000:
		return "7001-12000"
	case annualSavings <= 18000:
		return "12001-18000"
	case annualSavings <= 25000:
		return "18001-25000"
	default:
		return "25000+"
	}
}
