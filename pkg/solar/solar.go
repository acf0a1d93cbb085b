// Package solar estimates the return of rooftop solar panels against a tiered
// electricity bill. Every function is pure; generation beyond the household's
// consumption is never credited since there is no net metering.
package solar

import (
	"math"

	"github.com/tierwatt/tierwatt/pkg/types"
)

// Pricer returns the monthly bill for a monthly consumption in kWh.
type Pricer interface {
	Cost(monthlyKWH float64) float64
}

// monthsPerYear converts between the monthly bill and annual figures.
const monthsPerYear = 12

// offset returns the monthly solar generation credited against consumption and
// the consumption left to be billed. The offset never exceeds consumption and
// the residual is never negative.
func offset(monthlyKWH, monthlyGenerationKWH float64) (float64, float64) {
	effective := math.Min(monthlyKWH, monthlyGenerationKWH)
	return effective, math.Max(0, monthlyKWH-effective)
}

// panelEconomics is what a given panel count costs and saves per year.
type panelEconomics struct {
	annualGenerationKWH  float64
	monthlyGenerationKWH float64
	effectiveOffsetKWH   float64
	residualKWH          float64
	monthlyCostWithSolar float64
	installationPanel    float64
	installationBilling  float64
	annualSavings        float64
}

func economics(p Pricer, baselineYearly, monthlyKWH, generationPerPanelKWH, costPerPanel, exchangeRate float64, panels int) panelEconomics {
	var e panelEconomics
	e.annualGenerationKWH = float64(panels) * generationPerPanelKWH
	e.monthlyGenerationKWH = e.annualGenerationKWH / monthsPerYear
	e.effectiveOffsetKWH, e.residualKWH = offset(monthlyKWH, e.monthlyGenerationKWH)
	e.monthlyCostWithSolar = p.Cost(e.residualKWH)
	e.installationPanel = float64(panels) * costPerPanel
	e.installationBilling = e.installationPanel * exchangeRate
	e.annualSavings = baselineYearly - e.monthlyCostWithSolar*monthsPerYear
	return e
}

func (e panelEconomics) payback() types.Payback {
	if e.annualSavings > 0 {
		return types.Payback(e.installationBilling / e.annualSavings)
	}
	return types.UnboundedPayback
}
