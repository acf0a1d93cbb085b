package solar

import (
	"github.com/tierwatt/tierwatt/pkg/types"
)

// Evaluate derives every reportable metric for the scenario. Net savings are
// projected for each of the given horizons in years. Degenerate input such as
// zero consumption or zero panels yields zero savings and an unbounded payback
// rather than an error.
func Evaluate(p Pricer, in types.ScenarioInput, horizons ...float64) types.ScenarioResult {
	var r types.ScenarioResult
	r.MonthlyCost = p.Cost(in.MonthlyConsumptionKWH)
	r.YearlyCost = r.MonthlyCost * monthsPerYear

	e := economics(p, r.YearlyCost, in.MonthlyConsumptionKWH, in.GenerationPerPanelKWH, in.CostPerPanel, in.ExchangeRate, in.PanelCount)
	r.AnnualGenerationKWH = e.annualGenerationKWH
	r.MonthlyGenerationKWH = e.monthlyGenerationKWH
	r.EffectiveOffsetKWH = e.effectiveOffsetKWH
	r.ResidualConsumptionKWH = e.residualKWH
	r.MonthlyCostWithSolar = e.monthlyCostWithSolar
	r.YearlyCostWithSolar = e.monthlyCostWithSolar * monthsPerYear
	r.AnnualSavings = e.annualSavings
	r.InstallationCostPanel = e.installationPanel
	r.InstallationCostBilling = e.installationBilling
	r.Payback = e.payback()

	r.Projections = make([]types.Projection, 0, len(horizons))
	for _, years := range horizons {
		r.Projections = append(r.Projections, types.Projection{
			Years:      years,
			NetSavings: r.ProjectedSavings(years),
		})
	}

	if in.PanelCount > 0 && r.AnnualSavings > 0 {
		r.SavingsBracket = SavingsBracket(r.AnnualSavings)
	}
	return r
}
