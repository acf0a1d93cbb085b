package solar

import (
	"github.com/tierwatt/tierwatt/pkg/types"
)

// FindOptimalPanelCount returns the panel count in [1, maxPanels] with the
// shortest payback period. It returns 1 when there is nothing to save.
func FindOptimalPanelCount(p Pricer, monthlyKWH, generationPerPanelKWH, costPerPanel, exchangeRate float64, maxPanels int) int {
	return SearchOptimal(p, types.ScenarioInput{
		MonthlyConsumptionKWH: monthlyKWH,
		GenerationPerPanelKWH: generationPerPanelKWH,
		CostPerPanel:          costPerPanel,
		ExchangeRate:          exchangeRate,
	}, maxPanels).PanelCount
}

// SearchOptimal scans every panel count from 1 to maxPanels and returns the one
// with the smallest installation cost to annual savings ratio along with every
// candidate considered. in.PanelCount is ignored.
//
// Only a strictly smaller ratio replaces the best candidate so ties go to the
// smaller installation. Candidates without positive savings are never chosen
// and if none has positive savings, or there is no bill to begin with, the
// result is a single panel with an unbounded payback.
func SearchOptimal(p Pricer, in types.ScenarioInput, maxPanels int) types.OptimalPanelResult {
	res := types.OptimalPanelResult{
		PanelCount: 1,
		Payback:    types.UnboundedPayback,
	}

	baselineYearly := p.Cost(in.MonthlyConsumptionKWH) * monthsPerYear
	if baselineYearly == 0 {
		return res
	}

	res.Candidates = make([]types.PanelCandidate, 0, max(0, maxPanels))
	for panels := 1; panels <= maxPanels; panels++ {
		e := economics(p, baselineYearly, in.MonthlyConsumptionKWH, in.GenerationPerPanelKWH, in.CostPerPanel, in.ExchangeRate, panels)
		payback := e.payback()
		res.Candidates = append(res.Candidates, types.PanelCandidate{
			PanelCount:              panels,
			InstallationCostBilling: e.installationBilling,
			AnnualSavings:           e.annualSavings,
			Payback:                 payback,
		})
		if e.annualSavings > 0 && payback < res.Payback {
			res.PanelCount = panels
			res.Payback = payback
		}
	}
	return res
}
