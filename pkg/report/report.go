// Package report exports a scenario evaluation as an XLSX workbook.
package report

import (
	"fmt"
	"io"

	"github.com/tierwatt/tierwatt/pkg/tariff"
	"github.com/tierwatt/tierwatt/pkg/types"
	"github.com/xuri/excelize/v2"
)

const (
	SheetScenario = "Scenario"
	SheetTiers    = "Tiers"
	SheetPanels   = "Panels"
)

// WriteXLSX writes a workbook describing the scenario to w. The Scenario sheet
// holds the inputs and results, Tiers the tier breakdown of t and Panels every
// candidate of the optimal search.
func WriteXLSX(w io.Writer, t *tariff.Table, in types.ScenarioInput, res types.ScenarioResult, opt types.OptimalPanelResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetScenario); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{SheetTiers, SheetPanels} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	if err := writeScenario(f, bold, t, in, res, opt); err != nil {
		return err
	}
	if err := writeTiers(f, bold, t); err != nil {
		return err
	}
	if err := writePanels(f, bold, opt); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// paybackCell returns the payback in years or "N/A" when it is unbounded.
func paybackCell(p types.Payback) any {
	if years, ok := p.Years(); ok {
		return years
	}
	return p.String()
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func writeScenario(f *excelize.File, bold int, t *tariff.Table, in types.ScenarioInput, res types.ScenarioResult, opt types.OptimalPanelResult) error {
	cur := t.Currency()
	rows := [][]any{
		{"Field", "Value", "Unit"},
		{"Tariff", t.Name(), t.ID()},
		{"Monthly consumption", in.MonthlyConsumptionKWH, "kWh"},
		{"Panels", in.PanelCount, ""},
		{"Generation per panel", in.GenerationPerPanelKWH, "kWh/year"},
		{"Cost per panel", in.CostPerPanel, "panel currency"},
		{"Exchange rate", in.ExchangeRate, cur + " per panel currency unit"},
		{"Monthly cost", res.MonthlyCost, cur},
		{"Yearly cost", res.YearlyCost, cur},
		{"Monthly generation", res.MonthlyGenerationKWH, "kWh"},
		{"Effective offset", res.EffectiveOffsetKWH, "kWh"},
		{"Residual consumption", res.ResidualConsumptionKWH, "kWh"},
		{"Monthly cost with solar", res.MonthlyCostWithSolar, cur},
		{"Yearly cost with solar", res.YearlyCostWithSolar, cur},
		{"Annual savings", res.AnnualSavings, cur},
		{"Installation cost", res.InstallationCostPanel, "panel currency"},
		{"Installation cost", res.InstallationCostBilling, cur},
		{"Payback", paybackCell(res.Payback), "years"},
		{"Savings bracket", res.SavingsBracket, ""},
		{"Optimal panel count", opt.PanelCount, ""},
	}
	for _, p := range res.Projections {
		rows = append(rows, []any{fmt.Sprintf("Net savings after %g years", p.Years), p.NetSavings, cur})
	}
	if err := writeRows(f, SheetScenario, rows); err != nil {
		return err
	}
	if err := f.SetRowStyle(SheetScenario, 1, 1, bold); err != nil {
		return err
	}
	return f.SetColWidth(SheetScenario, "A", "A", 28)
}

func writeTiers(f *excelize.File, bold int, t *tariff.Table) error {
	rows := [][]any{
		{"Tier", "From kWh", "To kWh", "Rate", "Bill at upper bound", "Increase vs base %", "Increase vs previous %"},
	}
	for _, ti := range t.Breakdown() {
		var upper, bill, prev any = "unbounded", "", ""
		if ti.BillAtUpperBound != nil {
			upper = ti.UpperBound
			bill = *ti.BillAtUpperBound
		}
		if ti.IncreaseVsPrevPct != nil {
			prev = *ti.IncreaseVsPrevPct
		}
		rows = append(rows, []any{ti.Index, ti.LowerBound, upper, ti.Rate, bill, ti.IncreaseVsBasePct, prev})
	}
	if err := writeRows(f, SheetTiers, rows); err != nil {
		return err
	}
	return f.SetRowStyle(SheetTiers, 1, 1, bold)
}

func writePanels(f *excelize.File, bold int, opt types.OptimalPanelResult) error {
	rows := [][]any{
		{"Panels", "Installation cost", "Annual savings", "Payback years", "Optimal"},
	}
	for _, c := range opt.Candidates {
		var mark string
		if c.PanelCount == opt.PanelCount {
			mark = "yes"
		}
		rows = append(rows, []any{c.PanelCount, c.InstallationCostBilling, c.AnnualSavings, paybackCell(c.Payback), mark})
	}
	if err := writeRows(f, SheetPanels, rows); err != nil {
		return err
	}
	return f.SetRowStyle(SheetPanels, 1, 1, bold)
}
