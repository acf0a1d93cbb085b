package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/levenlabs/go-lflag"
	"github.com/tierwatt/tierwatt/pkg/log"
	"github.com/tierwatt/tierwatt/pkg/report"
	"github.com/tierwatt/tierwatt/pkg/solar"
	"github.com/tierwatt/tierwatt/pkg/tariff"
	"github.com/tierwatt/tierwatt/pkg/types"
)

type options struct {
	input      types.ScenarioInput
	limits     types.Limits
	horizons   []float64
	tariffFile string
	xlsxPath   string
}

type output struct {
	Tariff  string                   `json:"tariff"`
	Input   types.ScenarioInput      `json:"input"`
	Result  types.ScenarioResult     `json:"result"`
	Optimal types.OptimalPanelResult `json:"optimal"`
}

func main() {
	d := types.DefaultDefaults()
	opts := options{
		input:    d.Input(d.ConsumptionKWH, d.PanelCount),
		limits:   d.Limits,
		horizons: d.ProjectionYears,
	}
	lflag.JSON(&opts.input.MonthlyConsumptionKWH, "kwh", opts.input.MonthlyConsumptionKWH, "Monthly consumption in kWh")
	lflag.JSON(&opts.input.PanelCount, "panels", opts.input.PanelCount, "Number of panels to evaluate")
	lflag.JSON(&opts.input.GenerationPerPanelKWH, "generation", opts.input.GenerationPerPanelKWH, "Yearly generation of a single panel in kWh")
	lflag.JSON(&opts.input.CostPerPanel, "cost", opts.input.CostPerPanel, "Price of a single panel in the panel currency")
	lflag.JSON(&opts.input.ExchangeRate, "exchange-rate", opts.input.ExchangeRate, "Billing currency units per panel currency unit")
	lflag.JSON(&opts.limits.MaxPanels, "max-panels", opts.limits.MaxPanels, "Largest panel count searched")
	lflag.JSON(&opts.horizons, "projection-years", opts.horizons, "JSON list of horizons in years to project net savings for")
	tariffFile := lflag.String("tariff-file", "", "JSON tariff to bill with instead of the built-in one")
	xlsxPath := lflag.String("xlsx", "", "Also write an XLSX report to this path")
	lflag.Configure()

	if err := log.Configure(); err != nil {
		panic(err)
	}
	opts.tariffFile = *tariffFile
	opts.xlsxPath = *xlsxPath

	ctx := context.Background()
	if err := run(ctx, opts, os.Stdout); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "estimate failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func loadTable(path string) (*tariff.Table, error) {
	if path == "" {
		return tariff.Canonical(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tariff file: %w", err)
	}
	var t types.Tariff
	if err := json.Unmarshal(b, &t); err != nil {
		return nil, fmt.Errorf("failed to parse tariff file: %w", err)
	}
	return tariff.NewTable(t)
}

func run(ctx context.Context, opts options, stdout io.Writer) error {
	table, err := loadTable(opts.tariffFile)
	if err != nil {
		return err
	}
	in, err := opts.input.Normalize(opts.limits)
	if err != nil {
		return err
	}
	maxPanels := max(1, opts.limits.MaxPanels)

	out := output{
		Tariff:  table.ID(),
		Input:   in,
		Result:  solar.Evaluate(table, in, opts.horizons...),
		Optimal: solar.SearchOptimal(table, in, maxPanels),
	}
	log.Ctx(ctx).DebugContext(ctx, "estimated",
		slog.String("tariff", out.Tariff),
		slog.Int("optimal", out.Optimal.PanelCount),
	)

	if opts.xlsxPath != "" {
		f, err := os.Create(opts.xlsxPath)
		if err != nil {
			return fmt.Errorf("failed to create report: %w", err)
		}
		if err := report.WriteXLSX(f, table, out.Input, out.Result, out.Optimal); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to close report: %w", err)
		}
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
