package server

import (
	"log/slog"
	"net/http"

	"github.com/tierwatt/tierwatt/pkg/log"
	"github.com/tierwatt/tierwatt/pkg/solar"
	"github.com/tierwatt/tierwatt/pkg/types"
)

type scenarioDisplay struct {
	MonthlyCost             string `json:"monthlyCost"`
	YearlyCost              string `json:"yearlyCost"`
	MonthlyCostWithSolar    string `json:"monthlyCostWithSolar"`
	YearlyCostWithSolar     string `json:"yearlyCostWithSolar"`
	AnnualSavings           string `json:"annualSavings"`
	InstallationCostPanel   string `json:"installationCostPanel"`
	InstallationCostBilling string `json:"installationCostBilling"`
	Payback                 string `json:"payback"`
}

type scenarioResponse struct {
	Tariff            string               `json:"tariff"`
	Currency          string               `json:"currency"`
	PanelCurrency     string               `json:"panelCurrency"`
	Input             types.ScenarioInput  `json:"input"`
	Result            types.ScenarioResult `json:"result"`
	OptimalPanelCount int                  `json:"optimalPanelCount"`
	Display           scenarioDisplay      `json:"display"`
}

type optimalResponse struct {
	Tariff    string              `json:"tariff"`
	Input     types.ScenarioInput `json:"input"`
	MaxPanels int                 `json:"maxPanels"`
	types.OptimalPanelResult
}

func (s *Server) handleScenario(w http.ResponseWriter, r *http.Request) {
	req, err := decodeScenarioRequest(w, r)
	if err != nil {
		writeInputError(w, r, err)
		return
	}
	t, err := s.table(r.Context(), req.Tariff)
	if err != nil {
		writeInputError(w, r, err)
		return
	}
	in, err := s.input(req)
	if err != nil {
		writeInputError(w, r, err)
		return
	}

	res := solar.Evaluate(t, in, s.defaults.ProjectionYears...)
	optimal := solar.FindOptimalPanelCount(t, in.MonthlyConsumptionKWH, in.GenerationPerPanelKWH, in.CostPerPanel, in.ExchangeRate, s.maxPanels(req.MaxPanels))
	log.Ctx(r.Context()).DebugContext(r.Context(), "evaluated scenario",
		slog.String("tariff", t.ID()),
		slog.Float64("kwh", in.MonthlyConsumptionKWH),
		slog.Int("panels", in.PanelCount),
		slog.Int("optimal", optimal),
	)

	cur, panelCur := t.Currency(), s.defaults.PanelCurrency
	writeJSON(w, r, scenarioResponse{
		Tariff:            t.ID(),
		Currency:          cur,
		PanelCurrency:     panelCur,
		Input:             in,
		Result:            res,
		OptimalPanelCount: optimal,
		Display: scenarioDisplay{
			MonthlyCost:             money(res.MonthlyCost, cur),
			YearlyCost:              money(res.YearlyCost, cur),
			MonthlyCostWithSolar:    money(res.MonthlyCostWithSolar, cur),
			YearlyCostWithSolar:     money(res.YearlyCostWithSolar, cur),
			AnnualSavings:           money(res.AnnualSavings, cur),
			InstallationCostPanel:   money(res.InstallationCostPanel, panelCur),
			InstallationCostBilling: money(res.InstallationCostBilling, cur),
			Payback:                 res.Payback.String(),
		},
	})
}

func (s *Server) handleOptimal(w http.ResponseWriter, r *http.Request) {
	req, err := decodeScenarioRequest(w, r)
	if err != nil {
		writeInputError(w, r, err)
		return
	}
	t, err := s.table(r.Context(), req.Tariff)
	if err != nil {
		writeInputError(w, r, err)
		return
	}
	in, err := s.input(req)
	if err != nil {
		writeInputError(w, r, err)
		return
	}

	maxPanels := s.maxPanels(req.MaxPanels)
	writeJSON(w, r, optimalResponse{
		Tariff:             t.ID(),
		Input:              in,
		MaxPanels:          maxPanels,
		OptimalPanelResult: solar.SearchOptimal(t, in, maxPanels),
	})
}
