package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/tierwatt/tierwatt/pkg/types"
)

var errBadRequest = errors.New("bad request")

// maxBodyBytes bounds the size of a JSON request body.
const maxBodyBytes = 1 << 16

// scenarioRequest is the body of the scenario endpoints. Omitted fields take
// the server defaults.
type scenarioRequest struct {
	Tariff                string   `json:"tariff"`
	MonthlyConsumptionKWH *float64 `json:"monthlyConsumptionKWH"`
	PanelCount            *int     `json:"panelCount"`
	GenerationPerPanelKWH *float64 `json:"generationPerPanelKWH"`
	CostPerPanel          *float64 `json:"costPerPanel"`
	ExchangeRate          *float64 `json:"exchangeRate"`
	MaxPanels             *int     `json:"maxPanels"`
}

func decodeScenarioRequest(w http.ResponseWriter, r *http.Request) (scenarioRequest, error) {
	var req scenarioRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return req, fmt.Errorf("%w: invalid request body: %v", errBadRequest, err)
	}
	return req, nil
}

// input applies the defaults to the request and validates the result.
func (s *Server) input(req scenarioRequest) (types.ScenarioInput, error) {
	in := s.defaults.Input(s.defaults.ConsumptionKWH, s.defaults.PanelCount)
	if req.MonthlyConsumptionKWH != nil {
		in.MonthlyConsumptionKWH = *req.MonthlyConsumptionKWH
	}
	if req.PanelCount != nil {
		in.PanelCount = *req.PanelCount
	}
	if req.GenerationPerPanelKWH != nil {
		in.GenerationPerPanelKWH = *req.GenerationPerPanelKWH
	}
	if req.CostPerPanel != nil {
		in.CostPerPanel = *req.CostPerPanel
	}
	if req.ExchangeRate != nil {
		in.ExchangeRate = *req.ExchangeRate
	}
	return in.Normalize(s.defaults.Limits)
}

// maxPanels clamps the requested search range to [1, limit].
func (s *Server) maxPanels(requested *int) int {
	limit := s.defaults.Limits.MaxPanels
	if requested == nil {
		return limit
	}
	return max(1, min(*requested, limit))
}

// queryFloat parses an optional float query parameter.
func queryFloat(q url.Values, name string, def float64) (float64, error) {
	raw := q.Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", errBadRequest, name)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s: %w", name, types.ErrNonFinite)
	}
	return v, nil
}

// queryInt parses an optional integer query parameter.
func queryInt(q url.Values, name string, def int) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", errBadRequest, name)
	}
	return v, nil
}

// money formats an amount with two decimals followed by its currency.
func money(v float64, currency string) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "N/A"
	}
	return decimal.NewFromFloat(v).StringFixed(2) + " " + currency
}
