package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

var (
	ErrNonFinite   = errors.New("value must be a finite number")
	ErrOutOfDomain = errors.New("value is outside of the allowed domain")
)

// ScenarioInput holds the numeric inputs of a single solar evaluation.
type ScenarioInput struct {
	MonthlyConsumptionKWH float64 `json:"monthlyConsumptionKWH"`
	PanelCount            int     `json:"panelCount"`
	GenerationPerPanelKWH float64 `json:"generationPerPanelKWH"` // per year
	CostPerPanel          float64 `json:"costPerPanel"`          // panel currency
	ExchangeRate          float64 `json:"exchangeRate"`          // panel currency -> billing currency
}

// Limits bounds the values accepted from callers before they reach the
// calculation core.
type Limits struct {
	MaxConsumptionKWH float64 `json:"maxConsumptionKWH"`
	MaxPanels         int     `json:"maxPanels"`

	// Values above these are rejected. Zero means no limit.
	MaxGenerationPerPanelKWH float64 `json:"maxGenerationPerPanelKWH"`
	MaxCostPerPanel          float64 `json:"maxCostPerPanel"`
	MaxExchangeRate          float64 `json:"maxExchangeRate"`
}

// Normalize validates the input and clamps it to its declared domain. NaN and
// infinite values are rejected rather than clamped, as are non-positive
// generation or exchange rates since there is no meaningful value to clamp to.
func (in ScenarioInput) Normalize(limits Limits) (ScenarioInput, error) {
	fields := []struct {
		name string
		v    float64
	}{
		{"monthlyConsumptionKWH", in.MonthlyConsumptionKWH},
		{"generationPerPanelKWH", in.GenerationPerPanelKWH},
		{"costPerPanel", in.CostPerPanel},
		{"exchangeRate", in.ExchangeRate},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return in, fmt.Errorf("%s: %w", f.name, ErrNonFinite)
		}
	}
	if in.GenerationPerPanelKWH <= 0 {
		return in, fmt.Errorf("generationPerPanelKWH must be positive: %w", ErrOutOfDomain)
	}
	if in.ExchangeRate <= 0 {
		return in, fmt.Errorf("exchangeRate must be positive: %w", ErrOutOfDomain)
	}

	upper := []struct {
		name  string
		v     float64
		limit float64
	}{
		{"generationPerPanelKWH", in.GenerationPerPanelKWH, limits.MaxGenerationPerPanelKWH},
		{"costPerPanel", in.CostPerPanel, limits.MaxCostPerPanel},
		{"exchangeRate", in.ExchangeRate, limits.MaxExchangeRate},
	}
	for _, f := range upper {
		if f.limit > 0 && f.v > f.limit {
			return in, fmt.Errorf("%s must be at most %g: %w", f.name, f.limit, ErrOutOfDomain)
		}
	}

	in.MonthlyConsumptionKWH = math.Max(0, in.MonthlyConsumptionKWH)
	if limits.MaxConsumptionKWH > 0 {
		in.MonthlyConsumptionKWH = math.Min(in.MonthlyConsumptionKWH, limits.MaxConsumptionKWH)
	}
	in.PanelCount = max(0, in.PanelCount)
	if limits.MaxPanels > 0 {
		in.PanelCount = min(in.PanelCount, limits.MaxPanels)
	}
	in.CostPerPanel = math.Max(0, in.CostPerPanel)

	// the largest installation evaluated has to stay finite
	panels := float64(max(in.PanelCount, limits.MaxPanels, 1))
	if math.IsInf(panels*in.GenerationPerPanelKWH, 0) {
		return in, fmt.Errorf("generationPerPanelKWH is too large: %w", ErrOutOfDomain)
	}
	if math.IsInf(panels*in.CostPerPanel*in.ExchangeRate, 0) {
		return in, fmt.Errorf("installation cost is too large: %w", ErrOutOfDomain)
	}
	return in, nil
}

// UnboundedPayback is the payback sentinel used when an installation never
// pays for itself.
var UnboundedPayback = Payback(math.Inf(1))

// Payback is a payback period in years. Callers must check IsUnbounded before
// treating it as a number.
type Payback float64

// IsUnbounded reports whether the installation never pays for itself.
func (p Payback) IsUnbounded() bool {
	return math.IsInf(float64(p), 1) || math.IsNaN(float64(p))
}

// Years returns the payback period and false when it is unbounded.
func (p Payback) Years() (float64, bool) {
	if p.IsUnbounded() {
		return 0, false
	}
	return float64(p), true
}

func (p Payback) String() string {
	if p.IsUnbounded() {
		return "N/A"
	}
	return fmt.Sprintf("%.1f years", float64(p))
}

// MarshalJSON encodes an unbounded payback as null.
func (p Payback) MarshalJSON() ([]byte, error) {
	if p.IsUnbounded() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(p))
}

// UnmarshalJSON decodes null as an unbounded payback.
func (p *Payback) UnmarshalJSON(b []byte) error {
	var v *float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	if v == nil {
		*p = UnboundedPayback
		return nil
	}
	*p = Payback(*v)
	return nil
}

// Projection is the net savings after a number of years.
type Projection struct {
	Years      float64 `json:"years"`
	NetSavings float64 `json:"netSavings"`
}

// ScenarioResult is the derived, read-only snapshot of a ScenarioInput.
// Monetary values are in the billing currency unless noted otherwise.
type ScenarioResult struct {
	MonthlyCost          float64 `json:"monthlyCost"`
	YearlyCost           float64 `json:"yearlyCost"`
	MonthlyCostWithSolar float64 `json:"monthlyCostWithSolar"`
	YearlyCostWithSolar  float64 `json:"yearlyCostWithSolar"`

	AnnualGenerationKWH     float64 `json:"annualGenerationKWH"`
	MonthlyGenerationKWH    float64 `json:"monthlyGenerationKWH"`
	EffectiveOffsetKWH      float64 `json:"effectiveOffsetKWH"`
	ResidualConsumptionKWH  float64 `json:"residualConsumptionKWH"`
	AnnualSavings           float64 `json:"annualSavings"`
	InstallationCostPanel   float64 `json:"installationCostPanel"`   // panel currency
	InstallationCostBilling float64 `json:"installationCostBilling"` // billing currency

	Payback     Payback      `json:"paybackYears"`
	Projections []Projection `json:"projections"`

	// SavingsBracket is empty unless there are savings from at least one panel.
	SavingsBracket string `json:"savingsBracket,omitempty"`
}

// ProjectedSavings returns the net savings after the given number of years.
// It is negative until the installation has been recouped.
func (r ScenarioResult) ProjectedSavings(years float64) float64 {
	return r.AnnualSavings*years - r.InstallationCostBilling
}

// PanelCandidate is a single panel count considered by the optimal search.
type PanelCandidate struct {
	PanelCount              int     `json:"panelCount"`
	InstallationCostBilling float64 `json:"installationCostBilling"`
	AnnualSavings           float64 `json:"annualSavings"`
	Payback                 Payback `json:"paybackYears"`
}

// OptimalPanelResult is the outcome of the optimal panel count search.
type OptimalPanelResult struct {
	PanelCount int              `json:"panelCount"`
	Payback    Payback          `json:"paybackYears"`
	Candidates []PanelCandidate `json:"candidates"`
}

// CurvePoint is a single sample of a cost curve.
type CurvePoint struct {
	KWH           float64 `json:"kwh"`
	Cost          float64 `json:"cost"`
	CostWithSolar float64 `json:"costWithSolar"`
}

// CostCurve is a sampled cost-vs-consumption series.
type CostCurve struct {
	MaxKWH               float64      `json:"maxKWH"`
	MaxCost              float64      `json:"maxCost"`
	MonthlyGenerationKWH float64      `json:"monthlyGenerationKWH"`
	Bounds               []float64    `json:"bounds"`
	Current              CurvePoint   `json:"current"`
	Points               []CurvePoint `json:"points"`
}
