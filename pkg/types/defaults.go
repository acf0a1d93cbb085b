package types

// Preset is a named consumption shortcut offered to callers.
type Preset struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	KWH  float64 `json:"kwh"`
}

// Defaults holds the values used when a caller omits a scenario field.
type Defaults struct {
	GenerationPerPanelKWH float64   `json:"generationPerPanelKWH"`
	CostPerPanel          float64   `json:"costPerPanel"`
	ExchangeRate          float64   `json:"exchangeRate"`
	PanelCurrency         string    `json:"panelCurrency"`
	ConsumptionKWH        float64   `json:"consumptionKWH"`
	PanelCount            int       `json:"panelCount"`
	ProjectionYears       []float64 `json:"projectionYears"`
	Presets               []Preset  `json:"presets"`
	Limits                Limits    `json:"limits"`
}

// DefaultDefaults returns the stock defaults: a 670 kWh/year panel costing 300
// USD at 10 MAD per USD, and searches up to 20 panels.
func DefaultDefaults() Defaults {
	return Defaults{
		GenerationPerPanelKWH: 670,
		CostPerPanel:          300,
		ExchangeRate:          10,
		PanelCurrency:         "USD",
		ConsumptionKWH:        450,
		PanelCount:            1,
		ProjectionYears:       []float64{5, 10, 20},
		Presets: []Preset{
			// midpoint of the 201-300 kWh tier
			{ID: "small", Name: "Small Household", KWH: 225},
			// midpoint of the 301-500 kWh tier
			{ID: "medium", Name: "Medium Household", KWH: 450},
			{ID: "large", Name: "Large Household", KWH: 800},
		},
		Limits: Limits{
			MaxConsumptionKWH:        100000,
			MaxPanels:                20,
			MaxGenerationPerPanelKWH: 10000,
			MaxCostPerPanel:          1e6,
			MaxExchangeRate:          1e6,
		},
	}
}

// Input builds a ScenarioInput from the defaults for the given consumption and
// panel count.
func (d Defaults) Input(consumptionKWH float64, panels int) ScenarioInput {
	return ScenarioInput{
		MonthlyConsumptionKWH: consumptionKWH,
		PanelCount:            panels,
		GenerationPerPanelKWH: d.GenerationPerPanelKWH,
		CostPerPanel:          d.CostPerPanel,
		ExchangeRate:          d.ExchangeRate,
	}
}
