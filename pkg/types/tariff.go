package types

import (
	"encoding/json"
	"math"
)

// Tier is a consumption bracket billed at a single flat rate.
type Tier struct {
	// UpperBound is the inclusive upper bound of the bracket in kWh per month.
	// The last tier of a table is unbounded (+Inf).
	UpperBound float64
	// Rate is the price per kWh in the tariff currency.
	Rate float64
}

// Unbounded reports whether the tier has no upper bound.
func (t Tier) Unbounded() bool {
	return math.IsInf(t.UpperBound, 1)
}

type tierJSON struct {
	UpperBound *float64 `json:"upperBound"`
	Rate       float64  `json:"rate"`
}

// MarshalJSON encodes the unbounded tier with a null upperBound since JSON has
// no representation for infinity.
func (t Tier) MarshalJSON() ([]byte, error) {
	var tj tierJSON
	tj.Rate = t.Rate
	if !t.Unbounded() {
		ub := t.UpperBound
		tj.UpperBound = &ub
	}
	return json.Marshal(tj)
}

// UnmarshalJSON decodes a tier, treating a missing or null upperBound as +Inf.
func (t *Tier) UnmarshalJSON(b []byte) error {
	var tj tierJSON
	if err := json.Unmarshal(b, &tj); err != nil {
		return err
	}
	t.Rate = tj.Rate
	if tj.UpperBound == nil {
		t.UpperBound = math.Inf(1)
	} else {
		t.UpperBound = *tj.UpperBound
	}
	return nil
}

// Tariff is the storage and transport form of a tier table.
type Tariff struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Currency string `json:"currency"`
	Tiers    []Tier `json:"tiers"`
}

// TariffInfo provides metadata about a tariff for listing.
type TariffInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Currency  string `json:"currency"`
	TierCount int    `json:"tierCount"`
	Default   bool   `json:"default"`
}

// TierInfo describes a single tier of a table for reference displays.
type TierInfo struct {
	Index      int     `json:"index"`
	LowerBound float64 `json:"lowerBound"`
	UpperBound float64 `json:"-"`
	Rate       float64 `json:"rate"`
	// BillAtUpperBound is nil for the unbounded tier.
	BillAtUpperBound *float64 `json:"billAtUpperBound"`
	// IncreaseVsBasePct is the rate increase relative to the first tier.
	IncreaseVsBasePct float64 `json:"increaseVsBasePct"`
	// IncreaseVsPrevPct is nil for the first tier.
	IncreaseVsPrevPct *float64 `json:"increaseVsPrevPct"`
}

// MarshalJSON encodes an unbounded upperBound as null.
func (ti TierInfo) MarshalJSON() ([]byte, error) {
	type alias TierInfo
	var ub *float64
	if !math.IsInf(ti.UpperBound, 1) {
		v := ti.UpperBound
		ub = &v
	}
	return json.Marshal(struct {
		alias
		UpperBound *float64 `json:"upperBound"`
	}{alias(ti), ub})
}

// TierJump describes the bill increase caused by crossing a tier boundary.
type TierJump struct {
	FromTier        int     `json:"fromTier"`
	ToTier          int     `json:"toTier"`
	BoundKWH        float64 `json:"boundKWH"`
	BillAtBound     float64 `json:"billAtBound"`
	BillAfterBound  float64 `json:"billAfterBound"`
	IncreaseAmount  float64 `json:"increaseAmount"`
	IncreasePercent float64 `json:"increasePercent"`
}
