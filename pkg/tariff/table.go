package tariff

import (
	"errors"
	"fmt"
	"math"

	"github.com/tierwatt/tierwatt/pkg/types"
)

var ErrInvalidTable = errors.New("invalid tier table")

// Table is a validated, immutable tier table. Consumption is billed
// non-progressively: the entire monthly consumption is billed at the rate of
// the highest tier reached.
type Table struct {
	id       string
	name     string
	currency string
	tiers    []types.Tier
}

// NewTable validates the tariff and returns a Table. Tiers must be strictly
// ascending by upper bound and terminated by exactly one unbounded tier.
func NewTable(t types.Tariff) (*Table, error) {
	if t.ID == "" {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidTable)
	}
	if len(t.Tiers) == 0 {
		return nil, fmt.Errorf("%w (%s): no tiers", ErrInvalidTable, t.ID)
	}
	prev := 0.0
	for i, tier := range t.Tiers {
		if math.IsNaN(tier.Rate) || math.IsInf(tier.Rate, 0) || tier.Rate <= 0 {
			return nil, fmt.Errorf("%w (%s): tier %d has invalid rate %v", ErrInvalidTable, t.ID, i+1, tier.Rate)
		}
		if math.IsNaN(tier.UpperBound) || tier.UpperBound <= prev {
			return nil, fmt.Errorf("%w (%s): tier %d upper bound %v must be greater than %v", ErrInvalidTable, t.ID, i+1, tier.UpperBound, prev)
		}
		if tier.Unbounded() && i != len(t.Tiers)-1 {
			return nil, fmt.Errorf("%w (%s): unbounded tier %d must be last", ErrInvalidTable, t.ID, i+1)
		}
		prev = tier.UpperBound
	}
	if !t.Tiers[len(t.Tiers)-1].Unbounded() {
		return nil, fmt.Errorf("%w (%s): last tier must be unbounded", ErrInvalidTable, t.ID)
	}
	return &Table{
		id:       t.ID,
		name:     t.Name,
		currency: t.Currency,
		tiers:    append([]types.Tier(nil), t.Tiers...),
	}, nil
}

// CanonicalID is the ID of the built-in residential tariff.
const CanonicalID = "onee_residential"

// CanonicalTariff returns the built-in residential tariff in MAD/kWh.
func CanonicalTariff() types.Tariff {
	return types.Tariff{
		ID:       CanonicalID,
		Name:     "ONEE Residential",
		Currency: "MAD",
		Tiers: []types.Tier{
			{UpperBound: 100, Rate: 0.9010},
			{UpperBound: 150, Rate: 1.0732},
			{UpperBound: 200, Rate: 1.0732},
			{UpperBound: 300, Rate: 1.1676},
			{UpperBound: 500, Rate: 1.3817},
			{UpperBound: math.Inf(1), Rate: 1.5958},
		},
	}
}

// Canonical returns the built-in residential table.
func Canonical() *Table {
	t, err := NewTable(CanonicalTariff())
	if err != nil {
		// we want to have a stack trace when this happens
		panic(fmt.Errorf("canonical tariff is invalid: %w", err))
	}
	return t
}

func (t *Table) ID() string       { return t.id }
func (t *Table) Name() string     { return t.name }
func (t *Table) Currency() string { return t.currency }

// Tiers returns a copy of the tiers.
func (t *Table) Tiers() []types.Tier {
	return append([]types.Tier(nil), t.tiers...)
}

// Bounds returns the finite upper bounds in ascending order.
func (t *Table) Bounds() []float64 {
	bounds := make([]float64, 0, len(t.tiers)-1)
	for _, tier := range t.tiers {
		if !tier.Unbounded() {
			bounds = append(bounds, tier.UpperBound)
		}
	}
	return bounds
}

// Tariff returns the storage form of the table.
func (t *Table) Tariff() types.Tariff {
	return types.Tariff{
		ID:       t.id,
		Name:     t.name,
		Currency: t.currency,
		Tiers:    t.Tiers(),
	}
}

// TierIndex returns the index of the tier whose rate applies to the monthly
// consumption. Consumption at or below zero falls in the first tier.
func (t *Table) TierIndex(monthlyKWH float64) int {
	for i, tier := range t.tiers {
		if monthlyKWH <= tier.UpperBound {
			return i
		}
	}
	return len(t.tiers) - 1
}

// Cost returns the monthly bill for the monthly consumption. Consumption
// exactly on a bound is billed at that tier's rate and anything at or below
// zero costs nothing.
func (t *Table) Cost(monthlyKWH float64) float64 {
	if monthlyKWH <= 0 {
		return 0
	}
	for _, tier := range t.tiers {
		if monthlyKWH <= tier.UpperBound {
			return monthlyKWH * tier.Rate
		}
	}
	// unreachable with a terminal unbounded tier
	return monthlyKWH * t.tiers[len(t.tiers)-1].Rate
}
