package tariff

import (
	"github.com/tierwatt/tierwatt/pkg/types"
)

// Breakdown returns reference data for every tier of the table.
func (t *Table) Breakdown() []types.TierInfo {
	base := t.tiers[0].Rate
	out := make([]types.TierInfo, 0, len(t.tiers))
	for i, tier := range t.tiers {
		info := types.TierInfo{
			Index:      i + 1,
			UpperBound: tier.UpperBound,
			Rate:       tier.Rate,
		}
		if !tier.Unbounded() {
			bill := t.Cost(tier.UpperBound)
			info.BillAtUpperBound = &bill
		}
		if i > 0 {
			prev := t.tiers[i-1]
			info.LowerBound = prev.UpperBound
			info.IncreaseVsBasePct = (tier.Rate - base) / base * 100
			vsPrev := (tier.Rate - prev.Rate) / prev.Rate * 100
			info.IncreaseVsPrevPct = &vsPrev
		}
		out = append(out, info)
	}
	return out
}

// Jumps returns the bill increase caused by consuming one more kWh than each
// finite bound. Bounds where the bill does not increase are skipped, so with a
// table whose rates are non-decreasing every bound is reported.
func (t *Table) Jumps() []types.TierJump {
	var out []types.TierJump
	for i, tier := range t.tiers {
		if tier.Unbounded() {
			continue
		}
		before := t.Cost(tier.UpperBound)
		after := t.Cost(tier.UpperBound + 1)
		if before == 0 || after <= before {
			continue
		}
		out = append(out, types.TierJump{
			FromTier:        i + 1,
			ToTier:          i + 2,
			BoundKWH:        tier.UpperBound,
			BillAtBound:     before,
			BillAfterBound:  after,
			IncreaseAmount:  after - before,
			IncreasePercent: (after - before) / before * 100,
		})
	}
	return out
}
