// Package equipment folds equipped items into a single bonus vector.
//
// Each item's bonus for a stat starts at 30% of its cap and approaches the
// cap exponentially, one step per successful upgrade:
//
//	cap   = godly × tierCoefficient × classMultiplier
//	bonus = 0.30 × cap
//	bonus ← bonus + (cap − bonus) × k   (per upgrade)
package equipment

import (
	"github.com/udisondev/arena/internal/data"
	"github.com/udisondev/arena/internal/model"
)

// Cap returns the ceiling of one stat for an item.
func Cap(godly, tierCoefficient, classMultiplier float64) float64 {
	return godly * tierCoefficient * classMultiplier
}

// ItemBonus returns the bonus after the given number of upgrades.
// Negative upgrade counts are treated as zero.
//
// For 0 < k < 1 the result lies in [0.30·limit, limit) for every finite count.
// A k outside (0,1) never grows the bonus past its starting share.
func ItemBonus(limit, k float64, upgrades int) float64 {
	bonus := data.BaseBonusShare * limit
	if !(k > 0 && k < 1) {
		return bonus
	}
	for range max(upgrades, 0) {
		next := bonus + (limit-bonus)*k
		// float64 converged: stop before rounding lands on the limit itself
		if next == bonus || (limit > 0 && next >= limit) {
			break
		}
		bonus = next
	}
	return bonus
}

// ItemStats returns the per-stat bonus of one item in slot for class.
// A slot without an item definition contributes nothing.
func ItemStats(slot model.Slot, inst model.EquipmentInstance, class model.ClassID, tables *data.BalanceTables) model.BonusVector {
	def, ok := tables.Item(slot)
	if !ok || len(def.Godly) == 0 {
		return nil
	}

	tierCoef := tables.TierCoefficient(inst.Tier)
	k := tables.ConvergenceRate(inst.Tier)

	out := make(model.BonusVector, len(def.Godly))
	for stat, godly := range def.Godly {
		c := Cap(godly, tierCoef, tables.ClassMultiplier(class, stat))
		out[stat] = ItemBonus(c, k, inst.Upgrades)
	}
	return out
}

// Aggregate sums the bonuses of every item in set into one vector.
// Empty or nil set → empty vector.
func Aggregate(set model.EquipmentSet, class model.ClassID, tables *data.BalanceTables) model.BonusVector {
	total := make(model.BonusVector)
	for slot, inst := range set {
		total.Add(ItemStats(slot, inst, class, tables))
	}
	return total
}
