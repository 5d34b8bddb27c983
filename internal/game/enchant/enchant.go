// Package enchant implements the equipment upgrade flow.
//
// Upgrade flow:
//  1. Caller picks an equipped item (EquipmentInstance) and calls TryUpgrade
//  2. Success chance comes from the tier (Rules.UpgradeChance)
//  3. Success → Upgrades+1; at the tier's promotion threshold the item
//     moves to the next tier with Upgrades reset to 0
//  4. Failure → item unchanged
//
// Godly is the last tier: upgrades keep accumulating, no promotion.
package enchant

import (
	"fmt"
	"math"

	"github.com/udisondev/arena/internal/model"
)

// Rules provides per-tier upgrade parameters. *data.BalanceTables satisfies it.
type Rules interface {
	UpgradeChance(t model.Tier) float64
	PromotionThreshold(t model.Tier) int
}

// Random is the sample source of an attempt (float in [0,1)).
type Random interface {
	Float64() float64
}

// Result describes the outcome of an upgrade attempt.
type Result struct {
	// Success is true if the upgrade went through.
	Success bool
	// Promoted is true if the item moved up a tier.
	Promoted bool
	// Chance is the success chance the attempt was rolled against.
	Chance float64
	// Before/After: состояние предмета до и после попытки.
	Before model.EquipmentInstance
	After  model.EquipmentInstance
}

// SuccessChance returns the chance (0..1) of the next upgrade of inst.
func SuccessChance(inst model.EquipmentInstance, rules Rules) float64 {
	c := rules.UpgradeChance(inst.Tier)
	switch {
	case math.IsNaN(c), c < 0:
		return 0
	case c > 1:
		return 1
	}
	return c
}

// TryUpgrade performs an attempt with a sample drawn from rng.
// Does NOT modify inst; caller stores Result.After.
func TryUpgrade(inst model.EquipmentInstance, rules Rules, rng Random) (Result, error) {
	if rng == nil {
		return Result{}, fmt.Errorf("upgrade attempt: nil random: %w", model.ErrInvalidInput)
	}
	return TryUpgradeWithRoll(inst, rules, rng.Float64())
}

// TryUpgradeWithRoll performs the attempt with an explicit roll in [0,1).
// Used for deterministic testing.
func TryUpgradeWithRoll(inst model.EquipmentInstance, rules Rules, roll float64) (Result, error) {
	if err := inst.Validate(); err != nil {
		return Result{}, fmt.Errorf("upgrade attempt: %w", err)
	}

	chance := SuccessChance(inst, rules)
	res := Result{Chance: chance, Before: inst, After: inst}

	// chance 1.0 is guaranteed: roll is always < 1
	if roll >= chance {
		return res, nil
	}

	res.Success = true
	res.After.Upgrades++

	threshold := rules.PromotionThreshold(inst.Tier)
	if threshold > 0 && res.After.Upgrades >= threshold {
		if next, ok := inst.Tier.Next(); ok {
			res.After = model.EquipmentInstance{Tier: next}
			res.Promoted = true
		}
	}
	return res, nil
}
