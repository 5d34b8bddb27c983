package data

import (
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/udisondev/arena/internal/model"
)

// Documented fallbacks used when a balance table lacks an entry.
const (
	DefaultTierCoefficient = 0.1
	DefaultClassMultiplier = 0.5
	DefaultConvergenceRate = 0.05

	// DefaultUpgradeChance applies to tiers without an explicit success chance.
	DefaultUpgradeChance = 0.5

	// BaseBonusShare is the fraction of cap granted at zero upgrades.
	BaseBonusShare = 0.30
)

// ItemDef describes the item living in one slot: its "godly" (ultimate)
// stat values, i.e. the ceiling a Godly item reaches with coefficient 1.
type ItemDef struct {
	Name  string                    `yaml:"name"`
	Godly map[model.StatKey]float64 `yaml:"godly"`
}

// UpgradeTable drives the upgrade flow (game/enchant).
type UpgradeTable struct {
	// SuccessChance per tier in [0,1].
	SuccessChance map[model.Tier]float64 `yaml:"success_chance"`
	// PromotionThreshold per tier: upgrades needed to promote. 0 = never.
	PromotionThreshold map[model.Tier]int `yaml:"promotion_threshold"`
}

// BalanceTables: статические таблицы баланса, read-only для ядра.
type BalanceTables struct {
	Items            map[model.Slot]ItemDef                      `yaml:"items"`
	TierCoefficients map[model.Tier]float64                      `yaml:"tier_coefficients"`
	ClassMultipliers map[model.ClassID]map[model.StatKey]float64 `yaml:"class_multipliers"`
	ConvergenceRates map[model.Tier]float64                      `yaml:"convergence_rates"`
	Upgrade          UpgradeTable                                `yaml:"upgrade"`
}

// Item returns the definition of the item in slot.
func (b *BalanceTables) Item(slot model.Slot) (ItemDef, bool) {
	if b == nil || b.Items == nil {
		return ItemDef{}, false
	}
	def, ok := b.Items[slot]
	return def, ok
}

// TierCoefficient returns the tier coefficient, DefaultTierCoefficient if absent.
func (b *BalanceTables) TierCoefficient(t model.Tier) float64 {
	if b != nil {
		if v, ok := b.TierCoefficients[t]; ok {
			return v
		}
	}
	return DefaultTierCoefficient
}

// ClassMultiplier returns the class multiplier for stat, DefaultClassMultiplier if absent.
func (b *BalanceTables) ClassMultiplier(class model.ClassID, stat model.StatKey) float64 {
	if b != nil {
		if table, ok := b.ClassMultipliers[class]; ok {
			if v, ok := table[stat]; ok {
				return v
			}
		}
	}
	return DefaultClassMultiplier
}

// ConvergenceRate returns k for tier, DefaultConvergenceRate if absent.
func (b *BalanceTables) ConvergenceRate(t model.Tier) float64 {
	if b != nil {
		if v, ok := b.ConvergenceRates[t]; ok {
			return v
		}
	}
	return DefaultConvergenceRate
}

// UpgradeChance returns the upgrade success chance of tier.
func (b *BalanceTables) UpgradeChance(t model.Tier) float64 {
	if b != nil {
		if v, ok := b.Upgrade.SuccessChance[t]; ok {
			return v
		}
	}
	return DefaultUpgradeChance
}

// PromotionThreshold returns upgrades needed to leave tier t (0 = never).
func (b *BalanceTables) PromotionThreshold(t model.Tier) int {
	if b == nil || t == model.TierGodly {
		return 0
	}
	return b.Upgrade.PromotionThreshold[t]
}

// Validate rejects tables that would break the bonus recurrence:
// convergence rates outside (0,1), negative or non-finite coefficients,
// multipliers and godly values, unknown stat keys, upgrade chances
// outside [0,1] and negative promotion thresholds.
func (b *BalanceTables) Validate() error {
	if b == nil {
		return nil
	}
	for _, slot := range sortedKeys(b.Items) {
		for _, k := range sortedKeys(b.Items[slot].Godly) {
			if !k.Valid() {
				return fmt.Errorf("item %s: unknown stat %q: %w", slot, k, model.ErrInvalidInput)
			}
			if err := nonNegative(fmt.Sprintf("item %s godly %s", slot, k), b.Items[slot].Godly[k]); err != nil {
				return err
			}
		}
	}
	for _, t := range model.Tiers() {
		if v, ok := b.TierCoefficients[t]; ok {
			if err := nonNegative("tier coefficient "+t.String(), v); err != nil {
				return err
			}
		}
		if k, ok := b.ConvergenceRates[t]; ok && !(k > 0 && k < 1) {
			return fmt.Errorf("convergence rate %s = %v, want (0,1): %w", t, k, model.ErrInvalidInput)
		}
		if c, ok := b.Upgrade.SuccessChance[t]; ok && !(c >= 0 && c <= 1) {
			return fmt.Errorf("upgrade chance %s = %v, want [0,1]: %w", t, c, model.ErrInvalidInput)
		}
		if n := b.Upgrade.PromotionThreshold[t]; n < 0 {
			return fmt.Errorf("promotion threshold %s = %d: %w", t, n, model.ErrInvalidInput)
		}
	}
	for _, class := range sortedKeys(b.ClassMultipliers) {
		table := b.ClassMultipliers[class]
		for _, k := range sortedKeys(table) {
			if !k.Valid() {
				return fmt.Errorf("class %s: unknown stat %q: %w", class, k, model.ErrInvalidInput)
			}
			if err := nonNegative(fmt.Sprintf("class %s multiplier %s", class, k), table[k]); err != nil {
				return err
			}
		}
	}
	return nil
}

func nonNegative(what string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fmt.Errorf("%s = %v: %w", what, v, model.ErrInvalidInput)
	}
	return nil
}

// sortedKeys keeps validation errors stable across runs.
func sortedKeys[M ~map[K]V, K ~string, V any](m M) []K {
	return slices.Sorted(maps.Keys(m))
}
