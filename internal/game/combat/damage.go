package combat

import "math"

// HitRate returns clamp(attacker HIT − defender EVD, MinHitRate, MaxHitRate).
// A rate of exactly 1.0 is a guaranteed hit.
func (c Config) HitRate(hit, evd float64) float64 {
	return clamp(hit-evd, c.MinHitRate, c.MaxHitRate)
}

// Mitigation returns min(DEF/(DEF+DefenseConstant), DefenseCap).
func (c Config) Mitigation(def float64) float64 {
	if def <= 0 {
		return 0
	}
	return math.Min(def/(def+c.DefenseConstant), c.DefenseCap)
}

// FinalDamage applies mitigation and the per-hit damage floor.
func (c Config) FinalDamage(pending, def float64) float64 {
	return math.Max(pending*(1-c.Mitigation(def)), c.MinDamage)
}

// CritDamage multiplies pending damage by the crit multiplier.
func CritDamage(pending, critMul float64) float64 {
	return pending * critMul
}

// BlockedDamage reduces pending damage by factor (1 − blkMul);
// blkMul is clamped into [0,1] so a block never heals or amplifies.
func BlockedDamage(pending, blkMul float64) float64 {
	return pending * (1 - clamp01(blkMul))
}

// ExtraTurnRate returns the chance of the n-th extra turn (n = 0, 1, ...):
// min(SPDa/(SPDa+SPDd) × Share, Cap) × Decay^n.
func (c Config) ExtraTurnRate(attackerSPD, defenderSPD float64, n int) float64 {
	total := attackerSPD + defenderSPD
	if total <= 0 {
		return 0
	}
	base := math.Min(attackerSPD/total*c.ExtraTurnShare, c.ExtraTurnCap)
	return clamp01(base * math.Pow(c.ExtraTurnDecay, float64(n)))
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(v, hi))
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}
