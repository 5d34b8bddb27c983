// Package formulas maps the five core attributes to derived combat stats,
// power level and rank.
//
// All functions are pure. Every ratio term with a zero denominator
// evaluates to 0, so no input in [0, +Inf) produces NaN.
package formulas

import (
	"math"

	"github.com/udisondev/arena/internal/data"
	"github.com/udisondev/arena/internal/model"
)

const (
	critMulBase   = 1.5
	critMulCap    = 2.5
	charismaCap   = 50.0
	agilityDecay  = 0.03
	blockMulFloor = 0.1
)

// Derive computes all ten derived stats from final core attributes.
func Derive(a model.BaseAttributes) model.Derived {
	return model.Derived{
		HP:      HP(a),
		ATK:     ATK(a),
		DEF:     DEF(a),
		SPD:     SPD(a),
		Crit:    Crit(a),
		CritMul: CritMul(a),
		Hit:     Hit(a),
		Evd:     Evd(a),
		Blk:     Blk(a),
		BlkMul:  BlkMul(a),
	}
}

// HP = 50·T + 20·S + 10·I
func HP(a model.BaseAttributes) float64 {
	return 50*a.Stamina + 20*a.Strength + 10*a.Intelligence
}

// ATK = 8·S + 3·A + 0.5·I
func ATK(a model.BaseAttributes) float64 {
	return 8*a.Strength + 3*a.Agility + 0.5*a.Intelligence
}

// DEF = 5·T + 2·S + √A. Корень не берётся при A ≤ 0.
func DEF(a model.BaseAttributes) float64 {
	def := 5*a.Stamina + 2*a.Strength
	if a.Agility > 0 {
		def += math.Sqrt(a.Agility)
	}
	return def
}

// SPD = 3·A + 0.5·I + 0.2·C
func SPD(a model.BaseAttributes) float64 {
	return 3*a.Agility + 0.5*a.Intelligence + 0.2*a.Charisma
}

// Crit = [15·(1 − e^(−0.03·A)) + 5·C/(C+50)] / 100
func Crit(a model.BaseAttributes) float64 {
	return (15*saturate(a.Agility) + 5*ratio(a.Charisma, a.Charisma+50)) / 100
}

// CritMul = min(1.5 + 0.015·S + 0.01·min(C,50), 2.5)
func CritMul(a model.BaseAttributes) float64 {
	return math.Min(critMulBase+0.015*a.Strength+0.01*math.Min(a.Charisma, charismaCap), critMulCap)
}

// Hit = [80 + 15·I/(I+30) + 5·A/(A+100)] / 100
func Hit(a model.BaseAttributes) float64 {
	return (80 + 15*ratio(a.Intelligence, a.Intelligence+30) + 5*ratio(a.Agility, a.Agility+100)) / 100
}

// Evd = [15·(1 − e^(−0.03·A)) + 5·T/(T+100)] / 100
func Evd(a model.BaseAttributes) float64 {
	return (15*saturate(a.Agility) + 5*ratio(a.Stamina, a.Stamina+100)) / 100
}

// Blk = [20·T/(T+50) + 5·S/(S+100)] / 100
func Blk(a model.BaseAttributes) float64 {
	return (20*ratio(a.Stamina, a.Stamina+50) + 5*ratio(a.Strength, a.Strength+100)) / 100
}

// BlkMul = 0.1 + 0.14·T/(T+40) + 0.06·S/(S+60)
func BlkMul(a model.BaseAttributes) float64 {
	return blockMulFloor + 0.14*ratio(a.Stamina, a.Stamina+40) + 0.06*ratio(a.Strength, a.Strength+60)
}

// PowerLevel returns linear·Σattrs + square·Σattr², rounded to 2 decimals.
func PowerLevel(a model.BaseAttributes, cfg data.FormulaConfig) float64 {
	level := a.Sum()*cfg.LinearCoefficient + a.SumSquares()*cfg.SquareCoefficient
	return math.Round(level*100) / 100
}

// Rank returns the first rank whose threshold ≤ level.
// The table must be ordered by descending threshold (see data.RankTable.Sorted).
// No match → data.LowestRank.
func Rank(level float64, table data.RankTable) string {
	for _, r := range table {
		if level >= r.Threshold {
			return r.Rank
		}
	}
	return data.LowestRank
}

// ratio returns num/den, 0 when den == 0 or the quotient is NaN.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	q := num / den
	if math.IsNaN(q) {
		return 0
	}
	return q
}

// saturate returns 1 − e^(−0.03·x).
func saturate(x float64) float64 {
	return 1 - math.Exp(-agilityDecay*x)
}
