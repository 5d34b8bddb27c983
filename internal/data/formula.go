package data

import (
	"cmp"
	"slices"
)

// Power level defaults.
const (
	DefaultLinearCoefficient = 1.2
	DefaultSquareCoefficient = 0.04

	// LowestRank is returned when no threshold matches.
	LowestRank = "F"
)

// FormulaConfig holds the power level coefficients:
// level = linear·Σattrs + square·Σattr².
type FormulaConfig struct {
	LinearCoefficient float64 `yaml:"linear_coefficient"`
	SquareCoefficient float64 `yaml:"square_coefficient"`
}

// DefaultFormulaConfig returns the documented coefficients (1.2, 0.04).
func DefaultFormulaConfig() FormulaConfig {
	return FormulaConfig{
		LinearCoefficient: DefaultLinearCoefficient,
		SquareCoefficient: DefaultSquareCoefficient,
	}
}

// RankThreshold maps a minimum power level to a rank name.
type RankThreshold struct {
	Threshold float64 `yaml:"threshold"`
	Rank      string  `yaml:"rank"`
}

// RankTable is ordered by descending threshold.
type RankTable []RankThreshold

// DefaultRanks returns the built-in rank ladder.
func DefaultRanks() RankTable {
	return RankTable{
		{Threshold: 5000, Rank: "SSS"},
		{Threshold: 3000, Rank: "SS"},
		{Threshold: 2000, Rank: "S"},
		{Threshold: 1000, Rank: "A"},
		{Threshold: 500, Rank: "B"},
		{Threshold: 200, Rank: "C"},
		{Threshold: 80, Rank: "D"},
		{Threshold: 30, Rank: "E"},
		{Threshold: 0, Rank: LowestRank},
	}
}

// Sorted returns a copy ordered by descending threshold.
// Config files are not trusted to keep the order.
func (t RankTable) Sorted() RankTable {
	out := slices.Clone(t)
	slices.SortStableFunc(out, func(a, b RankThreshold) int {
		return cmp.Compare(b.Threshold, a.Threshold)
	})
	return out
}
