// Package stats composes a combatant's DetailedStatRecord from raw
// attributes and equipment bonuses.
//
// Pipeline: equipment.Aggregate → core bonus (base × pct) → formulas.Derive
// on final core attributes → derived bonus (base × pct) → power level/rank.
package stats

import (
	"fmt"
	"math"
	"strings"

	"github.com/udisondev/arena/internal/data"
	"github.com/udisondev/arena/internal/game/equipment"
	"github.com/udisondev/arena/internal/game/formulas"
	"github.com/udisondev/arena/internal/model"
)

// Config bundles the formula coefficients and the rank ladder.
// Zero coefficients or an empty ladder fall back to the defaults.
type Config struct {
	Formula data.FormulaConfig
	Ranks   data.RankTable
}

// DefaultConfig returns the documented coefficients and the default ladder.
func DefaultConfig() Config {
	return Config{
		Formula: data.DefaultFormulaConfig(),
		Ranks:   data.DefaultRanks(),
	}
}

func (c Config) formula() data.FormulaConfig {
	if c.Formula == (data.FormulaConfig{}) {
		return data.DefaultFormulaConfig()
	}
	return c.Formula
}

func (c Config) ranks() data.RankTable {
	if len(c.Ranks) == 0 {
		return data.DefaultRanks()
	}
	return c.Ranks.Sorted()
}

// Derive builds the record of an equipped combatant.
func Derive(name string, attrs model.BaseAttributes, set model.EquipmentSet, class model.ClassID, tables *data.BalanceTables, cfg Config) (*model.DetailedStatRecord, error) {
	if err := set.Validate(); err != nil {
		return nil, fmt.Errorf("deriving stats for %q: %w", name, err)
	}
	bonus := equipment.Aggregate(set, class, tables)
	return Compose(name, attrs, bonus, cfg)
}

// DeriveProfile is Derive over a profile's active class.
func DeriveProfile(p *model.Profile, tables *data.BalanceTables, cfg Config) (*model.DetailedStatRecord, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return Derive(p.Name, p.Attributes, p.Equipment(), p.Class, tables, cfg)
}

// DeriveNoEquipment builds a record with an empty bonus vector.
// Same formula path as Derive.
func DeriveNoEquipment(name string, attrs model.BaseAttributes, cfg Config) (*model.DetailedStatRecord, error) {
	return Compose(name, attrs, nil, cfg)
}

// FromDerived builds a record for a scripted opponent whose combat
// stats are supplied directly instead of being derived from attributes.
// Core attributes are zero; every bonus is zero.
func FromDerived(name string, d model.Derived, cfg Config) (*model.DetailedStatRecord, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	rec := &model.DetailedStatRecord{Name: name}
	for _, k := range model.DerivedKeys() {
		v := d.Get(k)
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return nil, fmt.Errorf("scripted %q stat %s = %v: %w", name, k, v, model.ErrInvalidInput)
		}
		rec.Derived.Set(k, model.StatTriple{Base: v, Final: v})
	}
	rec.PowerLevel = formulas.PowerLevel(model.BaseAttributes{}, cfg.formula())
	rec.Rank = formulas.Rank(rec.PowerLevel, cfg.ranks())
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return rec, nil
}

// Compose applies a bonus vector to base attributes and derives the record.
//
// Core:    bonus = base × pct, final = base + bonus
// Derived: base from formulas on final core, final = base × (1 + pct)
func Compose(name string, attrs model.BaseAttributes, bonus model.BonusVector, cfg Config) (*model.DetailedStatRecord, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := attrs.Validate(); err != nil {
		return nil, fmt.Errorf("deriving stats for %q: %w", name, err)
	}
	for k, v := range bonus {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("deriving stats for %q: bonus %s not finite: %w", name, k, model.ErrInvalidInput)
		}
	}

	rec := &model.DetailedStatRecord{Name: name}

	var final model.BaseAttributes
	for _, a := range model.Attributes() {
		base := attrs.Get(a)
		add := base * bonus.Get(a.Key())
		rec.Core.Set(a, model.StatTriple{Base: base, Bonus: add, Final: base + add})
		final = final.With(a, base+add)
	}

	derived := formulas.Derive(final)
	for _, k := range model.DerivedKeys() {
		base := derived.Get(k)
		add := base * bonus.Get(k)
		rec.Derived.Set(k, model.StatTriple{Base: base, Bonus: add, Final: base + add})
	}

	rec.PowerLevel = formulas.PowerLevel(final, cfg.formula())
	rec.Rank = formulas.Rank(rec.PowerLevel, cfg.ranks())

	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return rec, nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("combatant name is empty: %w", model.ErrInvalidInput)
	}
	return nil
}
