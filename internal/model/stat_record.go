package model

import (
	"fmt"
	"strings"
)

// StatTriple is the {base, bonus, final} view of one stat.
type StatTriple struct {
	Base  float64 `yaml:"base"`
	Bonus float64 `yaml:"bonus"`
	Final float64 `yaml:"final"`
}

// CoreStats holds a triple per core attribute.
type CoreStats struct {
	Strength     StatTriple `yaml:"strength"`
	Agility      StatTriple `yaml:"agility"`
	Stamina      StatTriple `yaml:"stamina"`
	Intelligence StatTriple `yaml:"intelligence"`
	Charisma     StatTriple `yaml:"charisma"`
}

// Get returns the triple of one attribute.
func (c CoreStats) Get(a Attribute) StatTriple {
	switch a {
	case Strength:
		return c.Strength
	case Agility:
		return c.Agility
	case Stamina:
		return c.Stamina
	case Intelligence:
		return c.Intelligence
	case Charisma:
		return c.Charisma
	default:
		return StatTriple{}
	}
}

// Set replaces the triple of one attribute.
func (c *CoreStats) Set(a Attribute, t StatTriple) {
	switch a {
	case Strength:
		c.Strength = t
	case Agility:
		c.Agility = t
	case Stamina:
		c.Stamina = t
	case Intelligence:
		c.Intelligence = t
	case Charisma:
		c.Charisma = t
	}
}

// DerivedStats holds a triple per derived stat.
type DerivedStats struct {
	HP      StatTriple `yaml:"hp"`
	ATK     StatTriple `yaml:"atk"`
	DEF     StatTriple `yaml:"def"`
	SPD     StatTriple `yaml:"spd"`
	Crit    StatTriple `yaml:"crit"`
	CritMul StatTriple `yaml:"crit_mul"`
	Hit     StatTriple `yaml:"hit"`
	Evd     StatTriple `yaml:"evd"`
	Blk     StatTriple `yaml:"blk"`
	BlkMul  StatTriple `yaml:"blk_mul"`
}

func (d *DerivedStats) ref(k StatKey) *StatTriple {
	switch k {
	case StatHP:
		return &d.HP
	case StatATK:
		return &d.ATK
	case StatDEF:
		return &d.DEF
	case StatSPD:
		return &d.SPD
	case StatCrit:
		return &d.Crit
	case StatCritMul:
		return &d.CritMul
	case StatHit:
		return &d.Hit
	case StatEvd:
		return &d.Evd
	case StatBlk:
		return &d.Blk
	case StatBlkMul:
		return &d.BlkMul
	default:
		return nil
	}
}

// Get returns the triple of one derived stat.
func (d DerivedStats) Get(k StatKey) StatTriple {
	if p := d.ref(k); p != nil {
		return *p
	}
	return StatTriple{}
}

// Set replaces the triple of one derived stat.
func (d *DerivedStats) Set(k StatKey, t StatTriple) {
	if p := d.ref(k); p != nil {
		*p = t
	}
}

// DetailedStatRecord is the combat-scoped view of a combatant:
// base/bonus/final per stat plus power level and rank.
//
// Name is used for logging only, never for identity.
type DetailedStatRecord struct {
	Name       string       `yaml:"name"`
	Core       CoreStats    `yaml:"core"`
	Derived    DerivedStats `yaml:"derived"`
	PowerLevel float64      `yaml:"power_level"`
	Rank       string       `yaml:"rank"`
}

// Final returns the final value of any stat key.
func (r *DetailedStatRecord) Final(k StatKey) float64 {
	if k.IsAttribute() {
		return r.Core.Get(Attribute(k)).Final
	}
	return r.Derived.Get(k).Final
}

// FinalAttributes returns the final core attributes.
func (r *DetailedStatRecord) FinalAttributes() BaseAttributes {
	var out BaseAttributes
	for _, a := range attributeOrder {
		out = out.With(a, r.Core.Get(a).Final)
	}
	return out
}

// FinalDerived returns the final derived stats.
func (r *DetailedStatRecord) FinalDerived() Derived {
	var out Derived
	for _, k := range derivedOrder {
		out.Set(k, r.Derived.Get(k).Final)
	}
	return out
}

// Validate checks non-empty name and finite, non-negative triples.
func (r *DetailedStatRecord) Validate() error {
	if r == nil {
		return fmt.Errorf("nil stat record: %w", ErrInvalidInput)
	}
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("stat record has empty name: %w", ErrInvalidInput)
	}
	for _, a := range attributeOrder {
		if err := validateTriple(string(a), r.Core.Get(a)); err != nil {
			return fmt.Errorf("record %q: %w", r.Name, err)
		}
	}
	for _, k := range derivedOrder {
		if err := validateTriple(string(k), r.Derived.Get(k)); err != nil {
			return fmt.Errorf("record %q: %w", r.Name, err)
		}
	}
	if !isFinite(r.PowerLevel) {
		return fmt.Errorf("record %q: power level not finite: %w", r.Name, ErrInvalidInput)
	}
	return nil
}

func validateTriple(name string, t StatTriple) error {
	for _, v := range [...]float64{t.Base, t.Bonus, t.Final} {
		if !isFinite(v) {
			return fmt.Errorf("stat %s is not finite: %w", name, ErrInvalidInput)
		}
	}
	if t.Final < 0 {
		return fmt.Errorf("stat %s final is negative (%v): %w", name, t.Final, ErrInvalidInput)
	}
	return nil
}
