package model

// StatKey identifies an entry of a BonusVector: either a core attribute
// or a derived combat stat.
type StatKey string

// Derived stat keys.
const (
	StatHP      StatKey = "HP"
	StatATK     StatKey = "ATK"
	StatDEF     StatKey = "DEF"
	StatSPD     StatKey = "SPD"
	StatCrit    StatKey = "CRIT"
	StatCritMul StatKey = "CRIT_MUL"
	StatHit     StatKey = "HIT"
	StatEvd     StatKey = "EVD"
	StatBlk     StatKey = "BLK"
	StatBlkMul  StatKey = "BLK_MUL"
)

var derivedOrder = [...]StatKey{
	StatHP, StatATK, StatDEF, StatSPD,
	StatCrit, StatCritMul, StatHit, StatEvd, StatBlk, StatBlkMul,
}

// DerivedKeys returns the ten derived stat keys in display order.
func DerivedKeys() []StatKey {
	out := make([]StatKey, len(derivedOrder))
	copy(out, derivedOrder[:])
	return out
}

// IsAttribute reports whether the key names a core attribute.
func (k StatKey) IsAttribute() bool {
	switch Attribute(k) {
	case Strength, Agility, Stamina, Intelligence, Charisma:
		return true
	}
	return false
}

// IsDerived reports whether the key names a derived stat.
func (k StatKey) IsDerived() bool {
	for _, d := range derivedOrder {
		if d == k {
			return true
		}
	}
	return false
}

// Valid reports whether the key is part of the vocabulary.
func (k StatKey) Valid() bool {
	return k.IsAttribute() || k.IsDerived()
}

// BonusVector maps stat keys to fractional bonuses (0.25 = +25%).
// Recomputed whenever stats are needed, never persisted.
type BonusVector map[StatKey]float64

// Get returns the bonus for key; absent keys are 0.
func (v BonusVector) Get(k StatKey) float64 {
	if v == nil {
		return 0
	}
	return v[k]
}

// Add accumulates other into v and returns v.
// A nil receiver allocates.
func (v BonusVector) Add(other BonusVector) BonusVector {
	if v == nil {
		v = make(BonusVector, len(other))
	}
	for k, b := range other {
		v[k] += b
	}
	return v
}

// IsZero reports whether every entry is 0.
func (v BonusVector) IsZero() bool {
	for _, b := range v {
		if b != 0 {
			return false
		}
	}
	return true
}

// Derived holds the ten derived combat stats.
// Probabilities (Crit, Hit, Evd, Blk) are fractions in [0,1].
type Derived struct {
	HP      float64 `yaml:"hp"`
	ATK     float64 `yaml:"atk"`
	DEF     float64 `yaml:"def"`
	SPD     float64 `yaml:"spd"`
	Crit    float64 `yaml:"crit"`
	CritMul float64 `yaml:"crit_mul"`
	Hit     float64 `yaml:"hit"`
	Evd     float64 `yaml:"evd"`
	Blk     float64 `yaml:"blk"`
	BlkMul  float64 `yaml:"blk_mul"`
}

// Get returns a derived stat by key. Non-derived key → 0.
func (d Derived) Get(k StatKey) float64 {
	switch k {
	case StatHP:
		return d.HP
	case StatATK:
		return d.ATK
	case StatDEF:
		return d.DEF
	case StatSPD:
		return d.SPD
	case StatCrit:
		return d.Crit
	case StatCritMul:
		return d.CritMul
	case StatHit:
		return d.Hit
	case StatEvd:
		return d.Evd
	case StatBlk:
		return d.Blk
	case StatBlkMul:
		return d.BlkMul
	default:
		return 0
	}
}

// Set replaces a derived stat by key. Non-derived keys are ignored.
func (d *Derived) Set(k StatKey, v float64) {
	switch k {
	case StatHP:
		d.HP = v
	case StatATK:
		d.ATK = v
	case StatDEF:
		d.DEF = v
	case StatSPD:
		d.SPD = v
	case StatCrit:
		d.Crit = v
	case StatCritMul:
		d.CritMul = v
	case StatHit:
		d.Hit = v
	case StatEvd:
		d.Evd = v
	case StatBlk:
		d.Blk = v
	case StatBlkMul:
		d.BlkMul = v
	}
}
