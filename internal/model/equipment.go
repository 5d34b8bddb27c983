package model

import (
	"fmt"
	"strings"
)

// Tier: уровень качества предмета. Упорядочен: Common < ... < Godly.
type Tier int32

const (
	TierCommon Tier = iota
	TierUncommon
	TierRare
	TierEpic
	TierLegendary
	TierMythic
	TierGodly
)

var tierNames = [...]string{"common", "uncommon", "rare", "epic", "legendary", "mythic", "godly"}

// Tiers returns every tier from lowest to highest.
func Tiers() []Tier {
	out := make([]Tier, 0, len(tierNames))
	for t := TierCommon; t <= TierGodly; t++ {
		out = append(out, t)
	}
	return out
}

// String returns the lower-case tier name.
func (t Tier) String() string {
	if !t.Valid() {
		return fmt.Sprintf("tier(%d)", int32(t))
	}
	return tierNames[t]
}

// Valid reports whether t is one of the known tiers.
func (t Tier) Valid() bool {
	return t >= TierCommon && t <= TierGodly
}

// Next returns the tier above t. Godly has no next tier (ok=false).
func (t Tier) Next() (Tier, bool) {
	if t >= TierGodly || !t.Valid() {
		return t, false
	}
	return t + 1, true
}

// ParseTier parses a tier name (case-insensitive).
func ParseTier(s string) (Tier, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range tierNames {
		if n == name {
			return Tier(i), nil
		}
	}
	return TierCommon, fmt.Errorf("unknown tier %q: %w", s, ErrInvalidInput)
}

// MarshalText implements encoding.TextMarshaler (YAML keys and values).
func (t Tier) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("marshaling tier %d: %w", int32(t), ErrInvalidInput)
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tier) UnmarshalText(text []byte) error {
	parsed, err := ParseTier(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Slot: слот экипировки. Один предмет на слот.
type Slot string

const (
	SlotWeapon    Slot = "weapon"
	SlotHelmet    Slot = "helmet"
	SlotArmor     Slot = "armor"
	SlotBoots     Slot = "boots"
	SlotAccessory Slot = "accessory"
)

// ClassID names the combatant class whose multiplier table applies.
type ClassID string

// EquipmentInstance is a snapshot of one equipped item.
// Mutated only by the upgrade flow (see game/enchant).
type EquipmentInstance struct {
	Tier     Tier `yaml:"tier"`
	Upgrades int  `yaml:"upgrades"`
}

// Validate rejects unknown tiers and negative upgrade counts.
func (e EquipmentInstance) Validate() error {
	if !e.Tier.Valid() {
		return fmt.Errorf("equipment tier %d: %w", int32(e.Tier), ErrInvalidInput)
	}
	if e.Upgrades < 0 {
		return fmt.Errorf("equipment upgrade count %d: %w", e.Upgrades, ErrInvalidInput)
	}
	return nil
}

// EquipmentSet maps each occupied slot to its item.
// An absent slot contributes nothing.
type EquipmentSet map[Slot]EquipmentInstance

// Validate validates every item of the set.
func (s EquipmentSet) Validate() error {
	for slot, inst := range s {
		if err := inst.Validate(); err != nil {
			return fmt.Errorf("slot %s: %w", slot, err)
		}
	}
	return nil
}

// Loadout holds one EquipmentSet per class.
type Loadout map[ClassID]EquipmentSet

// For returns the set of the given class (nil when the class has none).
func (l Loadout) For(class ClassID) EquipmentSet {
	if l == nil {
		return nil
	}
	return l[class]
}
