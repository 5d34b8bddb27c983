package testutil

import "github.com/udisondev/arena/internal/model"

// Uniform returns attributes with every value set to v.
func Uniform(v float64) model.BaseAttributes {
	return model.BaseAttributes{Strength: v, Agility: v, Stamina: v, Intelligence: v, Charisma: v}
}

// Roster returns fresh copies of the standard test profiles:
//   - alice: warrior, epic weapon and rare armor, a godly mage accessory
//   - bob: ranger, legendary boots
//   - carol: mage, no equipment
func Roster() []*model.Profile {
	return []*model.Profile{
		{
			Name:  "alice",
			Class: "warrior",
			Attributes: model.BaseAttributes{
				Strength: 14, Agility: 10, Stamina: 12, Intelligence: 6, Charisma: 8,
			},
			Loadout: model.Loadout{
				"warrior": {
					model.SlotWeapon: {Tier: model.TierEpic, Upgrades: 3},
					model.SlotArmor:  {Tier: model.TierRare},
				},
				"mage": {
					model.SlotAccessory: {Tier: model.TierGodly, Upgrades: 41},
				},
			},
		},
		{
			Name:       "bob",
			Class:      "ranger",
			Attributes: Uniform(11),
			Loadout: model.Loadout{
				"ranger": {
					model.SlotBoots: {Tier: model.TierLegendary, Upgrades: 1},
				},
			},
		},
		{
			Name:       "carol",
			Class:      "mage",
			Attributes: model.BaseAttributes{Strength: 5, Agility: 9, Stamina: 8, Intelligence: 18, Charisma: 12},
		},
	}
}

// Profile returns a fresh copy of one roster profile, nil if unknown.
func Profile(name string) *model.Profile {
	for _, p := range Roster() {
		if p.Name == name {
			return p
		}
	}
	return nil
}
