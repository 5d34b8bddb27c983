package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrProfileNotFound is returned by every profile store for an unknown name.
var ErrProfileNotFound = errors.New("profile not found")

// Profile is the collaborator-owned snapshot of a combatant:
// identity, active class, raw attributes and per-class equipment.
type Profile struct {
	Name       string         `yaml:"name"`
	Class      ClassID        `yaml:"class"`
	Attributes BaseAttributes `yaml:"attributes"`
	Loadout    Loadout        `yaml:"loadout"`
}

// Equipment returns the equipment set of the active class.
func (p *Profile) Equipment() EquipmentSet {
	return p.Loadout.For(p.Class)
}

// Validate checks name, attributes and every equipment set.
func (p *Profile) Validate() error {
	if p == nil {
		return fmt.Errorf("nil profile: %w", ErrInvalidInput)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("profile has empty name: %w", ErrInvalidInput)
	}
	if err := p.Attributes.Validate(); err != nil {
		return fmt.Errorf("profile %q: %w", p.Name, err)
	}
	for class, set := range p.Loadout {
		if err := set.Validate(); err != nil {
			return fmt.Errorf("profile %q class %s: %w", p.Name, class, err)
		}
	}
	return nil
}
